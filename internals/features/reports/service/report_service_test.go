package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attendanceModel "gerejaku_backend/internals/features/attendance/records/model"
	attendanceService "gerejaku_backend/internals/features/attendance/records/service"
	eventModel "gerejaku_backend/internals/features/events/event/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/visitors/visitor/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&memberModel.MemberModel{},
		&visitorModel.VisitorModel{},
		&eventModel.EventModel{},
		&attendanceModel.AttendanceRecordModel{},
	))
	return db
}

func strPtr(s string) *string { return &s }

type fixture struct {
	db      *gorm.DB
	church  uuid.UUID
	event   eventModel.EventModel
	attSvc  *attendanceService.AttendanceService
	members []memberModel.MemberModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)
	churchID := uuid.New()
	ev := eventModel.EventModel{EventChurchID: churchID, EventName: "Sunday Service", EventIsActive: true}
	require.NoError(t, db.Create(&ev).Error)
	return &fixture{
		db:     db,
		church: churchID,
		event:  ev,
		attSvc: attendanceService.NewAttendanceService(),
	}
}

func (f *fixture) addMember(t *testing.T, first, sur, gender, ageGroup string) memberModel.MemberModel {
	t.Helper()
	mdl := memberModel.MemberModel{
		MemberChurchID:        f.church,
		MemberFirstName:       first,
		MemberSurname:         sur,
		MemberGender:          gender,
		MemberAgeGroup:        ageGroup,
		MemberPhone:           strPtr("0800000000"),
		MemberIsCurrentMember: true,
	}
	require.NoError(t, f.db.Create(&mdl).Error)
	f.members = append(f.members, mdl)
	return mdl
}

func (f *fixture) checkIn(t *testing.T, memberID uuid.UUID, date time.Time) {
	t.Helper()
	_, _, err := f.attSvc.CheckInMember(f.db, f.church, memberID, f.event.EventID, date, attendanceModel.CheckInMethodManual)
	require.NoError(t, err)
}

func (f *fixture) guestCheckIn(t *testing.T, name, gender, ageGroup string, date time.Time) {
	t.Helper()
	v := visitorModel.VisitorModel{
		VisitorChurchID:       f.church,
		VisitorName:           name,
		VisitorGender:         gender,
		VisitorAgeGroup:       ageGroup,
		VisitorFollowUpStatus: visitorModel.FollowUpStatusPending,
	}
	require.NoError(t, f.db.Create(&v).Error)
	_, _, err := f.attSvc.CheckInVisitor(f.db, f.church, &v, f.event.EventID, date)
	require.NoError(t, err)
}

func TestGetAttendanceStats(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 7, 5, 9, 0, 0, 0, time.UTC)

	m1 := f.addMember(t, "Adult", "Male", memberModel.GenderMale, memberModel.AgeGroupAdult)
	m2 := f.addMember(t, "Adult", "Female", memberModel.GenderFemale, memberModel.AgeGroupAdult)
	m3 := f.addMember(t, "Young", "Boy", memberModel.GenderMale, memberModel.AgeGroupChild)
	f.checkIn(t, m1.MemberID, day)
	f.checkIn(t, m2.MemberID, day)
	f.checkIn(t, m3.MemberID, day)
	f.guestCheckIn(t, "Guest Teen", memberModel.GenderFemale, memberModel.AgeGroupAdolescent, day)

	// a different day must not leak in
	m4 := f.addMember(t, "Other", "Day", memberModel.GenderMale, memberModel.AgeGroupAdult)
	f.checkIn(t, m4.MemberID, day.AddDate(0, 0, 7))

	svc := NewReportService()
	stats, err := svc.GetAttendanceStats(f.db, f.church, day)
	require.NoError(t, err)

	assert.Equal(t, "2026-07-05", stats.Date)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Male)
	assert.Equal(t, 2, stats.Female)
	assert.Equal(t, 1, stats.Child)
	assert.Equal(t, 1, stats.Adolescent)
	assert.Equal(t, 2, stats.Adult)
	assert.Equal(t, 1, stats.Guests)
	// buckets reconcile with the total
	assert.Equal(t, stats.Total, stats.Male+stats.Female)
	assert.Equal(t, stats.Total, stats.Child+stats.Adolescent+stats.Adult)
}

func TestGetMatrixReport(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService()

	alice := f.addMember(t, "Alice", "Ampofo", memberModel.GenderFemale, memberModel.AgeGroupAdult)
	bob := f.addMember(t, "Bob", "Badu", memberModel.GenderMale, memberModel.AgeGroupAdult)
	f.addMember(t, "Carol", "Cudjoe", memberModel.GenderFemale, memberModel.AgeGroupAdult)

	d1 := time.Date(2026, 7, 5, 9, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 7)
	d3 := d1.AddDate(0, 0, 14)
	f.checkIn(t, alice.MemberID, d1)
	f.checkIn(t, alice.MemberID, d2)
	f.checkIn(t, alice.MemberID, d3)
	f.checkIn(t, bob.MemberID, d2)

	report, err := svc.GetMatrixReport(f.db, f.church, d1, d3)
	require.NoError(t, err)

	require.Len(t, report.Dates, 3)
	require.Len(t, report.Rows, 3)
	for _, row := range report.Rows {
		assert.Len(t, row.Cells, 3)
		assert.Equal(t, 3, row.TotalPresent+row.TotalAbsent, row.MemberName)
	}

	byName := make(map[string]int)
	for i, row := range report.Rows {
		byName[row.MemberName] = i
	}
	aliceRow := report.Rows[byName["Alice Ampofo"]]
	assert.Equal(t, 3, aliceRow.TotalPresent)
	assert.InDelta(t, 100.0, aliceRow.AttendancePercentage, 0.01)

	bobRow := report.Rows[byName["Bob Badu"]]
	assert.Equal(t, 1, bobRow.TotalPresent)
	assert.Equal(t, 2, bobRow.TotalAbsent)
	assert.InDelta(t, 33.33, bobRow.AttendancePercentage, 0.1)
	// present cell carries time + method
	present := 0
	for _, cell := range bobRow.Cells {
		if cell.Present {
			present++
			assert.NotNil(t, cell.CheckInTime)
			assert.NotNil(t, cell.Method)
		} else {
			assert.Nil(t, cell.CheckInTime)
		}
	}
	assert.Equal(t, 1, present)

	carolRow := report.Rows[byName["Carol Cudjoe"]]
	assert.Equal(t, 0, carolRow.TotalPresent)
	assert.Equal(t, 3, carolRow.TotalAbsent)
}

func TestGetMissedServicesReport(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService()

	now := time.Now()
	faithful := f.addMember(t, "Faithful", "Attender", memberModel.GenderFemale, memberModel.AgeGroupAdult)
	lapsed := f.addMember(t, "Lapsed", "Member", memberModel.GenderMale, memberModel.AgeGroupAdult)
	f.addMember(t, "Never", "Came", memberModel.GenderMale, memberModel.AgeGroupAdult)

	f.checkIn(t, faithful.MemberID, now.AddDate(0, 0, -7))
	f.checkIn(t, lapsed.MemberID, now.AddDate(0, 0, -28))

	rows, err := svc.GetMissedServicesReport(f.db, f.church, 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := make(map[string]int)
	for i, row := range rows {
		byName[row.MemberName] = i
	}

	lapsedRow := rows[byName["Lapsed Member"]]
	assert.False(t, lapsedRow.NeverAttended)
	require.NotNil(t, lapsedRow.LastAttendance)
	assert.Equal(t, 4, lapsedRow.WeeksMissed)

	neverRow := rows[byName["Never Came"]]
	assert.True(t, neverRow.NeverAttended)
	assert.Nil(t, neverRow.LastAttendance)
}

func TestGetMonthlyBreakdown(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService()

	m := f.addMember(t, "Monthly", "Member", memberModel.GenderMale, memberModel.AgeGroupAdult)
	f.checkIn(t, m.MemberID, time.Date(2026, 7, 5, 9, 0, 0, 0, time.UTC))
	f.checkIn(t, m.MemberID, time.Date(2026, 7, 12, 9, 0, 0, 0, time.UTC))
	f.guestCheckIn(t, "July Guest", memberModel.GenderFemale, memberModel.AgeGroupAdult, time.Date(2026, 7, 12, 10, 0, 0, 0, time.UTC))
	// outside the month
	f.checkIn(t, m.MemberID, time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))

	rows, err := svc.GetMonthlyBreakdown(f.db, f.church, 2026, time.July)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2026-07-05", rows[0].Date)
	assert.Equal(t, 1, rows[0].Stats.Total)
	assert.Equal(t, "2026-07-12", rows[1].Date)
	assert.Equal(t, 2, rows[1].Stats.Total)
	assert.Equal(t, 1, rows[1].Stats.Guests)
}
