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
	"gerejaku_backend/internals/features/visitors/visitor/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&memberModel.MemberModel{},
		&model.VisitorModel{},
		&eventModel.EventModel{},
		&attendanceModel.AttendanceRecordModel{},
	))
	return db
}

func strPtr(s string) *string { return &s }

func seedVisitor(t *testing.T, db *gorm.DB, churchID uuid.UUID, name, status string) model.VisitorModel {
	t.Helper()
	v := model.VisitorModel{
		VisitorChurchID:       churchID,
		VisitorName:           name,
		VisitorGender:         memberModel.GenderFemale,
		VisitorAgeGroup:       memberModel.AgeGroupAdult,
		VisitorPhone:          strPtr("0551112222"),
		VisitorFollowUpStatus: status,
	}
	require.NoError(t, db.Create(&v).Error)
	return v
}

func TestSplitVisitorName(t *testing.T) {
	cases := []struct {
		in      string
		first   string
		surname string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane", "Jane", ""},
		{"  Jane   van  Dyk ", "Jane", "van Dyk"},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, surname := SplitVisitorName(tc.in)
		assert.Equal(t, tc.first, first, tc.in)
		assert.Equal(t, tc.surname, surname, tc.in)
	}
}

func TestPromoteVisitorCreatesMember(t *testing.T) {
	db := openTestDB(t)
	svc := NewVisitorService()
	churchID := uuid.New()
	v := seedVisitor(t, db, churchID, "Jane Doe", model.FollowUpStatusMember)

	mbr, created, err := svc.PromoteVisitor(db, &v)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Jane", mbr.MemberFirstName)
	assert.Equal(t, "Doe", mbr.MemberSurname)
	assert.Equal(t, churchID, mbr.MemberChurchID)
	assert.True(t, mbr.MemberIsCurrentMember)
	require.NotNil(t, mbr.MemberPhone)
	assert.Equal(t, "0551112222", *mbr.MemberPhone)
}

func TestPromoteVisitorMatchesExistingMember(t *testing.T) {
	db := openTestDB(t)
	svc := NewVisitorService()
	churchID := uuid.New()

	existing := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       "Jane",
		MemberSurname:         "Doe",
		MemberGender:          memberModel.GenderFemale,
		MemberAgeGroup:        memberModel.AgeGroupAdult,
		MemberPhone:           strPtr("0200000000"),
		MemberIsCurrentMember: true,
	}
	require.NoError(t, db.Create(&existing).Error)

	v := seedVisitor(t, db, churchID, "jane doe", model.FollowUpStatusMember)
	mbr, created, err := svc.PromoteVisitor(db, &v)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.MemberID, mbr.MemberID)

	var count int64
	require.NoError(t, db.Model(&memberModel.MemberModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPromoteVisitorEmptyName(t *testing.T) {
	db := openTestDB(t)
	svc := NewVisitorService()
	v := seedVisitor(t, db, uuid.New(), "   ", model.FollowUpStatusMember)

	_, _, err := svc.PromoteVisitor(db, &v)
	assert.Error(t, err)
}

func TestReconcileVisitorMemberRecords(t *testing.T) {
	db := openTestDB(t)
	svc := NewVisitorService()
	attSvc := attendanceService.NewAttendanceService()
	churchID := uuid.New()

	ev := eventModel.EventModel{EventChurchID: churchID, EventName: "Sunday Service", EventIsActive: true}
	require.NoError(t, db.Create(&ev).Error)

	// visitor attends twice as a guest, then gets promoted
	v := seedVisitor(t, db, churchID, "Jane Doe", model.FollowUpStatusPending)
	day1 := time.Date(2026, 6, 7, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 7)
	_, _, err := attSvc.CheckInVisitor(db, churchID, &v, ev.EventID, day1)
	require.NoError(t, err)
	_, _, err = attSvc.CheckInVisitor(db, churchID, &v, ev.EventID, day2)
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.VisitorModel{}).
		Where("visitor_id = ?", v.VisitorID).
		Update("visitor_follow_up_status", model.FollowUpStatusMember).Error)
	mbr, created, err := svc.PromoteVisitor(db, &v)
	require.NoError(t, err)
	require.True(t, created)

	// the member already has their own record on day2: that guest row
	// must be skipped to preserve per-day uniqueness
	_, _, err = attSvc.CheckInMember(db, churchID, mbr.MemberID, ev.EventID, day2, attendanceModel.CheckInMethodManual)
	require.NoError(t, err)

	results, err := svc.ReconcileVisitorMemberRecords(db, churchID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, v.VisitorID, results[0].VisitorID)
	assert.Equal(t, mbr.MemberID, results[0].MemberID)
	assert.Equal(t, 1, results[0].Repointed)
	assert.Equal(t, 1, results[0].Skipped)

	// day1 guest row now belongs to the member
	var repointed attendanceModel.AttendanceRecordModel
	require.NoError(t, db.First(&repointed,
		"attendance_record_attendance_date = ? AND attendance_record_member_id = ?", day1, mbr.MemberID).Error)
	assert.False(t, repointed.AttendanceRecordIsGuest)
	assert.Nil(t, repointed.AttendanceRecordVisitorID)

	// running again is a no-op for the skipped row
	results, err = svc.ReconcileVisitorMemberRecords(db, churchID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Repointed)
	assert.Equal(t, 1, results[0].Skipped)
}

func TestListVisitorsByStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewVisitorService()
	churchID := uuid.New()

	seedVisitor(t, db, churchID, "Pending One", model.FollowUpStatusPending)
	seedVisitor(t, db, churchID, "Pending Two", model.FollowUpStatusPending)
	seedVisitor(t, db, churchID, "Contacted One", model.FollowUpStatusContacted)
	seedVisitor(t, db, uuid.New(), "Other Church", model.FollowUpStatusPending)

	visitors, total, err := svc.ListVisitors(db, churchID, model.FollowUpStatusPending, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, visitors, 2)

	_, total, err = svc.ListVisitors(db, churchID, "", 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}
