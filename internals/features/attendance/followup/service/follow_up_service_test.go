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

	"gerejaku_backend/internals/features/attendance/followup/model"
	attendanceModel "gerejaku_backend/internals/features/attendance/records/model"
	attendanceService "gerejaku_backend/internals/features/attendance/records/service"
	eventModel "gerejaku_backend/internals/features/events/event/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&memberModel.MemberModel{},
		&eventModel.EventModel{},
		&attendanceModel.AttendanceRecordModel{},
		&model.FollowUpRecordModel{},
	))
	return db
}

func strPtr(s string) *string { return &s }

func seedMember(t *testing.T, db *gorm.DB, churchID uuid.UUID, first, sur string) memberModel.MemberModel {
	t.Helper()
	mdl := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       first,
		MemberSurname:         sur,
		MemberGender:          memberModel.GenderMale,
		MemberAgeGroup:        memberModel.AgeGroupAdult,
		MemberPhone:           strPtr("0800000000"),
		MemberIsCurrentMember: true,
	}
	require.NoError(t, db.Create(&mdl).Error)
	return mdl
}

func checkInOn(t *testing.T, db *gorm.DB, churchID uuid.UUID, memberID, eventID uuid.UUID, date time.Time) {
	t.Helper()
	svc := attendanceService.NewAttendanceService()
	_, _, err := svc.CheckInMember(db, churchID, memberID, eventID, date, attendanceModel.CheckInMethodManual)
	require.NoError(t, err)
}

func TestRecordContactUpsert(t *testing.T) {
	db := openTestDB(t)
	svc := NewFollowUpService()
	churchID := uuid.New()
	mbr := seedMember(t, db, churchID, "John", "Mensah")

	notes := "Called, promised to come on Sunday"
	rec, err := svc.RecordContact(db, churchID, mbr.MemberID, "phone", &notes)
	require.NoError(t, err)
	assert.False(t, rec.FollowUpRecordNeedsFollowUp)
	require.NotNil(t, rec.FollowUpRecordContactMethod)
	assert.Equal(t, "phone", *rec.FollowUpRecordContactMethod)
	require.NotNil(t, rec.FollowUpRecordLastContactDate)

	// second contact updates the same row, never inserts another
	rec2, err := svc.RecordContact(db, churchID, mbr.MemberID, "visit", nil)
	require.NoError(t, err)
	assert.Equal(t, rec.FollowUpRecordID, rec2.FollowUpRecordID)
	assert.Equal(t, "visit", *rec2.FollowUpRecordContactMethod)

	var count int64
	require.NoError(t, db.Model(&model.FollowUpRecordModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateConsecutiveAbsences(t *testing.T) {
	db := openTestDB(t)
	svc := NewFollowUpService()
	churchID := uuid.New()

	ev := eventModel.EventModel{EventChurchID: churchID, EventName: "Sunday Service", EventIsActive: true}
	require.NoError(t, db.Create(&ev).Error)

	recent := seedMember(t, db, churchID, "Recent", "Attender")
	absent := seedMember(t, db, churchID, "Long", "Absent")
	never := seedMember(t, db, churchID, "Never", "Came")
	former := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       "Former",
		MemberSurname:         "Member",
		MemberGender:          memberModel.GenderMale,
		MemberAgeGroup:        memberModel.AgeGroupAdult,
		MemberPhone:           strPtr("0800000001"),
		MemberIsCurrentMember: false,
	}
	require.NoError(t, db.Create(&former).Error)

	now := time.Now()
	checkInOn(t, db, churchID, recent.MemberID, ev.EventID, now.AddDate(0, 0, -7))
	checkInOn(t, db, churchID, absent.MemberID, ev.EventID, now.AddDate(0, 0, -35)) // 5 weeks ago

	flagged, err := svc.UpdateConsecutiveAbsences(db, churchID)
	require.NoError(t, err)
	assert.Equal(t, 2, flagged) // absent + never; former is not current

	var absentRec model.FollowUpRecordModel
	require.NoError(t, db.First(&absentRec, "follow_up_record_member_id = ?", absent.MemberID).Error)
	assert.True(t, absentRec.FollowUpRecordNeedsFollowUp)
	assert.GreaterOrEqual(t, absentRec.FollowUpRecordConsecutiveAbsences, AbsenceWindowWeeks)

	var neverRec model.FollowUpRecordModel
	require.NoError(t, db.First(&neverRec, "follow_up_record_member_id = ?", never.MemberID).Error)
	assert.True(t, neverRec.FollowUpRecordNeedsFollowUp)
	assert.Equal(t, AbsenceWindowWeeks, neverRec.FollowUpRecordConsecutiveAbsences)

	// recent attender has no flag
	var count int64
	require.NoError(t, db.Model(&model.FollowUpRecordModel{}).
		Where("follow_up_record_member_id = ?", recent.MemberID).
		Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateConsecutiveAbsencesResetsAfterReturn(t *testing.T) {
	db := openTestDB(t)
	svc := NewFollowUpService()
	churchID := uuid.New()

	ev := eventModel.EventModel{EventChurchID: churchID, EventName: "Sunday Service", EventIsActive: true}
	require.NoError(t, db.Create(&ev).Error)
	mbr := seedMember(t, db, churchID, "Came", "Back")

	now := time.Now()
	checkInOn(t, db, churchID, mbr.MemberID, ev.EventID, now.AddDate(0, 0, -42))

	flagged, err := svc.UpdateConsecutiveAbsences(db, churchID)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	// member shows up this week; next scan clears the flag
	checkInOn(t, db, churchID, mbr.MemberID, ev.EventID, now)
	flagged, err = svc.UpdateConsecutiveAbsences(db, churchID)
	require.NoError(t, err)
	assert.Equal(t, 0, flagged)

	var rec model.FollowUpRecordModel
	require.NoError(t, db.First(&rec, "follow_up_record_member_id = ?", mbr.MemberID).Error)
	assert.False(t, rec.FollowUpRecordNeedsFollowUp)
	assert.Equal(t, 0, rec.FollowUpRecordConsecutiveAbsences)
}

func TestListFollowUps(t *testing.T) {
	db := openTestDB(t)
	svc := NewFollowUpService()
	churchID := uuid.New()

	flaggedMbr := seedMember(t, db, churchID, "Needs", "Contact")
	contactedMbr := seedMember(t, db, churchID, "Already", "Contacted")

	require.NoError(t, db.Create(&model.FollowUpRecordModel{
		FollowUpRecordChurchID:            churchID,
		FollowUpRecordMemberID:            flaggedMbr.MemberID,
		FollowUpRecordConsecutiveAbsences: 4,
		FollowUpRecordNeedsFollowUp:       true,
	}).Error)
	_, err := svc.RecordContact(db, churchID, contactedMbr.MemberID, "sms", nil)
	require.NoError(t, err)

	rows, total, err := svc.List(db, churchID, true, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, flaggedMbr.MemberID, rows[0].Member.MemberID)

	_, total, err = svc.List(db, churchID, false, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
