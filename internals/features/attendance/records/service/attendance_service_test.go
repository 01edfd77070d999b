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

	"gerejaku_backend/internals/features/attendance/records/model"
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
	// a second pool connection would see its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&memberModel.MemberModel{},
		&visitorModel.VisitorModel{},
		&eventModel.EventModel{},
		&model.AttendanceRecordModel{},
	))
	return db
}

func strPtr(s string) *string { return &s }

func seedMember(t *testing.T, db *gorm.DB, churchID uuid.UUID, first, sur string, parentID *uuid.UUID) memberModel.MemberModel {
	t.Helper()
	mdl := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       first,
		MemberSurname:         sur,
		MemberGender:          memberModel.GenderMale,
		MemberAgeGroup:        memberModel.AgeGroupAdult,
		MemberPhone:           strPtr("0800000000"),
		MemberParentID:        parentID,
		MemberIsCurrentMember: true,
	}
	require.NoError(t, db.Create(&mdl).Error)
	return mdl
}

func seedEvent(t *testing.T, db *gorm.DB, churchID uuid.UUID) eventModel.EventModel {
	t.Helper()
	ev := eventModel.EventModel{
		EventChurchID: churchID,
		EventName:     "Sunday Service",
		EventIsActive: true,
	}
	require.NoError(t, db.Create(&ev).Error)
	return ev
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2026, 3, 15, 18, 45, 12, 999, time.UTC)
	out := NormalizeDate(in)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), out)
}

func TestCheckInMemberDuplicate(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService()
	churchID := uuid.New()
	mbr := seedMember(t, db, churchID, "John", "Mensah", nil)
	ev := seedEvent(t, db, churchID)

	now := time.Now()

	rec, dup, err := svc.CheckInMember(db, churchID, mbr.MemberID, ev.EventID, now, model.CheckInMethodManual)
	require.NoError(t, err)
	assert.False(t, dup)
	require.NotNil(t, rec)
	assert.Equal(t, NormalizeDate(now), rec.AttendanceRecordAttendanceDate)

	// same member, same day, different clock time: duplicate, no new row
	second, dup, err := svc.CheckInMember(db, churchID, mbr.MemberID, ev.EventID, now.Add(2*time.Hour), model.CheckInMethodFingerprint)
	require.NoError(t, err)
	assert.True(t, dup)
	require.NotNil(t, second)
	assert.Equal(t, rec.AttendanceRecordID, second.AttendanceRecordID)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecordModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// next day is a fresh check-in
	_, dup, err = svc.CheckInMember(db, churchID, mbr.MemberID, ev.EventID, now.AddDate(0, 0, 1), model.CheckInMethodManual)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestCheckInMemberLostRace(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService()
	churchID := uuid.New()
	mbr := seedMember(t, db, churchID, "Racy", "Checkin", nil)
	ev := seedEvent(t, db, churchID)

	now := time.Now()

	// simulate a concurrent request winning between the duplicate
	// pre-check and the insert: a create callback slips a rival row in
	// just before ours hits the unique index
	rival := model.AttendanceRecordModel{
		AttendanceRecordChurchID:       churchID,
		AttendanceRecordMemberID:       &mbr.MemberID,
		AttendanceRecordEventID:        ev.EventID,
		AttendanceRecordAttendanceDate: NormalizeDate(now),
		AttendanceRecordCheckInTime:    now,
		AttendanceRecordCheckInMethod:  model.CheckInMethodFingerprint,
	}
	armed := true
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("rival_checkin", func(tx *gorm.DB) {
		if !armed || tx.Statement.Table != "attendance_records" {
			return
		}
		armed = false
		if err := db.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			tx.AddError(err)
		}
	}))
	t.Cleanup(func() {
		require.NoError(t, db.Callback().Create().Remove("rival_checkin"))
	})

	rec, dup, err := svc.CheckInMember(db, churchID, mbr.MemberID, ev.EventID, now, model.CheckInMethodManual)
	require.NoError(t, err)
	assert.True(t, dup)
	require.NotNil(t, rec)
	// the winner's row is returned, not ours
	assert.Equal(t, rival.AttendanceRecordID, rec.AttendanceRecordID)
	assert.Equal(t, model.CheckInMethodFingerprint, rec.AttendanceRecordCheckInMethod)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecordModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckInMemberUnknown(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService()
	churchID := uuid.New()
	ev := seedEvent(t, db, churchID)

	_, _, err := svc.CheckInMember(db, churchID, uuid.New(), ev.EventID, time.Now(), model.CheckInMethodManual)
	assert.ErrorIs(t, err, ErrPersonNotFound)

	// members of another church are invisible
	foreign := seedMember(t, db, uuid.New(), "Other", "Church", nil)
	_, _, err = svc.CheckInMember(db, churchID, foreign.MemberID, ev.EventID, time.Now(), model.CheckInMethodManual)
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestCheckInVisitorSnapshot(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService()
	churchID := uuid.New()
	ev := seedEvent(t, db, churchID)

	v := visitorModel.VisitorModel{
		VisitorChurchID:       churchID,
		VisitorName:           "Jane Doe",
		VisitorGender:         memberModel.GenderFemale,
		VisitorAgeGroup:       memberModel.AgeGroupAdult,
		VisitorFollowUpStatus: visitorModel.FollowUpStatusPending,
	}
	require.NoError(t, db.Create(&v).Error)

	rec, dup, err := svc.CheckInVisitor(db, churchID, &v, ev.EventID, time.Now())
	require.NoError(t, err)
	assert.False(t, dup)
	assert.True(t, rec.AttendanceRecordIsGuest)
	assert.Equal(t, model.CheckInMethodVisitor, rec.AttendanceRecordCheckInMethod)
	require.NotNil(t, rec.AttendanceRecordVisitorName)
	assert.Equal(t, "Jane Doe", *rec.AttendanceRecordVisitorName)
	require.NotNil(t, rec.AttendanceRecordVisitorGender)
	assert.Equal(t, memberModel.GenderFemale, *rec.AttendanceRecordVisitorGender)

	// snapshot survives a later rename of the visitor row
	require.NoError(t, db.Model(&visitorModel.VisitorModel{}).
		Where("visitor_id = ?", v.VisitorID).
		Update("visitor_name", "Jane Smith").Error)
	var stored model.AttendanceRecordModel
	require.NoError(t, db.First(&stored, "attendance_record_id = ?", rec.AttendanceRecordID).Error)
	assert.Equal(t, "Jane Doe", *stored.AttendanceRecordVisitorName)

	// same-day repeat is a duplicate
	_, dup, err = svc.CheckInVisitor(db, churchID, &v, ev.EventID, time.Now())
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestSelectiveFamilyCheckIn(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService()
	churchID := uuid.New()
	ev := seedEvent(t, db, churchID)

	parent := seedMember(t, db, churchID, "Kofi", "Asante", nil)
	childA := seedMember(t, db, churchID, "Abena", "Asante", &parent.MemberID)
	childC := seedMember(t, db, churchID, "Yaw", "Asante", &parent.MemberID)
	// child B exists but is deliberately not selected
	seedMember(t, db, churchID, "Kwame", "Asante", &parent.MemberID)
	unrelated := seedMember(t, db, churchID, "Not", "Linked", nil)

	statuses, err := svc.SelectiveFamilyCheckIn(db, churchID, parent.MemberID,
		[]uuid.UUID{childA.MemberID, childC.MemberID, unrelated.MemberID}, ev.EventID, time.Now())
	require.NoError(t, err)
	require.Len(t, statuses, 4) // parent + 3 requested children

	byID := make(map[uuid.UUID]string, len(statuses))
	for _, st := range statuses {
		byID[st.MemberID] = st.Status
	}
	assert.Equal(t, StatusCheckedIn, byID[parent.MemberID])
	assert.Equal(t, StatusCheckedIn, byID[childA.MemberID])
	assert.Equal(t, StatusCheckedIn, byID[childC.MemberID])
	// not linked via member_parent_id → rejected, batch continues
	assert.Equal(t, StatusNotFound, byID[unrelated.MemberID])

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecordModel{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	var rec model.AttendanceRecordModel
	require.NoError(t, db.First(&rec, "attendance_record_member_id = ?", parent.MemberID).Error)
	assert.Equal(t, model.CheckInMethodFamily, rec.AttendanceRecordCheckInMethod)
}

func TestSelectiveFamilyCheckInPartialDuplicates(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService()
	churchID := uuid.New()
	ev := seedEvent(t, db, churchID)

	parent := seedMember(t, db, churchID, "Ama", "Owusu", nil)
	child := seedMember(t, db, churchID, "Kojo", "Owusu", &parent.MemberID)

	// parent already checked in earlier today
	_, _, err := svc.CheckInMember(db, churchID, parent.MemberID, ev.EventID, time.Now(), model.CheckInMethodManual)
	require.NoError(t, err)

	statuses, err := svc.SelectiveFamilyCheckIn(db, churchID, parent.MemberID,
		[]uuid.UUID{child.MemberID}, ev.EventID, time.Now())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, StatusDuplicate, statuses[0].Status)
	assert.Equal(t, StatusCheckedIn, statuses[1].Status)
}

func TestHistoryFilters(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService()
	churchID := uuid.New()
	ev := seedEvent(t, db, churchID)
	mbr := seedMember(t, db, churchID, "Filter", "Target", nil)

	base := time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, _, err := svc.CheckInMember(db, churchID, mbr.MemberID, ev.EventID, base.AddDate(0, 0, i*7), model.CheckInMethodManual)
		require.NoError(t, err)
	}

	start := base.AddDate(0, 0, 7)
	end := base.AddDate(0, 0, 21)
	records, total, err := svc.History(db, churchID, HistoryFilter{StartDate: &start, EndDate: &end}, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, records, 3)

	guests := true
	_, total, err = svc.History(db, churchID, HistoryFilter{IsGuest: &guests}, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	_, total, err = svc.History(db, churchID, HistoryFilter{Method: model.CheckInMethodManual}, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
}

func TestDeleteRecord(t *testing.T) {
	db := openTestDB(t)
	svc := NewAttendanceService()
	churchID := uuid.New()
	ev := seedEvent(t, db, churchID)
	mbr := seedMember(t, db, churchID, "To", "Delete", nil)

	rec, _, err := svc.CheckInMember(db, churchID, mbr.MemberID, ev.EventID, time.Now(), model.CheckInMethodManual)
	require.NoError(t, err)

	// cross-tenant delete must not work
	err = svc.DeleteRecord(db, uuid.New(), rec.AttendanceRecordID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, svc.DeleteRecord(db, churchID, rec.AttendanceRecordID))

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecordModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// deleting again reports not found
	err = svc.DeleteRecord(db, churchID, rec.AttendanceRecordID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
