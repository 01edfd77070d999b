package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gerejaku_backend/internals/features/attendance/records/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/visitors/visitor/model"
)

var (
	ErrPersonNotFound = errors.New("person not found in this church")
	ErrEventNotFound  = errors.New("event not found in this church")
)

// Per-person outcome of a (batch) check-in.
const (
	StatusCheckedIn = "checked_in"
	StatusDuplicate = "duplicate"
	StatusNotFound  = "not_found"
	StatusError     = "error"
)

type PersonCheckInStatus struct {
	MemberID uuid.UUID `json:"member_id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
}

type AttendanceService struct{}

func NewAttendanceService() *AttendanceService { return &AttendanceService{} }

// NormalizeDate truncates to the calendar day (midnight UTC). All
// duplicate checks and reports compare this value.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckInMember performs the validate → duplicate-check → insert path
// for a member. The pre-check gives the friendly duplicate answer; the
// unique index + ON CONFLICT DO NOTHING closes the race window: zero
// rows affected after a passing pre-check means a concurrent request
// won, which is still reported as duplicate.
func (s *AttendanceService) CheckInMember(tx *gorm.DB, churchID, memberID, eventID uuid.UUID, date time.Time, method string) (*model.AttendanceRecordModel, bool, error) {
	day := NormalizeDate(date)

	var mbr memberModel.MemberModel
	if err := tx.Where("member_id = ? AND member_church_id = ?", memberID, churchID).First(&mbr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrPersonNotFound
		}
		return nil, false, err
	}

	var existing model.AttendanceRecordModel
	err := tx.
		Where("attendance_record_member_id = ? AND attendance_record_attendance_date = ?", memberID, day).
		First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	rec := model.AttendanceRecordModel{
		AttendanceRecordChurchID:       churchID,
		AttendanceRecordMemberID:       &memberID,
		AttendanceRecordEventID:        eventID,
		AttendanceRecordAttendanceDate: day,
		AttendanceRecordCheckInTime:    time.Now(),
		AttendanceRecordCheckInMethod:  method,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		// lost the race; fetch the winner
		if err := tx.
			Where("attendance_record_member_id = ? AND attendance_record_attendance_date = ?", memberID, day).
			First(&existing).Error; err != nil {
			return nil, true, nil
		}
		return &existing, true, nil
	}
	return &rec, false, nil
}

// CheckInVisitor inserts the guest attendance row with the demographic
// snapshot copied from the visitor record.
func (s *AttendanceService) CheckInVisitor(tx *gorm.DB, churchID uuid.UUID, v *visitorModel.VisitorModel, eventID uuid.UUID, date time.Time) (*model.AttendanceRecordModel, bool, error) {
	day := NormalizeDate(date)

	var existing model.AttendanceRecordModel
	err := tx.
		Where("attendance_record_visitor_id = ? AND attendance_record_attendance_date = ?", v.VisitorID, day).
		First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	name := v.VisitorName
	gender := v.VisitorGender
	ageGroup := v.VisitorAgeGroup
	rec := model.AttendanceRecordModel{
		AttendanceRecordChurchID:        churchID,
		AttendanceRecordVisitorID:       &v.VisitorID,
		AttendanceRecordEventID:         eventID,
		AttendanceRecordAttendanceDate:  day,
		AttendanceRecordCheckInTime:     time.Now(),
		AttendanceRecordCheckInMethod:   model.CheckInMethodVisitor,
		AttendanceRecordIsGuest:         true,
		AttendanceRecordVisitorName:     &name,
		AttendanceRecordVisitorGender:   &gender,
		AttendanceRecordVisitorAgeGroup: &ageGroup,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		if err := tx.
			Where("attendance_record_visitor_id = ? AND attendance_record_attendance_date = ?", v.VisitorID, day).
			First(&existing).Error; err != nil {
			return nil, true, nil
		}
		return &existing, true, nil
	}
	return &rec, false, nil
}

// SelectiveFamilyCheckIn checks in the parent plus the staff-selected
// children, all tagged "family" on the same date. Duplicates are
// skipped, never abort the batch; the caller gets a per-person status
// list. Children must actually be linked to the parent.
func (s *AttendanceService) SelectiveFamilyCheckIn(tx *gorm.DB, churchID, parentID uuid.UUID, childrenIDs []uuid.UUID, eventID uuid.UUID, date time.Time) ([]PersonCheckInStatus, error) {
	var parent memberModel.MemberModel
	if err := tx.Where("member_id = ? AND member_church_id = ?", parentID, churchID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	statuses := make([]PersonCheckInStatus, 0, len(childrenIDs)+1)

	_, dup, err := s.CheckInMember(tx, churchID, parentID, eventID, date, model.CheckInMethodFamily)
	parentStatus := PersonCheckInStatus{MemberID: parentID, Name: parent.FullName(), Status: StatusCheckedIn}
	switch {
	case err != nil:
		parentStatus.Status = StatusError
	case dup:
		parentStatus.Status = StatusDuplicate
	}
	statuses = append(statuses, parentStatus)

	for _, childID := range childrenIDs {
		var child memberModel.MemberModel
		err := tx.
			Where("member_id = ? AND member_church_id = ? AND member_parent_id = ?", childID, churchID, parentID).
			First(&child).Error
		if err != nil {
			statuses = append(statuses, PersonCheckInStatus{MemberID: childID, Status: StatusNotFound})
			continue
		}

		_, dup, err := s.CheckInMember(tx, churchID, childID, eventID, date, model.CheckInMethodFamily)
		st := PersonCheckInStatus{MemberID: childID, Name: child.FullName(), Status: StatusCheckedIn}
		switch {
		case err != nil:
			st.Status = StatusError
		case dup:
			st.Status = StatusDuplicate
		}
		statuses = append(statuses, st)
	}

	return statuses, nil
}

// RecordsForDate returns a day's records, newest check-in first.
func (s *AttendanceService) RecordsForDate(tx *gorm.DB, churchID uuid.UUID, date time.Time) ([]model.AttendanceRecordModel, error) {
	var records []model.AttendanceRecordModel
	err := tx.
		Where("attendance_record_church_id = ? AND attendance_record_attendance_date = ?", churchID, NormalizeDate(date)).
		Order("attendance_record_check_in_time DESC").
		Find(&records).Error
	return records, err
}

// HistoryFilter narrows the attendance history listing.
type HistoryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	EventID   *uuid.UUID
	Method    string
	IsGuest   *bool
}

func (s *AttendanceService) History(tx *gorm.DB, churchID uuid.UUID, f HistoryFilter, limit, offset int) ([]model.AttendanceRecordModel, int64, error) {
	q := tx.Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_church_id = ?", churchID)

	if f.StartDate != nil {
		q = q.Where("attendance_record_attendance_date >= ?", NormalizeDate(*f.StartDate))
	}
	if f.EndDate != nil {
		q = q.Where("attendance_record_attendance_date <= ?", NormalizeDate(*f.EndDate))
	}
	if f.EventID != nil {
		q = q.Where("attendance_record_event_id = ?", *f.EventID)
	}
	if f.Method != "" {
		q = q.Where("attendance_record_check_in_method = ?", f.Method)
	}
	if f.IsGuest != nil {
		q = q.Where("attendance_record_is_guest = ?", *f.IsGuest)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.AttendanceRecordModel
	err := q.Order("attendance_record_attendance_date DESC, attendance_record_check_in_time DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error
	return records, total, err
}

// DeleteRecord: explicit admin action; records are otherwise immutable.
func (s *AttendanceService) DeleteRecord(tx *gorm.DB, churchID, recordID uuid.UUID) error {
	res := tx.
		Where("attendance_record_id = ? AND attendance_record_church_id = ?", recordID, churchID).
		Delete(&model.AttendanceRecordModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
