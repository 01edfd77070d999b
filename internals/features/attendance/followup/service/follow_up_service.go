package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gerejaku_backend/internals/features/attendance/followup/model"
	attendanceModel "gerejaku_backend/internals/features/attendance/records/model"
	attendanceService "gerejaku_backend/internals/features/attendance/records/service"
	memberModel "gerejaku_backend/internals/features/members/member/model"
)

// AbsenceWindowWeeks is the fixed window the periodic scan evaluates.
const AbsenceWindowWeeks = 3

type FollowUpService struct{}

func NewFollowUpService() *FollowUpService { return &FollowUpService{} }

// RecordContact upserts the member's follow-up row after a staff
// contact attempt and clears the needs-follow-up flag.
func (s *FollowUpService) RecordContact(tx *gorm.DB, churchID, memberID uuid.UUID, contactMethod string, notes *string) (*model.FollowUpRecordModel, error) {
	today := attendanceService.NormalizeDate(time.Now())
	row := model.FollowUpRecordModel{
		FollowUpRecordChurchID:        churchID,
		FollowUpRecordMemberID:        memberID,
		FollowUpRecordNeedsFollowUp:   false,
		FollowUpRecordLastContactDate: &today,
		FollowUpRecordContactMethod:   &contactMethod,
		FollowUpRecordNotes:           notes,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "follow_up_record_member_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"follow_up_record_needs_follow_up":   false,
			"follow_up_record_last_contact_date": today,
			"follow_up_record_contact_method":    contactMethod,
			"follow_up_record_notes":             notes,
			"follow_up_record_updated_at":        time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var saved model.FollowUpRecordModel
	if err := tx.Where("follow_up_record_member_id = ?", memberID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateConsecutiveAbsences recomputes absence counters over the fixed
// 3-week window and flags members with no attendance inside it.
// Aggregation runs Go-side over (member_id, date) pairs so the same
// code path serves Postgres and the sqlite test harness.
func (s *FollowUpService) UpdateConsecutiveAbsences(tx *gorm.DB, churchID uuid.UUID) (int, error) {
	now := attendanceService.NormalizeDate(time.Now())
	cutoff := now.AddDate(0, 0, -AbsenceWindowWeeks*7)

	var members []memberModel.MemberModel
	if err := tx.
		Where("member_church_id = ? AND member_is_current_member = ?", churchID, true).
		Find(&members).Error; err != nil {
		return 0, err
	}

	type pair struct {
		MemberID uuid.UUID `gorm:"column:attendance_record_member_id"`
		Date     time.Time `gorm:"column:attendance_record_attendance_date"`
	}
	var pairs []pair
	if err := tx.Model(&attendanceModel.AttendanceRecordModel{}).
		Select("attendance_record_member_id", "attendance_record_attendance_date").
		Where("attendance_record_church_id = ? AND attendance_record_member_id IS NOT NULL", churchID).
		Find(&pairs).Error; err != nil {
		return 0, err
	}

	lastSeen := make(map[uuid.UUID]time.Time, len(pairs))
	for _, p := range pairs {
		if cur, ok := lastSeen[p.MemberID]; !ok || p.Date.After(cur) {
			lastSeen[p.MemberID] = p.Date
		}
	}

	flagged := 0
	for _, mbr := range members {
		last, attended := lastSeen[mbr.MemberID]
		if attended && !last.Before(cutoff) {
			// attended inside the window; reset any existing counter
			if err := tx.Model(&model.FollowUpRecordModel{}).
				Where("follow_up_record_member_id = ?", mbr.MemberID).
				Updates(map[string]interface{}{
					"follow_up_record_consecutive_absences": 0,
					"follow_up_record_needs_follow_up":      false,
					"follow_up_record_updated_at":           time.Now(),
				}).Error; err != nil {
				return flagged, err
			}
			continue
		}

		absences := AbsenceWindowWeeks
		if attended {
			weeks := int(now.Sub(last).Hours() / (24 * 7))
			if weeks < AbsenceWindowWeeks {
				weeks = AbsenceWindowWeeks
			}
			absences = weeks
		}

		row := model.FollowUpRecordModel{
			FollowUpRecordChurchID:            churchID,
			FollowUpRecordMemberID:            mbr.MemberID,
			FollowUpRecordConsecutiveAbsences: absences,
			FollowUpRecordNeedsFollowUp:       true,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "follow_up_record_member_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"follow_up_record_consecutive_absences": absences,
				"follow_up_record_needs_follow_up":      true,
				"follow_up_record_updated_at":           time.Now(),
			}),
		}).Create(&row).Error; err != nil {
			return flagged, err
		}
		flagged++
	}
	return flagged, nil
}

// FollowUpWithMember joins the member display fields onto the record.
type FollowUpWithMember struct {
	Record model.FollowUpRecordModel `json:"record"`
	Member memberModel.MemberModel   `json:"member"`
}

func (s *FollowUpService) List(tx *gorm.DB, churchID uuid.UUID, needsOnly bool, limit, offset int) ([]FollowUpWithMember, int64, error) {
	q := tx.Model(&model.FollowUpRecordModel{}).
		Where("follow_up_record_church_id = ?", churchID)
	if needsOnly {
		q = q.Where("follow_up_record_needs_follow_up = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.FollowUpRecordModel
	if err := q.Order("follow_up_record_updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	out := make([]FollowUpWithMember, 0, len(records))
	for _, rec := range records {
		var mbr memberModel.MemberModel
		if err := tx.Where("member_id = ?", rec.FollowUpRecordMemberID).First(&mbr).Error; err != nil {
			continue
		}
		out = append(out, FollowUpWithMember{Record: rec, Member: mbr})
	}
	return out, total, nil
}
