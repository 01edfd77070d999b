package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "gerejaku_backend/internals/features/attendance/records/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	memberService "gerejaku_backend/internals/features/members/member/service"
	"gerejaku_backend/internals/features/visitors/visitor/model"
)

type VisitorService struct {
	members *memberService.MemberService
}

func NewVisitorService() *VisitorService {
	return &VisitorService{members: memberService.NewMemberService()}
}

// SplitVisitorName splits on whitespace: first token → first name, the
// rest joined → surname. Lossy on purpose; the reconciliation job
// depends on the same rule.
func SplitVisitorName(name string) (firstName, surname string) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "", ""
	}
	firstName = parts[0]
	if len(parts) > 1 {
		surname = strings.Join(parts[1:], " ")
	}
	return firstName, surname
}

// PromoteVisitor synthesizes a member from a visitor marked
// follow_up_status="member". Best-effort heuristic join by name: if an
// exact case-insensitive first+surname match already exists in the
// church, no new member is created. Existing attendance rows are NOT
// relinked here; that is the explicit reconciliation operation.
func (s *VisitorService) PromoteVisitor(tx *gorm.DB, v *model.VisitorModel) (*memberModel.MemberModel, bool, error) {
	firstName, surname := SplitVisitorName(v.VisitorName)
	if firstName == "" {
		return nil, false, errors.New("visitor has no usable name")
	}

	existing, err := s.members.FindByExactName(tx, v.VisitorChurchID, firstName, surname)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	mbr := memberModel.MemberModel{
		MemberChurchID:        v.VisitorChurchID,
		MemberFirstName:       firstName,
		MemberSurname:         surname,
		MemberGender:          v.VisitorGender,
		MemberAgeGroup:        v.VisitorAgeGroup,
		MemberPhone:           v.VisitorPhone,
		MemberAddress:         v.VisitorAddress,
		MemberIsCurrentMember: true,
	}
	if err := tx.Create(&mbr).Error; err != nil {
		return nil, false, err
	}
	return &mbr, true, nil
}

// ReconcileResult summarizes one visitor's reconciliation outcome.
type ReconcileResult struct {
	VisitorID   uuid.UUID `json:"visitor_id"`
	VisitorName string    `json:"visitor_name"`
	MemberID    uuid.UUID `json:"member_id"`
	Repointed   int       `json:"repointed"`
	Skipped     int       `json:"skipped"`
}

// ReconcileVisitorMemberRecords is the explicit fix-visitor-member-
// records operation: for every promoted visitor, match a member by the
// exact promotion rule and repoint that visitor's guest attendance rows
// to the member. Rows whose day already has a member record are skipped
// (the per-day uniqueness rule still holds).
func (s *VisitorService) ReconcileVisitorMemberRecords(tx *gorm.DB, churchID uuid.UUID) ([]ReconcileResult, error) {
	var promoted []model.VisitorModel
	if err := tx.
		Where("visitor_church_id = ? AND visitor_follow_up_status = ?", churchID, model.FollowUpStatusMember).
		Find(&promoted).Error; err != nil {
		return nil, err
	}

	results := make([]ReconcileResult, 0, len(promoted))
	for i := range promoted {
		v := &promoted[i]
		firstName, surname := SplitVisitorName(v.VisitorName)
		mbr, err := s.members.FindByExactName(tx, churchID, firstName, surname)
		if err != nil {
			return nil, err
		}
		if mbr == nil {
			continue
		}

		var rows []attendanceModel.AttendanceRecordModel
		if err := tx.
			Where("attendance_record_visitor_id = ? AND attendance_record_church_id = ?", v.VisitorID, churchID).
			Find(&rows).Error; err != nil {
			return nil, err
		}

		res := ReconcileResult{VisitorID: v.VisitorID, VisitorName: v.VisitorName, MemberID: mbr.MemberID}
		for _, row := range rows {
			var clash int64
			if err := tx.Model(&attendanceModel.AttendanceRecordModel{}).
				Where("attendance_record_member_id = ? AND attendance_record_attendance_date = ?", mbr.MemberID, row.AttendanceRecordAttendanceDate).
				Count(&clash).Error; err != nil {
				return nil, err
			}
			if clash > 0 {
				res.Skipped++
				continue
			}
			if err := tx.Model(&attendanceModel.AttendanceRecordModel{}).
				Where("attendance_record_id = ?", row.AttendanceRecordID).
				Updates(map[string]any{
					"attendance_record_member_id":  mbr.MemberID,
					"attendance_record_visitor_id": nil,
					"attendance_record_is_guest":   false,
				}).Error; err != nil {
				return nil, err
			}
			res.Repointed++
		}
		results = append(results, res)
	}
	return results, nil
}

// GetVisitor scoped to the church.
func (s *VisitorService) GetVisitor(tx *gorm.DB, churchID, visitorID uuid.UUID) (*model.VisitorModel, error) {
	var v model.VisitorModel
	err := tx.
		Where("visitor_id = ? AND visitor_church_id = ?", visitorID, churchID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVisitors with optional follow-up status filter.
func (s *VisitorService) ListVisitors(tx *gorm.DB, churchID uuid.UUID, followUpStatus string, limit, offset int) ([]model.VisitorModel, int64, error) {
	q := tx.Model(&model.VisitorModel{}).
		Where("visitor_church_id = ?", churchID)
	if followUpStatus != "" {
		q = q.Where("visitor_follow_up_status = ?", followUpStatus)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var visitors []model.VisitorModel
	err := q.Order("visitor_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&visitors).Error
	return visitors, total, err
}
