package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/members/member/model"
)

// ErrAdultPhoneRequired: registration business rule; adults must be
// reachable by phone for follow-up.
var ErrAdultPhoneRequired = errors.New("adult members must supply a phone number")

type MemberService struct{}

func NewMemberService() *MemberService { return &MemberService{} }

// CreateMember enforces the adult-phone rule server-side and inserts.
func (s *MemberService) CreateMember(tx *gorm.DB, mdl *model.MemberModel) error {
	if mdl.MemberAgeGroup == model.AgeGroupAdult {
		if mdl.MemberPhone == nil || strings.TrimSpace(*mdl.MemberPhone) == "" {
			return ErrAdultPhoneRequired
		}
	}
	return tx.Create(mdl).Error
}

// SearchMembers: case-insensitive substring match across first name,
// surname and the concatenations in either order, ordered by name.
// Used both for registration duplicate-prevention and check-in lookup.
func (s *MemberService) SearchMembers(tx *gorm.DB, churchID uuid.UUID, query, ageGroup string, limit, offset int) ([]model.MemberModel, int64, error) {
	q := tx.Model(&model.MemberModel{}).
		Where("member_church_id = ?", churchID)

	if trimmed := strings.TrimSpace(query); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		q = q.Where(
			"LOWER(member_first_name) LIKE ? OR LOWER(member_surname) LIKE ? OR LOWER(member_first_name || ' ' || member_surname) LIKE ? OR LOWER(member_surname || ' ' || member_first_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if ageGroup != "" {
		q = q.Where("member_age_group = ?", ageGroup)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []model.MemberModel
	err := q.Order("member_first_name ASC, member_surname ASC").
		Limit(limit).Offset(offset).
		Find(&members).Error
	return members, total, err
}

// FindByExactName: case-insensitive exact first+surname match within a
// church. The visitor promotion heuristic and the reconciliation job
// both depend on this exact rule; do not strengthen it silently.
func (s *MemberService) FindByExactName(tx *gorm.DB, churchID uuid.UUID, firstName, surname string) (*model.MemberModel, error) {
	var mdl model.MemberModel
	err := tx.
		Where("member_church_id = ?", churchID).
		Where("LOWER(member_first_name) = ? AND LOWER(member_surname) = ?",
			strings.ToLower(strings.TrimSpace(firstName)),
			strings.ToLower(strings.TrimSpace(surname))).
		First(&mdl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mdl, nil
}

// GetMembersByParent returns the children linked via member_parent_id;
// used to pre-populate family check-in candidate lists.
func (s *MemberService) GetMembersByParent(tx *gorm.DB, churchID, parentID uuid.UUID) ([]model.MemberModel, error) {
	var children []model.MemberModel
	err := tx.
		Where("member_church_id = ? AND member_parent_id = ?", churchID, parentID).
		Order("member_first_name ASC").
		Find(&children).Error
	return children, err
}

// GetMember fetches a member scoped to the church; cross-tenant ids
// come back as not found.
func (s *MemberService) GetMember(tx *gorm.DB, churchID, memberID uuid.UUID) (*model.MemberModel, error) {
	var mdl model.MemberModel
	err := tx.
		Where("member_id = ? AND member_church_id = ?", memberID, churchID).
		First(&mdl).Error
	if err != nil {
		return nil, err
	}
	return &mdl, nil
}

// FindByFingerprint: exact match on the opaque scanner string.
func (s *MemberService) FindByFingerprint(tx *gorm.DB, churchID uuid.UUID, fingerprintID string) (*model.MemberModel, error) {
	var mdl model.MemberModel
	err := tx.
		Where("member_church_id = ? AND member_fingerprint_id = ?", churchID, fingerprintID).
		First(&mdl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mdl, nil
}
