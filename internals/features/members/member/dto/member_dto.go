package dto

import (
	"time"

	"github.com/google/uuid"

	m "gerejaku_backend/internals/features/members/member/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateMemberRequest struct {
	MemberFirstName string `json:"member_first_name" validate:"required,max=100"`
	MemberSurname   string `json:"member_surname"    validate:"required,max=100"`
	MemberGender    string `json:"member_gender"     validate:"required,oneof=male female"`
	MemberAgeGroup  string `json:"member_age_group"  validate:"required,oneof=child adolescent adult"`

	MemberPhone       *string    `json:"member_phone"         validate:"omitempty,max=30"`
	MemberEmail       *string    `json:"member_email"         validate:"omitempty,email"`
	MemberAddress     *string    `json:"member_address"       validate:"omitempty,max=500"`
	MemberDateOfBirth *time.Time `json:"member_date_of_birth" validate:"omitempty"`

	MemberParentID           *uuid.UUID `json:"member_parent_id"            validate:"omitempty,uuid4"`
	MemberFamilyGroupID      *uuid.UUID `json:"member_family_group_id"      validate:"omitempty,uuid4"`
	MemberRelationshipToHead *string    `json:"member_relationship_to_head" validate:"omitempty,max=50"`
	MemberIsFamilyHead       bool       `json:"member_is_family_head"`
}

// Update (partial JSON)
type UpdateMemberRequest struct {
	MemberFirstName *string `json:"member_first_name" validate:"omitempty,max=100"`
	MemberSurname   *string `json:"member_surname"    validate:"omitempty,max=100"`
	MemberGender    *string `json:"member_gender"     validate:"omitempty,oneof=male female"`
	MemberAgeGroup  *string `json:"member_age_group"  validate:"omitempty,oneof=child adolescent adult"`

	MemberPhone       *string    `json:"member_phone"         validate:"omitempty,max=30"`
	MemberEmail       *string    `json:"member_email"         validate:"omitempty,email"`
	MemberAddress     *string    `json:"member_address"       validate:"omitempty,max=500"`
	MemberDateOfBirth *time.Time `json:"member_date_of_birth" validate:"omitempty"`

	MemberParentID           *uuid.UUID `json:"member_parent_id"            validate:"omitempty,uuid4"`
	MemberFamilyGroupID      *uuid.UUID `json:"member_family_group_id"      validate:"omitempty,uuid4"`
	MemberRelationshipToHead *string    `json:"member_relationship_to_head" validate:"omitempty,max=50"`
	MemberIsFamilyHead       *bool      `json:"member_is_family_head"`
	MemberIsCurrentMember    *bool      `json:"member_is_current_member"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type MemberResponse struct {
	MemberID       uuid.UUID `json:"member_id"`
	MemberChurchID uuid.UUID `json:"member_church_id"`

	MemberFirstName string `json:"member_first_name"`
	MemberSurname   string `json:"member_surname"`
	MemberFullName  string `json:"member_full_name"`
	MemberGender    string `json:"member_gender"`
	MemberAgeGroup  string `json:"member_age_group"`

	MemberPhone       *string    `json:"member_phone,omitempty"`
	MemberEmail       *string    `json:"member_email,omitempty"`
	MemberAddress     *string    `json:"member_address,omitempty"`
	MemberDateOfBirth *time.Time `json:"member_date_of_birth,omitempty"`

	MemberFingerprintID *string `json:"member_fingerprint_id,omitempty"`

	MemberParentID           *uuid.UUID `json:"member_parent_id,omitempty"`
	MemberFamilyGroupID      *uuid.UUID `json:"member_family_group_id,omitempty"`
	MemberRelationshipToHead *string    `json:"member_relationship_to_head,omitempty"`
	MemberIsFamilyHead       bool       `json:"member_is_family_head"`

	MemberIsCurrentMember bool      `json:"member_is_current_member"`
	MemberPhotoURL        *string   `json:"member_photo_url,omitempty"`
	MemberCreatedAt       time.Time `json:"member_created_at"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r CreateMemberRequest) ToModel(churchID uuid.UUID) m.MemberModel {
	return m.MemberModel{
		MemberChurchID:           churchID,
		MemberFirstName:          r.MemberFirstName,
		MemberSurname:            r.MemberSurname,
		MemberGender:             r.MemberGender,
		MemberAgeGroup:           r.MemberAgeGroup,
		MemberPhone:              r.MemberPhone,
		MemberEmail:              r.MemberEmail,
		MemberAddress:            r.MemberAddress,
		MemberDateOfBirth:        r.MemberDateOfBirth,
		MemberParentID:           r.MemberParentID,
		MemberFamilyGroupID:      r.MemberFamilyGroupID,
		MemberRelationshipToHead: r.MemberRelationshipToHead,
		MemberIsFamilyHead:       r.MemberIsFamilyHead,
		MemberIsCurrentMember:    true,
	}
}

// ApplyToModel patches only the provided fields.
func (r UpdateMemberRequest) ApplyToModel(mdl *m.MemberModel) {
	if r.MemberFirstName != nil {
		mdl.MemberFirstName = *r.MemberFirstName
	}
	if r.MemberSurname != nil {
		mdl.MemberSurname = *r.MemberSurname
	}
	if r.MemberGender != nil {
		mdl.MemberGender = *r.MemberGender
	}
	if r.MemberAgeGroup != nil {
		mdl.MemberAgeGroup = *r.MemberAgeGroup
	}
	if r.MemberPhone != nil {
		mdl.MemberPhone = r.MemberPhone
	}
	if r.MemberEmail != nil {
		mdl.MemberEmail = r.MemberEmail
	}
	if r.MemberAddress != nil {
		mdl.MemberAddress = r.MemberAddress
	}
	if r.MemberDateOfBirth != nil {
		mdl.MemberDateOfBirth = r.MemberDateOfBirth
	}
	if r.MemberParentID != nil {
		mdl.MemberParentID = r.MemberParentID
	}
	if r.MemberFamilyGroupID != nil {
		mdl.MemberFamilyGroupID = r.MemberFamilyGroupID
	}
	if r.MemberRelationshipToHead != nil {
		mdl.MemberRelationshipToHead = r.MemberRelationshipToHead
	}
	if r.MemberIsFamilyHead != nil {
		mdl.MemberIsFamilyHead = *r.MemberIsFamilyHead
	}
	if r.MemberIsCurrentMember != nil {
		mdl.MemberIsCurrentMember = *r.MemberIsCurrentMember
	}
}

func NewMemberResponse(mdl m.MemberModel) MemberResponse {
	return MemberResponse{
		MemberID:                 mdl.MemberID,
		MemberChurchID:           mdl.MemberChurchID,
		MemberFirstName:          mdl.MemberFirstName,
		MemberSurname:            mdl.MemberSurname,
		MemberFullName:           mdl.FullName(),
		MemberGender:             mdl.MemberGender,
		MemberAgeGroup:           mdl.MemberAgeGroup,
		MemberPhone:              mdl.MemberPhone,
		MemberEmail:              mdl.MemberEmail,
		MemberAddress:            mdl.MemberAddress,
		MemberDateOfBirth:        mdl.MemberDateOfBirth,
		MemberFingerprintID:      mdl.MemberFingerprintID,
		MemberParentID:           mdl.MemberParentID,
		MemberFamilyGroupID:      mdl.MemberFamilyGroupID,
		MemberRelationshipToHead: mdl.MemberRelationshipToHead,
		MemberIsFamilyHead:       mdl.MemberIsFamilyHead,
		MemberIsCurrentMember:    mdl.MemberIsCurrentMember,
		MemberPhotoURL:           mdl.MemberPhotoURL,
		MemberCreatedAt:          mdl.MemberCreatedAt,
	}
}

func NewMemberResponses(models []m.MemberModel) []MemberResponse {
	out := make([]MemberResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewMemberResponse(mdl))
	}
	return out
}
