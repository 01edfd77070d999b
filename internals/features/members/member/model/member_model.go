package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender / age-group enums as stored in the DB.
const (
	GenderMale   = "male"
	GenderFemale = "female"

	AgeGroupChild      = "child"
	AgeGroupAdolescent = "adolescent"
	AgeGroupAdult      = "adult"
)

// MemberModel carries two independent optional groupings:
// parent/child via member_parent_id (depth 1 in practice) and the family
// unit via member_family_group_id + head flags. They are never
// reconciled against each other.
type MemberModel struct {
	MemberID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:member_id" json:"member_id"`
	MemberChurchID uuid.UUID `gorm:"type:uuid;not null;index:idx_members_church;column:member_church_id" json:"member_church_id"`

	MemberFirstName string `gorm:"size:100;not null;column:member_first_name" json:"member_first_name"`
	MemberSurname   string `gorm:"size:100;not null;column:member_surname"    json:"member_surname"`
	MemberGender    string `gorm:"type:varchar(10);not null;column:member_gender"    json:"member_gender"`
	MemberAgeGroup  string `gorm:"type:varchar(15);not null;column:member_age_group" json:"member_age_group"`

	MemberPhone       *string    `gorm:"size:30;column:member_phone"        json:"member_phone,omitempty"`
	MemberEmail       *string    `gorm:"size:255;column:member_email"       json:"member_email,omitempty"`
	MemberAddress     *string    `gorm:"column:member_address"              json:"member_address,omitempty"`
	MemberDateOfBirth *time.Time `gorm:"type:date;column:member_date_of_birth" json:"member_date_of_birth,omitempty"`

	// opaque scanner string; the biometric flow is a mock keyed by it
	MemberFingerprintID *string `gorm:"size:255;column:member_fingerprint_id;uniqueIndex:uq_members_fingerprint,where:member_fingerprint_id IS NOT NULL" json:"member_fingerprint_id,omitempty"`

	MemberParentID *uuid.UUID `gorm:"type:uuid;index:idx_members_parent;column:member_parent_id" json:"member_parent_id,omitempty"`

	MemberFamilyGroupID      *uuid.UUID `gorm:"type:uuid;index:idx_members_family_group;column:member_family_group_id" json:"member_family_group_id,omitempty"`
	MemberRelationshipToHead *string    `gorm:"size:50;column:member_relationship_to_head" json:"member_relationship_to_head,omitempty"`
	MemberIsFamilyHead       bool       `gorm:"not null;default:false;column:member_is_family_head" json:"member_is_family_head"`

	MemberIsCurrentMember bool    `gorm:"not null;default:true;column:member_is_current_member" json:"member_is_current_member"`
	MemberPhotoURL        *string `gorm:"column:member_photo_url" json:"member_photo_url,omitempty"`

	MemberCreatedAt time.Time      `gorm:"column:member_created_at;autoCreateTime" json:"member_created_at"`
	MemberUpdatedAt time.Time      `gorm:"column:member_updated_at;autoUpdateTime" json:"member_updated_at"`
	MemberDeletedAt gorm.DeletedAt `gorm:"column:member_deleted_at;index"          json:"member_deleted_at,omitempty"`
}

func (MemberModel) TableName() string { return "members" }

func (m *MemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	return nil
}

// FullName as displayed in check-in lists and CSV exports.
func (m MemberModel) FullName() string {
	return m.MemberFirstName + " " + m.MemberSurname
}
