package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowUpRecordModel: one row per member, upserted whenever staff
// record a contact attempt or the periodic absence scan runs.
type FollowUpRecordModel struct {
	FollowUpRecordID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:follow_up_record_id" json:"follow_up_record_id"`
	FollowUpRecordChurchID uuid.UUID `gorm:"type:uuid;not null;index:idx_follow_up_records_church;column:follow_up_record_church_id" json:"follow_up_record_church_id"`
	FollowUpRecordMemberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_follow_up_member;column:follow_up_record_member_id" json:"follow_up_record_member_id"`

	FollowUpRecordConsecutiveAbsences int  `gorm:"not null;default:0;column:follow_up_record_consecutive_absences" json:"follow_up_record_consecutive_absences"`
	FollowUpRecordNeedsFollowUp       bool `gorm:"not null;default:false;index;column:follow_up_record_needs_follow_up" json:"follow_up_record_needs_follow_up"`

	FollowUpRecordLastContactDate *time.Time `gorm:"type:date;column:follow_up_record_last_contact_date" json:"follow_up_record_last_contact_date,omitempty"`
	FollowUpRecordContactMethod   *string    `gorm:"size:30;column:follow_up_record_contact_method"      json:"follow_up_record_contact_method,omitempty"`
	FollowUpRecordNotes           *string    `gorm:"column:follow_up_record_notes"                       json:"follow_up_record_notes,omitempty"`

	FollowUpRecordCreatedAt time.Time `gorm:"column:follow_up_record_created_at;autoCreateTime" json:"follow_up_record_created_at"`
	FollowUpRecordUpdatedAt time.Time `gorm:"column:follow_up_record_updated_at;autoUpdateTime" json:"follow_up_record_updated_at"`
}

func (FollowUpRecordModel) TableName() string { return "follow_up_records" }

func (m *FollowUpRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.FollowUpRecordID == uuid.Nil {
		m.FollowUpRecordID = uuid.New()
	}
	return nil
}
