package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Follow-up statuses for a visitor. "member" marks the visitor as
// promoted; the promotion itself is handled by the visitor service.
const (
	FollowUpStatusPending   = "pending"
	FollowUpStatusContacted = "contacted"
	FollowUpStatusMember    = "member"
)

// VisitorModel is a provisional person record. Name stays a single
// column; the promotion heuristic splits it on whitespace.
type VisitorModel struct {
	VisitorID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:visitor_id" json:"visitor_id"`
	VisitorChurchID uuid.UUID `gorm:"type:uuid;not null;index:idx_visitors_church;column:visitor_church_id" json:"visitor_church_id"`

	VisitorName     string `gorm:"size:200;not null;column:visitor_name"      json:"visitor_name"`
	VisitorGender   string `gorm:"type:varchar(10);not null;column:visitor_gender"    json:"visitor_gender"`
	VisitorAgeGroup string `gorm:"type:varchar(15);not null;column:visitor_age_group" json:"visitor_age_group"`

	VisitorPhone   *string `gorm:"size:30;column:visitor_phone"  json:"visitor_phone,omitempty"`
	VisitorAddress *string `gorm:"column:visitor_address"        json:"visitor_address,omitempty"`

	// JSON array of free-text prayer points
	VisitorPrayerPoints datatypes.JSON `gorm:"column:visitor_prayer_points" json:"visitor_prayer_points,omitempty"`

	VisitorFollowUpStatus string `gorm:"type:varchar(15);not null;default:'pending';index;column:visitor_follow_up_status" json:"visitor_follow_up_status"`

	VisitorCreatedAt time.Time      `gorm:"column:visitor_created_at;autoCreateTime" json:"visitor_created_at"`
	VisitorUpdatedAt time.Time      `gorm:"column:visitor_updated_at;autoUpdateTime" json:"visitor_updated_at"`
	VisitorDeletedAt gorm.DeletedAt `gorm:"column:visitor_deleted_at;index"          json:"visitor_deleted_at,omitempty"`
}

func (VisitorModel) TableName() string { return "visitors" }

func (m *VisitorModel) BeforeCreate(tx *gorm.DB) error {
	if m.VisitorID == uuid.Nil {
		m.VisitorID = uuid.New()
	}
	return nil
}
