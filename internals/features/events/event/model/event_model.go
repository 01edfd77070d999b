package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventModel is a named occurrence (service, program). The external
// check-in pair (url slug + PIN) exists only while the feature is
// enabled; disabling clears both.
type EventModel struct {
	EventID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:event_id" json:"event_id"`
	EventChurchID uuid.UUID `gorm:"type:uuid;not null;index:idx_events_church;column:event_church_id" json:"event_church_id"`

	EventName        string     `gorm:"size:150;not null;column:event_name" json:"event_name"`
	EventDescription *string    `gorm:"column:event_description"            json:"event_description,omitempty"`
	EventDate        *time.Time `gorm:"type:date;column:event_date"         json:"event_date,omitempty"`
	EventLocation    *string    `gorm:"size:200;column:event_location"      json:"event_location,omitempty"`
	EventIsActive    bool       `gorm:"not null;default:true;column:event_is_active" json:"event_is_active"`

	EventExternalCheckInEnabled bool    `gorm:"not null;default:false;column:event_external_check_in_enabled" json:"event_external_check_in_enabled"`
	EventExternalCheckInURL     *string `gorm:"size:32;column:event_external_check_in_url;uniqueIndex:uq_events_external_url,where:event_external_check_in_url IS NOT NULL" json:"event_external_check_in_url,omitempty"`
	EventExternalCheckInPIN     *string `gorm:"size:6;column:event_external_check_in_pin" json:"-"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index"          json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	return nil
}
