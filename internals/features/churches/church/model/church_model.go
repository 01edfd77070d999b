package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChurchModel is the tenant boundary; nearly every query is scoped by
// church_id.
type ChurchModel struct {
	ChurchID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:church_id" json:"church_id"`

	ChurchName    string  `gorm:"size:150;not null;column:church_name"   json:"church_name"`
	ChurchSlug    string  `gorm:"size:100;not null;uniqueIndex;column:church_slug" json:"church_slug"`
	ChurchAddress *string `gorm:"column:church_address"                  json:"church_address,omitempty"`
	ChurchPhone   *string `gorm:"size:30;column:church_phone"            json:"church_phone,omitempty"`
	ChurchEmail   *string `gorm:"size:255;column:church_email"           json:"church_email,omitempty"`

	ChurchCreatedAt time.Time      `gorm:"column:church_created_at;autoCreateTime" json:"church_created_at"`
	ChurchUpdatedAt time.Time      `gorm:"column:church_updated_at;autoUpdateTime" json:"church_updated_at"`
	ChurchDeletedAt gorm.DeletedAt `gorm:"column:church_deleted_at;index"          json:"church_deleted_at,omitempty"`
}

func (ChurchModel) TableName() string { return "churches" }

func (m *ChurchModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChurchID == uuid.Nil {
		m.ChurchID = uuid.New()
	}
	return nil
}
