package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
)

// UserModel represents the admin users table. Role gates the church
// admin surface; church membership itself lives in the members table.
type UserModel struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChurchID *uuid.UUID `gorm:"type:uuid;index" json:"church_id,omitempty"`

	UserName string  `gorm:"size:50;not null" json:"user_name" validate:"required,min=3,max=50"`
	Email    string  `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password string  `gorm:"not null" json:"-" validate:"required,min=8"`
	GoogleID *string `gorm:"size:255;unique" json:"google_id,omitempty"`
	Role     string  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive bool    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = constants.RoleUser
	}
	return nil
}
