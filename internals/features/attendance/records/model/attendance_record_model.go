package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Check-in methods.
const (
	CheckInMethodManual      = "manual"
	CheckInMethodFingerprint = "fingerprint"
	CheckInMethodFamily      = "family"
	CheckInMethodVisitor     = "visitor"
	CheckInMethodExternal    = "external"
)

// AttendanceRecordModel: one row per check-in. Exactly one of member_id
// / visitor_id is set (is_guest discriminates). Guest rows carry a
// demographic snapshot so stats stay historically accurate even if the
// visitor row changes later.
//
// The composite unique indexes close the read-then-write race on the
// one-check-in-per-day rule: NULLs are distinct, so member rows never
// collide with visitor rows. Inserts go through ON CONFLICT DO NOTHING
// and zero rows affected means someone else won the race.
type AttendanceRecordModel struct {
	AttendanceRecordID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_record_id" json:"attendance_record_id"`
	AttendanceRecordChurchID uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_records_church_date,priority:1;column:attendance_record_church_id" json:"attendance_record_church_id"`

	AttendanceRecordMemberID  *uuid.UUID `gorm:"type:uuid;column:attendance_record_member_id;uniqueIndex:uq_attendance_member_day,priority:1" json:"attendance_record_member_id,omitempty"`
	AttendanceRecordVisitorID *uuid.UUID `gorm:"type:uuid;column:attendance_record_visitor_id;uniqueIndex:uq_attendance_visitor_day,priority:1" json:"attendance_record_visitor_id,omitempty"`
	AttendanceRecordEventID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_records_event;column:attendance_record_event_id" json:"attendance_record_event_id"`

	AttendanceRecordAttendanceDate time.Time `gorm:"type:date;not null;index:idx_attendance_records_church_date,priority:2;uniqueIndex:uq_attendance_member_day,priority:2;uniqueIndex:uq_attendance_visitor_day,priority:2;column:attendance_record_attendance_date" json:"attendance_record_attendance_date"`
	AttendanceRecordCheckInTime    time.Time `gorm:"not null;column:attendance_record_check_in_time" json:"attendance_record_check_in_time"`
	AttendanceRecordCheckInMethod  string    `gorm:"type:varchar(15);not null;column:attendance_record_check_in_method" json:"attendance_record_check_in_method"`

	AttendanceRecordIsGuest bool `gorm:"not null;default:false;column:attendance_record_is_guest" json:"attendance_record_is_guest"`

	// visitor demographic snapshot (guest rows only)
	AttendanceRecordVisitorName     *string `gorm:"size:200;column:attendance_record_visitor_name"      json:"attendance_record_visitor_name,omitempty"`
	AttendanceRecordVisitorGender   *string `gorm:"size:10;column:attendance_record_visitor_gender"     json:"attendance_record_visitor_gender,omitempty"`
	AttendanceRecordVisitorAgeGroup *string `gorm:"size:15;column:attendance_record_visitor_age_group"  json:"attendance_record_visitor_age_group,omitempty"`

	AttendanceRecordCreatedAt time.Time `gorm:"column:attendance_record_created_at;autoCreateTime" json:"attendance_record_created_at"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceRecordID == uuid.Nil {
		m.AttendanceRecordID = uuid.New()
	}
	return nil
}
