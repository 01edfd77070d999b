package dto

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStats tallies one day's check-ins by gender and age group.
// Guest rows are counted from the demographic snapshot stored on the
// attendance record, so history survives later visitor edits.
type AttendanceStats struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Male       int    `json:"male"`
	Female     int    `json:"female"`
	Child      int    `json:"child"`
	Adolescent int    `json:"adolescent"`
	Adult      int    `json:"adult"`
	Guests     int    `json:"guests"`
}

// MissedServicesRow flags a member with no attendance inside the
// requested window (or none at all).
type MissedServicesRow struct {
	MemberID       uuid.UUID  `json:"member_id"`
	MemberName     string     `json:"member_name"`
	MemberPhone    *string    `json:"member_phone,omitempty"`
	LastAttendance *time.Time `json:"last_attendance,omitempty"`
	NeverAttended  bool       `json:"never_attended"`
	WeeksMissed    int        `json:"weeks_missed"`
}

// Matrix report: one row per member, one cell per distinct attendance
// date in range.
type MatrixCell struct {
	Date        string  `json:"date"`
	Present     bool    `json:"present"`
	CheckInTime *string `json:"check_in_time,omitempty"`
	Method      *string `json:"method,omitempty"`
}

type MatrixRow struct {
	MemberID             uuid.UUID    `json:"member_id"`
	MemberName           string       `json:"member_name"`
	Cells                []MatrixCell `json:"cells"`
	TotalPresent         int          `json:"total_present"`
	TotalAbsent          int          `json:"total_absent"`
	AttendancePercentage float64      `json:"attendance_percentage"`
}

type MatrixReport struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Dates     []string    `json:"dates"`
	Rows      []MatrixRow `json:"rows"`
}
