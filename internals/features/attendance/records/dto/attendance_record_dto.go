package dto

import (
	"time"

	"github.com/google/uuid"

	m "gerejaku_backend/internals/features/attendance/records/model"
	"gerejaku_backend/internals/features/attendance/records/service"
	memberModel "gerejaku_backend/internals/features/members/member/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Generic check-in (manual path and admin tooling). Exactly one of
// member_id / visitor_id must be set.
type CreateAttendanceRequest struct {
	MemberID  *uuid.UUID `json:"member_id"  validate:"omitempty,uuid4"`
	VisitorID *uuid.UUID `json:"visitor_id" validate:"omitempty,uuid4"`
	EventID   uuid.UUID  `json:"event_id"   validate:"required,uuid4"`

	AttendanceDate *time.Time `json:"attendance_date" validate:"omitempty"`
	CheckInMethod  string     `json:"check_in_method" validate:"omitempty,oneof=manual fingerprint family visitor external"`
}

// Kiosk scanner payload; the identifier is an opaque device string.
type FingerprintScanRequest struct {
	FingerprintID string    `json:"fingerprint_id" validate:"required,max=200"`
	DeviceID      *string   `json:"device_id"      validate:"omitempty,max=100"`
	EventID       uuid.UUID `json:"event_id"       validate:"required,uuid4"`
}

// Enrollment recovery flow after a failed scan: assign the scanned
// identifier (when supplied) and check the member in right away.
type EnrollFingerprintRequest struct {
	MemberID      uuid.UUID `json:"member_id"      validate:"required,uuid4"`
	FingerprintID *string   `json:"fingerprint_id" validate:"omitempty,max=200"`
	EventID       uuid.UUID `json:"event_id"       validate:"required,uuid4"`
}

type SelectiveFamilyCheckInRequest struct {
	ParentID    uuid.UUID   `json:"parent_id"    validate:"required,uuid4"`
	ChildrenIDs []uuid.UUID `json:"children_ids" validate:"required,dive,uuid4"`
	EventID     uuid.UUID   `json:"event_id"     validate:"required,uuid4"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type AttendanceRecordResponse struct {
	AttendanceRecordID uuid.UUID  `json:"attendance_record_id"`
	ChurchID           uuid.UUID  `json:"church_id"`
	MemberID           *uuid.UUID `json:"member_id,omitempty"`
	VisitorID          *uuid.UUID `json:"visitor_id,omitempty"`
	EventID            uuid.UUID  `json:"event_id"`

	AttendanceDate string    `json:"attendance_date"`
	CheckInTime    time.Time `json:"check_in_time"`
	CheckInMethod  string    `json:"check_in_method"`
	IsGuest        bool      `json:"is_guest"`

	VisitorName     *string `json:"visitor_name,omitempty"`
	VisitorGender   *string `json:"visitor_gender,omitempty"`
	VisitorAgeGroup *string `json:"visitor_age_group,omitempty"`
}

type FamilyCheckInResponse struct {
	Statuses   []service.PersonCheckInStatus `json:"statuses"`
	CheckedIn  int                           `json:"checked_in"`
	Duplicates int                           `json:"duplicates"`
	NotFound   int                           `json:"not_found"`
}

func NewFamilyCheckInResponse(statuses []service.PersonCheckInStatus) FamilyCheckInResponse {
	resp := FamilyCheckInResponse{Statuses: statuses}
	for _, st := range statuses {
		switch st.Status {
		case service.StatusCheckedIn:
			resp.CheckedIn++
		case service.StatusDuplicate:
			resp.Duplicates++
		case service.StatusNotFound:
			resp.NotFound++
		}
	}
	return resp
}

type FingerprintMember struct {
	MemberID uuid.UUID `json:"member_id"`
	Name     string    `json:"name"`
	AgeGroup string    `json:"age_group"`
}

// FingerprintCheckInResponse: member is null when the scan matched
// nobody; the scanned identifier is echoed back so the kiosk can drive
// the enroll-then-checkin recovery flow.
type FingerprintCheckInResponse struct {
	Member               *FingerprintMember        `json:"member"`
	CheckInSuccess       bool                      `json:"check_in_success"`
	IsDuplicate          bool                      `json:"is_duplicate"`
	ScannedFingerprintID string                    `json:"scanned_fingerprint_id"`
	Record               *AttendanceRecordResponse `json:"record,omitempty"`
}

func NewFingerprintCheckInResponse(rec *m.AttendanceRecordModel, mbr *memberModel.MemberModel, scannedID string, dup bool) FingerprintCheckInResponse {
	resp := FingerprintCheckInResponse{
		CheckInSuccess:       rec != nil && !dup,
		IsDuplicate:          dup,
		ScannedFingerprintID: scannedID,
	}
	if mbr != nil {
		resp.Member = &FingerprintMember{
			MemberID: mbr.MemberID,
			Name:     mbr.FullName(),
			AgeGroup: mbr.MemberAgeGroup,
		}
	}
	if rec != nil {
		r := NewAttendanceRecordResponse(*rec)
		resp.Record = &r
	}
	return resp
}

func NewAttendanceRecordResponse(mdl m.AttendanceRecordModel) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		AttendanceRecordID: mdl.AttendanceRecordID,
		ChurchID:           mdl.AttendanceRecordChurchID,
		MemberID:           mdl.AttendanceRecordMemberID,
		VisitorID:          mdl.AttendanceRecordVisitorID,
		EventID:            mdl.AttendanceRecordEventID,
		AttendanceDate:     mdl.AttendanceRecordAttendanceDate.Format("2006-01-02"),
		CheckInTime:        mdl.AttendanceRecordCheckInTime,
		CheckInMethod:      mdl.AttendanceRecordCheckInMethod,
		IsGuest:            mdl.AttendanceRecordIsGuest,
		VisitorName:        mdl.AttendanceRecordVisitorName,
		VisitorGender:      mdl.AttendanceRecordVisitorGender,
		VisitorAgeGroup:    mdl.AttendanceRecordVisitorAgeGroup,
	}
}

func NewAttendanceRecordResponses(models []m.AttendanceRecordModel) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewAttendanceRecordResponse(mdl))
	}
	return out
}
