package dto

import (
	"time"

	"github.com/google/uuid"

	m "gerejaku_backend/internals/features/attendance/followup/model"
)

type RecordContactRequest struct {
	MemberID      uuid.UUID `json:"member_id"      validate:"required,uuid4"`
	ContactMethod string    `json:"contact_method" validate:"required,oneof=phone sms email visit"`
	Notes         *string   `json:"notes"          validate:"omitempty,max=1000"`
}

type FollowUpRecordResponse struct {
	FollowUpRecordID uuid.UUID `json:"follow_up_record_id"`
	MemberID         uuid.UUID `json:"member_id"`

	ConsecutiveAbsences int  `json:"consecutive_absences"`
	NeedsFollowUp       bool `json:"needs_follow_up"`

	LastContactDate *time.Time `json:"last_contact_date,omitempty"`
	ContactMethod   *string    `json:"contact_method,omitempty"`
	Notes           *string    `json:"notes,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewFollowUpRecordResponse(mdl m.FollowUpRecordModel) FollowUpRecordResponse {
	return FollowUpRecordResponse{
		FollowUpRecordID:    mdl.FollowUpRecordID,
		MemberID:            mdl.FollowUpRecordMemberID,
		ConsecutiveAbsences: mdl.FollowUpRecordConsecutiveAbsences,
		NeedsFollowUp:       mdl.FollowUpRecordNeedsFollowUp,
		LastContactDate:     mdl.FollowUpRecordLastContactDate,
		ContactMethod:       mdl.FollowUpRecordContactMethod,
		Notes:               mdl.FollowUpRecordNotes,
		UpdatedAt:           mdl.FollowUpRecordUpdatedAt,
	}
}
