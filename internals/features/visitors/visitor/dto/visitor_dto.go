package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "gerejaku_backend/internals/features/visitors/visitor/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Visitor check-in: visitor registration IS attendance registration;
// the primary flow has no visitor-without-attendance path.
type VisitorCheckInRequest struct {
	VisitorName     string `json:"visitor_name"      validate:"required,max=200"`
	VisitorGender   string `json:"visitor_gender"    validate:"required,oneof=male female"`
	VisitorAgeGroup string `json:"visitor_age_group" validate:"required,oneof=child adolescent adult"`

	VisitorPhone        *string  `json:"visitor_phone"   validate:"omitempty,max=30"`
	VisitorAddress      *string  `json:"visitor_address" validate:"omitempty,max=500"`
	VisitorPrayerPoints []string `json:"visitor_prayer_points" validate:"omitempty,dive,max=500"`

	EventID uuid.UUID `json:"event_id" validate:"required,uuid4"`
}

// Patch; follow_up_status="member" triggers the promotion heuristic.
type UpdateVisitorRequest struct {
	VisitorName     *string `json:"visitor_name"      validate:"omitempty,max=200"`
	VisitorGender   *string `json:"visitor_gender"    validate:"omitempty,oneof=male female"`
	VisitorAgeGroup *string `json:"visitor_age_group" validate:"omitempty,oneof=child adolescent adult"`

	VisitorPhone        *string  `json:"visitor_phone"   validate:"omitempty,max=30"`
	VisitorAddress      *string  `json:"visitor_address" validate:"omitempty,max=500"`
	VisitorPrayerPoints []string `json:"visitor_prayer_points" validate:"omitempty,dive,max=500"`

	VisitorFollowUpStatus *string `json:"visitor_follow_up_status" validate:"omitempty,oneof=pending contacted member"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type VisitorResponse struct {
	VisitorID       uuid.UUID `json:"visitor_id"`
	VisitorChurchID uuid.UUID `json:"visitor_church_id"`

	VisitorName     string `json:"visitor_name"`
	VisitorGender   string `json:"visitor_gender"`
	VisitorAgeGroup string `json:"visitor_age_group"`

	VisitorPhone        *string        `json:"visitor_phone,omitempty"`
	VisitorAddress      *string        `json:"visitor_address,omitempty"`
	VisitorPrayerPoints datatypes.JSON `json:"visitor_prayer_points,omitempty"`

	VisitorFollowUpStatus string    `json:"visitor_follow_up_status"`
	VisitorCreatedAt      time.Time `json:"visitor_created_at"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r VisitorCheckInRequest) ToModel(churchID uuid.UUID, prayerPoints datatypes.JSON) m.VisitorModel {
	return m.VisitorModel{
		VisitorChurchID:       churchID,
		VisitorName:           r.VisitorName,
		VisitorGender:         r.VisitorGender,
		VisitorAgeGroup:       r.VisitorAgeGroup,
		VisitorPhone:          r.VisitorPhone,
		VisitorAddress:        r.VisitorAddress,
		VisitorPrayerPoints:   prayerPoints,
		VisitorFollowUpStatus: m.FollowUpStatusPending,
	}
}

func NewVisitorResponse(mdl m.VisitorModel) VisitorResponse {
	return VisitorResponse{
		VisitorID:             mdl.VisitorID,
		VisitorChurchID:       mdl.VisitorChurchID,
		VisitorName:           mdl.VisitorName,
		VisitorGender:         mdl.VisitorGender,
		VisitorAgeGroup:       mdl.VisitorAgeGroup,
		VisitorPhone:          mdl.VisitorPhone,
		VisitorAddress:        mdl.VisitorAddress,
		VisitorPrayerPoints:   mdl.VisitorPrayerPoints,
		VisitorFollowUpStatus: mdl.VisitorFollowUpStatus,
		VisitorCreatedAt:      mdl.VisitorCreatedAt,
	}
}

func NewVisitorResponses(models []m.VisitorModel) []VisitorResponse {
	out := make([]VisitorResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewVisitorResponse(mdl))
	}
	return out
}
