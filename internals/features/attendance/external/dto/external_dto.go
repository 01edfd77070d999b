package dto

import (
	"time"

	"github.com/google/uuid"

	eventModel "gerejaku_backend/internals/features/events/event/model"
)

type ExternalCheckInRequest struct {
	PIN      string    `json:"pin"       validate:"required,len=6,numeric"`
	MemberID uuid.UUID `json:"member_id" validate:"required,uuid4"`
}

type ExternalMemberSearchRequest struct {
	PIN    string `json:"pin"    validate:"required,len=6,numeric"`
	Search string `json:"search" validate:"required,min=2,max=200"`
}

// ExternalEventResponse is the public view of an event behind a
// check-in slug. No PIN, no church internals.
type ExternalEventResponse struct {
	EventName        string     `json:"event_name"`
	EventDescription *string    `json:"event_description,omitempty"`
	EventDate        *time.Time `json:"event_date,omitempty"`
	EventLocation    *string    `json:"event_location,omitempty"`
}

// ExternalMemberOption is the trimmed-down search hit shown on the
// public page; enough to pick yourself, nothing more.
type ExternalMemberOption struct {
	MemberID uuid.UUID `json:"member_id"`
	Name     string    `json:"name"`
	AgeGroup string    `json:"age_group"`
}

func NewExternalEventResponse(ev eventModel.EventModel) ExternalEventResponse {
	return ExternalEventResponse{
		EventName:        ev.EventName,
		EventDescription: ev.EventDescription,
		EventDate:        ev.EventDate,
		EventLocation:    ev.EventLocation,
	}
}
