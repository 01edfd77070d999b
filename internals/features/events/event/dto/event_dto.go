package dto

import (
	"time"

	"github.com/google/uuid"

	m "gerejaku_backend/internals/features/events/event/model"
)

type CreateEventRequest struct {
	EventName        string     `json:"event_name"        validate:"required,max=150"`
	EventDescription *string    `json:"event_description" validate:"omitempty,max=1000"`
	EventDate        *time.Time `json:"event_date"        validate:"omitempty"`
	EventLocation    *string    `json:"event_location"    validate:"omitempty,max=200"`
}

type UpdateEventRequest struct {
	EventName        *string    `json:"event_name"        validate:"omitempty,max=150"`
	EventDescription *string    `json:"event_description" validate:"omitempty,max=1000"`
	EventDate        *time.Time `json:"event_date"        validate:"omitempty"`
	EventLocation    *string    `json:"event_location"    validate:"omitempty,max=200"`
	EventIsActive    *bool      `json:"event_is_active"`
}

type ToggleExternalCheckInRequest struct {
	Enable bool `json:"enable"`
}

type EventResponse struct {
	EventID       uuid.UUID `json:"event_id"`
	EventChurchID uuid.UUID `json:"event_church_id"`

	EventName        string     `json:"event_name"`
	EventDescription *string    `json:"event_description,omitempty"`
	EventDate        *time.Time `json:"event_date,omitempty"`
	EventLocation    *string    `json:"event_location,omitempty"`
	EventIsActive    bool       `json:"event_is_active"`

	EventExternalCheckInEnabled bool    `json:"event_external_check_in_enabled"`
	EventExternalCheckInURL     *string `json:"event_external_check_in_url,omitempty"`

	EventCreatedAt time.Time `json:"event_created_at"`
}

// ExternalCheckInAdminResponse is the admin view including the PIN;
// never returned from public routes.
type ExternalCheckInAdminResponse struct {
	EventID                     uuid.UUID `json:"event_id"`
	EventName                   string    `json:"event_name"`
	EventExternalCheckInEnabled bool      `json:"event_external_check_in_enabled"`
	EventExternalCheckInURL     *string   `json:"event_external_check_in_url,omitempty"`
	EventExternalCheckInPIN     *string   `json:"event_external_check_in_pin,omitempty"`
}

func (r CreateEventRequest) ToModel(churchID uuid.UUID) m.EventModel {
	return m.EventModel{
		EventChurchID:    churchID,
		EventName:        r.EventName,
		EventDescription: r.EventDescription,
		EventDate:        r.EventDate,
		EventLocation:    r.EventLocation,
		EventIsActive:    true,
	}
}

func (r UpdateEventRequest) ApplyToModel(mdl *m.EventModel) {
	if r.EventName != nil {
		mdl.EventName = *r.EventName
	}
	if r.EventDescription != nil {
		mdl.EventDescription = r.EventDescription
	}
	if r.EventDate != nil {
		mdl.EventDate = r.EventDate
	}
	if r.EventLocation != nil {
		mdl.EventLocation = r.EventLocation
	}
	if r.EventIsActive != nil {
		mdl.EventIsActive = *r.EventIsActive
	}
}

func NewEventResponse(mdl m.EventModel) EventResponse {
	return EventResponse{
		EventID:                     mdl.EventID,
		EventChurchID:               mdl.EventChurchID,
		EventName:                   mdl.EventName,
		EventDescription:            mdl.EventDescription,
		EventDate:                   mdl.EventDate,
		EventLocation:               mdl.EventLocation,
		EventIsActive:               mdl.EventIsActive,
		EventExternalCheckInEnabled: mdl.EventExternalCheckInEnabled,
		EventExternalCheckInURL:     mdl.EventExternalCheckInURL,
		EventCreatedAt:              mdl.EventCreatedAt,
	}
}

func NewExternalCheckInAdminResponse(mdl m.EventModel) ExternalCheckInAdminResponse {
	return ExternalCheckInAdminResponse{
		EventID:                     mdl.EventID,
		EventName:                   mdl.EventName,
		EventExternalCheckInEnabled: mdl.EventExternalCheckInEnabled,
		EventExternalCheckInURL:     mdl.EventExternalCheckInURL,
		EventExternalCheckInPIN:     mdl.EventExternalCheckInPIN,
	}
}

func NewEventResponses(models []m.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewEventResponse(mdl))
	}
	return out
}
