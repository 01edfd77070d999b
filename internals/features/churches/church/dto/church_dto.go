package dto

import (
	"time"

	"github.com/google/uuid"

	m "gerejaku_backend/internals/features/churches/church/model"
)

type CreateChurchRequest struct {
	ChurchName    string  `json:"church_name"    validate:"required,max=150"`
	ChurchSlug    string  `json:"church_slug"    validate:"required,max=100,lowercase"`
	ChurchAddress *string `json:"church_address" validate:"omitempty,max=500"`
	ChurchPhone   *string `json:"church_phone"   validate:"omitempty,max=30"`
	ChurchEmail   *string `json:"church_email"   validate:"omitempty,email"`
}

type UpdateChurchRequest struct {
	ChurchName    *string `json:"church_name"    validate:"omitempty,max=150"`
	ChurchAddress *string `json:"church_address" validate:"omitempty,max=500"`
	ChurchPhone   *string `json:"church_phone"   validate:"omitempty,max=30"`
	ChurchEmail   *string `json:"church_email"   validate:"omitempty,email"`
}

type ChurchResponse struct {
	ChurchID      uuid.UUID `json:"church_id"`
	ChurchName    string    `json:"church_name"`
	ChurchSlug    string    `json:"church_slug"`
	ChurchAddress *string   `json:"church_address,omitempty"`
	ChurchPhone   *string   `json:"church_phone,omitempty"`
	ChurchEmail   *string   `json:"church_email,omitempty"`
	ChurchCreated time.Time `json:"church_created_at"`
}

func (r CreateChurchRequest) ToModel() m.ChurchModel {
	return m.ChurchModel{
		ChurchName:    r.ChurchName,
		ChurchSlug:    r.ChurchSlug,
		ChurchAddress: r.ChurchAddress,
		ChurchPhone:   r.ChurchPhone,
		ChurchEmail:   r.ChurchEmail,
	}
}

func (r UpdateChurchRequest) ApplyToModel(mdl *m.ChurchModel) {
	if r.ChurchName != nil {
		mdl.ChurchName = *r.ChurchName
	}
	if r.ChurchAddress != nil {
		mdl.ChurchAddress = r.ChurchAddress
	}
	if r.ChurchPhone != nil {
		mdl.ChurchPhone = r.ChurchPhone
	}
	if r.ChurchEmail != nil {
		mdl.ChurchEmail = r.ChurchEmail
	}
}

func NewChurchResponse(mdl m.ChurchModel) ChurchResponse {
	return ChurchResponse{
		ChurchID:      mdl.ChurchID,
		ChurchName:    mdl.ChurchName,
		ChurchSlug:    mdl.ChurchSlug,
		ChurchAddress: mdl.ChurchAddress,
		ChurchPhone:   mdl.ChurchPhone,
		ChurchEmail:   mdl.ChurchEmail,
		ChurchCreated: mdl.ChurchCreatedAt,
	}
}

func NewChurchResponses(models []m.ChurchModel) []ChurchResponse {
	out := make([]ChurchResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewChurchResponse(mdl))
	}
	return out
}
