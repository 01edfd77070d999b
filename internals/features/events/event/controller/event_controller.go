package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/events/event/dto"
	"gerejaku_backend/internals/features/events/event/model"
	"gerejaku_backend/internals/features/events/event/service"
	helper "gerejaku_backend/internals/helpers"
)

type EventController struct {
	DB       *gorm.DB
	service  *service.EventService
	validate *validator.Validate
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{
		DB:       db,
		service:  service.NewEventService(),
		validate: validator.New(),
	}
}

/* ===================== CREATE ===================== */
// POST /api/events
func (ctrl *EventController) CreateEvent(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mdl := req.ToModel(churchID)
	if err := ctrl.DB.Create(&mdl).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create event")
	}

	return helper.JsonCreated(c, "Event created", dto.NewEventResponse(mdl))
}

/* ===================== LIST ===================== */
// GET /api/events?active=
func (ctrl *EventController) ListEvents(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 25, 200)
	q := ctrl.DB.Model(&model.EventModel{}).
		Where("event_church_id = ?", churchID)
	if raw := c.Query("active"); raw != "" {
		q = q.Where("event_is_active = ?", raw == "true" || raw == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list events")
	}

	var events []model.EventModel
	if err := q.Order("event_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&events).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list events")
	}

	return helper.JsonList(c, "OK", dto.NewEventResponses(events),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ===================== DETAIL ===================== */
// GET /api/events/:id
func (ctrl *EventController) GetEvent(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
	}

	ev, err := ctrl.service.GetEvent(ctrl.DB, churchID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", dto.NewEventResponse(*ev))
}

/* ===================== UPDATE ===================== */
// PUT /api/events/:id
func (ctrl *EventController) UpdateEvent(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
	}

	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ev, err := ctrl.service.GetEvent(ctrl.DB, churchID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	req.ApplyToModel(ev)
	if err := ctrl.DB.Save(ev).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update event")
	}

	return helper.JsonUpdated(c, "Event updated", dto.NewEventResponse(*ev))
}

/* ===================== EXTERNAL CHECK-IN ===================== */
// POST /api/events/:id/external-check-in
func (ctrl *EventController) ToggleExternalCheckIn(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
	}

	var req dto.ToggleExternalCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}

	ev, err := ctrl.service.ToggleExternalCheckIn(ctrl.DB, churchID, eventID, req.Enable)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to toggle external check-in")
	}

	return helper.JsonUpdated(c, "External check-in updated", dto.NewExternalCheckInAdminResponse(*ev))
}

// GET /api/events/:id/external-check-in
// Admin view; includes the PIN so staff can distribute it.
func (ctrl *EventController) GetExternalCheckInSettings(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid event id")
	}

	ev, err := ctrl.service.GetEvent(ctrl.DB, churchID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", dto.NewExternalCheckInAdminResponse(*ev))
}
