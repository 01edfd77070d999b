package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/attendance/external/dto"
	recordDTO "gerejaku_backend/internals/features/attendance/records/dto"
	recordModel "gerejaku_backend/internals/features/attendance/records/model"
	recordService "gerejaku_backend/internals/features/attendance/records/service"
	eventService "gerejaku_backend/internals/features/events/event/service"
	memberService "gerejaku_backend/internals/features/members/member/service"
	helper "gerejaku_backend/internals/helpers"
)

// ExternalCheckInController serves the unauthenticated self check-in
// flow behind an event's random slug + PIN pair. Every handler resolves
// the slug first; a disabled event 404s, never a PIN prompt.
type ExternalCheckInController struct {
	DB         *gorm.DB
	events     *eventService.EventService
	members    *memberService.MemberService
	attendance *recordService.AttendanceService
	validate   *validator.Validate
}

func NewExternalCheckInController(db *gorm.DB) *ExternalCheckInController {
	return &ExternalCheckInController{
		DB:         db,
		events:     eventService.NewEventService(),
		members:    memberService.NewMemberService(),
		attendance: recordService.NewAttendanceService(),
		validate:   validator.New(),
	}
}

/* ===================== EVENT INFO ===================== */
// GET /api/external-checkin/event/:eventUrl
func (ctrl *ExternalCheckInController) GetEventInfo(c *fiber.Ctx) error {
	ev, err := ctrl.events.FindByExternalURL(ctrl.DB, c.Params("eventUrl"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Check-in link not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", dto.NewExternalEventResponse(*ev))
}

/* ===================== MEMBER SEARCH ===================== */
// POST /api/external-checkin/event/:eventUrl/search
// PIN-gated so the member list is not open to anyone with the link.
func (ctrl *ExternalCheckInController) SearchMembers(c *fiber.Ctx) error {
	ev, err := ctrl.events.FindByExternalURL(ctrl.DB, c.Params("eventUrl"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Check-in link not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var req dto.ExternalMemberSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := ctrl.events.CheckPIN(ev, req.PIN); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	members, _, err := ctrl.members.SearchMembers(ctrl.DB, ev.EventChurchID, req.Search, "", 20, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Search failed")
	}

	options := make([]dto.ExternalMemberOption, 0, len(members))
	for _, mbr := range members {
		options = append(options, dto.ExternalMemberOption{
			MemberID: mbr.MemberID,
			Name:     mbr.FullName(),
			AgeGroup: mbr.MemberAgeGroup,
		})
	}

	return helper.JsonOK(c, "OK", options)
}

/* ===================== CHECK-IN ===================== */
// POST /api/external-checkin/check-in/:eventUrl
func (ctrl *ExternalCheckInController) CheckIn(c *fiber.Ctx) error {
	ev, err := ctrl.events.FindByExternalURL(ctrl.DB, c.Params("eventUrl"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Check-in link not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var req dto.ExternalCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := ctrl.events.CheckPIN(ev, req.PIN); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	rec, dup, err := ctrl.attendance.CheckInMember(ctrl.DB, ev.EventChurchID, req.MemberID, ev.EventID, time.Now(), recordModel.CheckInMethodExternal)
	if err != nil {
		if errors.Is(err, recordService.ErrPersonNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Check-in failed")
	}
	if dup {
		return helper.DuplicateCheckIn(c, recordDTO.NewAttendanceRecordResponse(*rec))
	}

	return helper.JsonCreated(c, "Checked in", recordDTO.NewAttendanceRecordResponse(*rec))
}
