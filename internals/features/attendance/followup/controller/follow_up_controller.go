package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/attendance/followup/dto"
	"gerejaku_backend/internals/features/attendance/followup/service"
	memberService "gerejaku_backend/internals/features/members/member/service"
	"gerejaku_backend/internals/features/notifications"
	helper "gerejaku_backend/internals/helpers"
)

type FollowUpController struct {
	DB       *gorm.DB
	service  *service.FollowUpService
	members  *memberService.MemberService
	sender   notifications.Sender
	validate *validator.Validate
}

func NewFollowUpController(db *gorm.DB, sender notifications.Sender) *FollowUpController {
	return &FollowUpController{
		DB:       db,
		service:  service.NewFollowUpService(),
		members:  memberService.NewMemberService(),
		sender:   sender,
		validate: validator.New(),
	}
}

/* ===================== RECORD CONTACT ===================== */
// POST /api/follow-up/contact
func (ctrl *FollowUpController) RecordContact(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.RecordContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mbr, err := ctrl.members.GetMember(ctrl.DB, churchID, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	rec, err := ctrl.service.RecordContact(ctrl.DB, churchID, req.MemberID, req.ContactMethod, req.Notes)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record contact")
	}

	// Best-effort notification; a send failure never fails the request.
	if req.ContactMethod == "email" && mbr.MemberEmail != nil {
		go func(to, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			subject := "We missed you"
			body := fmt.Sprintf("Hi %s, we noticed you have been away and wanted to check in on you.", name)
			if err := ctrl.sender.SendFollowUp(ctx, to, subject, body); err != nil {
				log.Printf("[WARN] follow-up notification to %s failed: %v", to, err)
			}
		}(*mbr.MemberEmail, mbr.FullName())
	}

	return helper.JsonUpdated(c, "Contact recorded", dto.NewFollowUpRecordResponse(*rec))
}

/* ===================== LIST ===================== */
// GET /api/follow-up?needs_follow_up=
func (ctrl *FollowUpController) ListFollowUps(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 25, 200)
	needsOnly := c.Query("needs_follow_up", "true") != "false"

	rows, total, err := ctrl.service.List(ctrl.DB, churchID, needsOnly, paging.Limit, paging.Offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list follow-ups")
	}

	return helper.JsonList(c, "OK", rows,
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ===================== ABSENCE SCAN ===================== */
// POST /api/follow-up/scan
// Manual trigger of the same scan the scheduler runs.
func (ctrl *FollowUpController) RunAbsenceScan(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	flagged, err := ctrl.service.UpdateConsecutiveAbsences(ctrl.DB, churchID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Absence scan failed")
	}

	return helper.JsonOK(c, "Absence scan complete", fiber.Map{"members_flagged": flagged})
}
