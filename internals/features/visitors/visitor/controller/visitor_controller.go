package controller

import (
	"errors"
	"log"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	attendanceDTO "gerejaku_backend/internals/features/attendance/records/dto"
	attendanceService "gerejaku_backend/internals/features/attendance/records/service"
	eventService "gerejaku_backend/internals/features/events/event/service"
	memberDTO "gerejaku_backend/internals/features/members/member/dto"
	"gerejaku_backend/internals/features/visitors/visitor/dto"
	"gerejaku_backend/internals/features/visitors/visitor/model"
	"gerejaku_backend/internals/features/visitors/visitor/service"
	helper "gerejaku_backend/internals/helpers"
)

type VisitorController struct {
	DB         *gorm.DB
	service    *service.VisitorService
	attendance *attendanceService.AttendanceService
	events     *eventService.EventService
	validate   *validator.Validate
}

func NewVisitorController(db *gorm.DB) *VisitorController {
	return &VisitorController{
		DB:         db,
		service:    service.NewVisitorService(),
		attendance: attendanceService.NewAttendanceService(),
		events:     eventService.NewEventService(),
		validate:   validator.New(),
	}
}

/* ===================== CHECK-IN ===================== */
// POST /api/visitor-checkin
// Registers the visitor and records today's attendance in one
// transaction; there is no visitor-without-attendance path here.
func (ctrl *VisitorController) VisitorCheckIn(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.VisitorCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if _, err := ctrl.events.GetEvent(ctrl.DB, churchID, req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Event not found in this church")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var prayerPoints datatypes.JSON
	if len(req.VisitorPrayerPoints) > 0 {
		raw, err := sonic.Marshal(req.VisitorPrayerPoints)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid prayer points")
		}
		prayerPoints = datatypes.JSON(raw)
	}

	visitor := req.ToModel(churchID, prayerPoints)

	var resp fiber.Map
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&visitor).Error; err != nil {
			return err
		}
		rec, _, err := ctrl.attendance.CheckInVisitor(tx, churchID, &visitor, req.EventID, visitor.VisitorCreatedAt)
		if err != nil {
			return err
		}
		resp = fiber.Map{
			"visitor": dto.NewVisitorResponse(visitor),
			"record":  attendanceDTO.NewAttendanceRecordResponse(*rec),
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] visitor check-in failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Visitor check-in failed")
	}

	return helper.JsonCreated(c, "Visitor checked in", resp)
}

/* ===================== LIST ===================== */
// GET /api/visitors?status=
func (ctrl *VisitorController) ListVisitors(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 25, 200)
	status := c.Query("status")
	switch status {
	case "", model.FollowUpStatusPending, model.FollowUpStatusContacted, model.FollowUpStatusMember:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Unknown follow-up status filter")
	}

	visitors, total, err := ctrl.service.ListVisitors(ctrl.DB, churchID, status, paging.Limit, paging.Offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list visitors")
	}

	return helper.JsonList(c, "OK", dto.NewVisitorResponses(visitors),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ===================== DETAIL ===================== */
// GET /api/visitors/:id
func (ctrl *VisitorController) GetVisitor(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	visitorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid visitor id")
	}

	v, err := ctrl.service.GetVisitor(ctrl.DB, churchID, visitorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Visitor not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", dto.NewVisitorResponse(*v))
}

/* ===================== UPDATE ===================== */
// PATCH /api/visitors/:id
// Setting follow_up_status="member" triggers the promotion heuristic.
func (ctrl *VisitorController) UpdateVisitor(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	visitorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid visitor id")
	}

	var req dto.UpdateVisitorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	v, err := ctrl.service.GetVisitor(ctrl.DB, churchID, visitorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Visitor not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if req.VisitorName != nil {
		v.VisitorName = *req.VisitorName
	}
	if req.VisitorGender != nil {
		v.VisitorGender = *req.VisitorGender
	}
	if req.VisitorAgeGroup != nil {
		v.VisitorAgeGroup = *req.VisitorAgeGroup
	}
	if req.VisitorPhone != nil {
		v.VisitorPhone = req.VisitorPhone
	}
	if req.VisitorAddress != nil {
		v.VisitorAddress = req.VisitorAddress
	}
	if req.VisitorPrayerPoints != nil {
		raw, err := sonic.Marshal(req.VisitorPrayerPoints)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid prayer points")
		}
		v.VisitorPrayerPoints = datatypes.JSON(raw)
	}

	promote := req.VisitorFollowUpStatus != nil &&
		*req.VisitorFollowUpStatus == model.FollowUpStatusMember &&
		v.VisitorFollowUpStatus != model.FollowUpStatusMember
	if req.VisitorFollowUpStatus != nil {
		v.VisitorFollowUpStatus = *req.VisitorFollowUpStatus
	}

	var promotedMember fiber.Map
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(v).Error; err != nil {
			return err
		}
		if promote {
			mbr, created, err := ctrl.service.PromoteVisitor(tx, v)
			if err != nil {
				return err
			}
			promotedMember = fiber.Map{
				"member":         memberDTO.NewMemberResponse(*mbr),
				"member_created": created,
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] visitor update failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update visitor")
	}

	data := fiber.Map{"visitor": dto.NewVisitorResponse(*v)}
	if promotedMember != nil {
		data["promotion"] = promotedMember
	}
	return helper.JsonUpdated(c, "Visitor updated", data)
}

/* ===================== RECONCILIATION ===================== */
// POST /api/visitors/fix-visitor-member-records
// Repoints guest attendance rows of promoted visitors to the matching
// member, skipping days where the member already has a record.
func (ctrl *VisitorController) FixVisitorMemberRecords(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var results []service.ReconcileResult
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		results, txErr = ctrl.service.ReconcileVisitorMemberRecords(tx, churchID)
		return txErr
	})
	if err != nil {
		log.Printf("[ERROR] visitor reconciliation failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Reconciliation failed")
	}

	return helper.JsonOK(c, "Reconciliation complete", fiber.Map{
		"visitors_processed": len(results),
		"results":            results,
	})
}
