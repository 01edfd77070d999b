package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/reports/service"
	helper "gerejaku_backend/internals/helpers"
)

type ReportController struct {
	DB      *gorm.DB
	service *service.ReportService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{
		DB:      db,
		service: service.NewReportService(),
	}
}

/* ===================== DAILY STATS ===================== */
// GET /api/attendance/stats?date=YYYY-MM-DD (default today)
func (ctrl *ReportController) GetAttendanceStats(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = t
	}

	stats, err := ctrl.service.GetAttendanceStats(ctrl.DB, churchID, date)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build attendance stats")
	}

	return helper.JsonOK(c, "OK", stats)
}

/* ===================== MISSED SERVICES ===================== */
// GET /api/reports/missed-services?weeks=3
func (ctrl *ReportController) GetMissedServices(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	weeks := c.QueryInt("weeks", 3)
	if weeks < 1 || weeks > 52 {
		return fiber.NewError(fiber.StatusBadRequest, "weeks must be between 1 and 52")
	}

	rows, err := ctrl.service.GetMissedServicesReport(ctrl.DB, churchID, weeks)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build missed services report")
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"weeks":   weeks,
		"members": rows,
	})
}

/* ===================== MATRIX ===================== */
// GET /api/reports/matrix?start_date=&end_date=
func (ctrl *ReportController) GetMatrix(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return fiber.NewError(fiber.StatusBadRequest, "end_date precedes start_date")
	}

	report, err := ctrl.service.GetMatrixReport(ctrl.DB, churchID, start, end)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build matrix report")
	}

	return helper.JsonOK(c, "OK", report)
}
