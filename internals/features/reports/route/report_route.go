package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/reports/controller"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

func ReportRoutes(api fiber.Router, db *gorm.DB) {
	reports := controller.NewReportController(db)
	exports := controller.NewExportController(db)

	staffOnly := authMiddleware.OnlyRoles(constants.RoleErrorStaff("reports"), constants.StaffAndAbove...)

	// stats lives under /attendance next to today/history
	api.Get("/attendance/stats", staffOnly, reports.GetAttendanceStats)

	r := api.Group("/reports", staffOnly)
	r.Get("/missed-services", reports.GetMissedServices)
	r.Get("/matrix", reports.GetMatrix)

	e := api.Group("/export", staffOnly)
	e.Get("/members", exports.ExportMembers)
	e.Get("/visitors", exports.ExportVisitors)
	e.Get("/attendance", exports.ExportAttendance)
	e.Get("/monthly-report", exports.ExportMonthlyReport)
}
