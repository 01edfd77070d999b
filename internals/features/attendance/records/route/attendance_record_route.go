package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/attendance/records/controller"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

func AttendanceRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAttendanceRecordController(db)

	staffOnly := authMiddleware.OnlyRoles(constants.RoleErrorStaff("attendance"), constants.StaffAndAbove...)

	attendance := api.Group("/attendance", staffOnly)
	attendance.Post("/", ctrl.CreateAttendance)
	attendance.Post("/selective-family-checkin", ctrl.SelectiveFamilyCheckIn)
	attendance.Get("/today", ctrl.GetTodayAttendance)
	attendance.Get("/history", ctrl.GetAttendanceHistory)

	fingerprint := api.Group("/fingerprint", staffOnly)
	fingerprint.Post("/enroll", ctrl.EnrollFingerprint)
	fingerprint.Post("/scan", ctrl.FingerprintScan)

	// destructive; admin only
	attendance.Delete("/:id",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("attendance deletion"), constants.AdminAndAbove...),
		ctrl.DeleteAttendance)
}
