package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/attendance/followup/controller"
	"gerejaku_backend/internals/features/notifications"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

func FollowUpRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewFollowUpController(db, notifications.Get())

	followUp := api.Group("/follow-up",
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("follow-up"), constants.StaffAndAbove...))
	followUp.Get("/", ctrl.ListFollowUps)
	followUp.Post("/contact", ctrl.RecordContact)

	// manual trigger of the scheduled scan; admin only
	followUp.Post("/scan",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("absence scan"), constants.AdminAndAbove...),
		ctrl.RunAbsenceScan)
}
