package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/events/event/controller"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

func EventRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEventController(db)

	events := api.Group("/events",
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("events"), constants.StaffAndAbove...))
	events.Get("/", ctrl.ListEvents)
	events.Get("/:id", ctrl.GetEvent)

	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("event management"), constants.AdminAndAbove...)
	events.Post("/", adminOnly, ctrl.CreateEvent)
	events.Put("/:id", adminOnly, ctrl.UpdateEvent)
	events.Get("/:id/external-check-in", adminOnly, ctrl.GetExternalCheckInSettings)
	events.Post("/:id/external-check-in", adminOnly, ctrl.ToggleExternalCheckIn)
}
