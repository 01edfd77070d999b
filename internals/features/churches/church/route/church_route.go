package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/churches/church/controller"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

func ChurchRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewChurchController(db)

	churches := api.Group("/churches",
		authMiddleware.OnlyRoles(constants.RoleErrorOwner("church management"), constants.OwnerOnly...))
	churches.Post("/", ctrl.CreateChurch)
	churches.Get("/", ctrl.ListChurches)
	churches.Get("/:id", ctrl.GetChurch)
	churches.Put("/:id", ctrl.UpdateChurch)
	churches.Delete("/:id", ctrl.DeleteChurch)
}
