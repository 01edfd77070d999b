package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/visitors/visitor/controller"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

func VisitorRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewVisitorController(db)

	staffOnly := authMiddleware.OnlyRoles(constants.RoleErrorStaff("visitors"), constants.StaffAndAbove...)

	// combined visitor insert + attendance insert
	api.Post("/visitor-checkin", staffOnly, ctrl.VisitorCheckIn)

	visitors := api.Group("/visitors", staffOnly)
	visitors.Get("/", ctrl.ListVisitors)
	visitors.Get("/:id", ctrl.GetVisitor)
	visitors.Patch("/:id", ctrl.UpdateVisitor)

	// data-repair job; admin only
	visitors.Post("/fix-visitor-member-records",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("visitor reconciliation"), constants.AdminAndAbove...),
		ctrl.FixVisitorMemberRecords)
}
