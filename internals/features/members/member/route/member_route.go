package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/members/member/controller"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

func MemberRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMemberController(db)

	members := api.Group("/members",
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("member registry"), constants.StaffAndAbove...))
	members.Post("/", ctrl.CreateMember)
	members.Get("/", ctrl.SearchMembers)
	members.Get("/:id", ctrl.GetMember)
	members.Put("/:id", ctrl.UpdateMember)
	members.Get("/:id/children", ctrl.GetChildren)
	members.Post("/:id/photo", ctrl.UploadPhoto)
}
