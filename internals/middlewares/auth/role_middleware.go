package auth

import (
	"github.com/gofiber/fiber/v2"
)

// OnlyRoles gates a route group to the given roles. errMsg comes from
// the constants.RoleError* templates.
func OnlyRoles(errMsg string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, errMsg)
	}
}
