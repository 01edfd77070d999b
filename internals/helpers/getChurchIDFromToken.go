package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// small util to avoid duplicated Locals parsing
func firstUUIDFromLocals(c *fiber.Ctx, key string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" not found in token")
	}

	switch t := v.(type) {
	case []string:
		if len(t) == 0 || strings.TrimSpace(t[0]) == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" empty in token")
		}
		return uuid.Parse(strings.TrimSpace(t[0]))
	case []interface{}:
		if len(t) == 0 {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" empty in token")
		}
		if s, ok := t[0].(string); ok {
			return uuid.Parse(strings.TrimSpace(s))
		}
	case interface{}:
		if s, ok := t.(string); ok {
			if strings.TrimSpace(s) == "" {
				return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" empty in token")
			}
			return uuid.Parse(strings.TrimSpace(s))
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+key+" format in token")
}

// GetChurchIDFromToken resolves the tenant for the current admin/staff
// request. Every repository query is scoped by this id.
func GetChurchIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return firstUUIDFromLocals(c, "church_admin_ids")
}

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	s, ok := c.Locals("user_id").(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id not found in token")
	}
	return uuid.Parse(strings.TrimSpace(s))
}
