package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/attendance/external/controller"
	"gerejaku_backend/internals/middlewares"
)

// ExternalCheckInRoutes are unauthenticated; the slug + PIN pair is the
// whole credential, so they get their own tighter rate limit.
func ExternalCheckInRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := controller.NewExternalCheckInController(db)

	public := app.Group("/api/external-checkin", middlewares.ExternalCheckInRateLimiter())
	public.Get("/event/:eventUrl", ctrl.GetEventInfo)
	public.Post("/event/:eventUrl/search", ctrl.SearchMembers)
	public.Post("/check-in/:eventUrl", ctrl.CheckIn)
}
