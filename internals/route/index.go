package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	externalRoute "gerejaku_backend/internals/features/attendance/external/route"
	followUpRoute "gerejaku_backend/internals/features/attendance/followup/route"
	attendanceRoute "gerejaku_backend/internals/features/attendance/records/route"
	churchRoute "gerejaku_backend/internals/features/churches/church/route"
	eventRoute "gerejaku_backend/internals/features/events/event/route"
	memberRoute "gerejaku_backend/internals/features/members/member/route"
	reportRoute "gerejaku_backend/internals/features/reports/route"
	authRoute "gerejaku_backend/internals/features/users/auth/route"
	visitorRoute "gerejaku_backend/internals/features/visitors/visitor/route"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	log.Println("[INFO] Setting up external check-in routes...")
	externalRoute.ExternalCheckInRoutes(app, db)

	// ===================== STAFF API =====================
	// Everything below requires a valid token; role checks are applied
	// per feature group.
	api := app.Group("/api", authMiddleware.AuthMiddleware(db))

	log.Println("[INFO] Mounting member routes...")
	memberRoute.MemberRoutes(api, db)

	log.Println("[INFO] Mounting attendance routes...")
	attendanceRoute.AttendanceRoutes(api, db)
	followUpRoute.FollowUpRoutes(api, db)

	log.Println("[INFO] Mounting visitor routes...")
	visitorRoute.VisitorRoutes(api, db)

	log.Println("[INFO] Mounting event routes...")
	eventRoute.EventRoutes(api, db)

	log.Println("[INFO] Mounting report routes...")
	reportRoute.ReportRoutes(api, db)

	log.Println("[INFO] Mounting church routes...")
	churchRoute.ChurchRoutes(api, db)
}
