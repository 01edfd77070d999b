package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/users/auth/controller"
	"gerejaku_backend/internals/middlewares"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	public := app.Group("/api/auth")
	public.Post("/register", ctrl.Register)
	public.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	public.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	public.Post("/refresh-token", ctrl.RefreshToken)

	private := app.Group("/api/auth", authMiddleware.AuthMiddleware(db))
	private.Get("/me", ctrl.Me)
	private.Post("/logout", ctrl.Logout)
	private.Post("/change-password", ctrl.ChangePassword)
}
