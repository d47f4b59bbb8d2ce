package authRoutes

import (
	authController "coursebox/controllers/auth"
	validators "coursebox/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration and login routes
func SetupAuthRoutes(app *fiber.App, ctl *authController.Controller) {
	group := app.Group("/users")

	group.Post("/register", validators.Register(), ctl.Register)
	group.Post("/login", validators.Login(), ctl.Login)
	group.Post("/auth", ctl.Authenticate)
}
