package authRoutes

import (
	authControllers "lms/controllers/auth"
	validators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up all authentication routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", validators.Signup(), authControllers.Signup)
	authGroup.Post("/login", validators.Login(), authControllers.Login)
}
