package certificateRoutes

import (
	controllers "lms/controllers/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up the public certificate routes
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate")

	// Public verification link printed on the certificate; no auth
	certGroup.Get("/verify/:code", validators.VerifyCertificate(), controllers.VerifyCertificate)
}
