package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RegenerateCertificate validates the course parameter for regeneration
func RegenerateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// VerifyCertificate validates the public verification code parameter
func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.TrimSpace(c.Params("code"))
		if _, err := uuid.Parse(code); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid verification code!", nil)
		}

		c.Locals("verifyCode", code)
		return c.Next()
	}
}
