package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Chapter content (behind the access gate)
	userGroup.Get("/:course_id/chapter/:chapter_id", middleware.JWTMiddleware, validators.ChapterParams(), controllers.GetChapterContent)
	userGroup.Get("/:course_id/chapter/:chapter_id/access", middleware.JWTMiddleware, validators.ChapterParams(), controllers.GetChapterAccess)
	userGroup.Get("/:course_id/chapter/:chapter_id/status", middleware.JWTMiddleware, validators.ChapterParams(), controllers.GetChapterStatus)

	// Progress tracking
	userGroup.Post("/:course_id/chapter/:chapter_id/progress", middleware.JWTMiddleware, validators.UpdateProgress(), controllers.UpdateChapterProgress)

	// Quiz submission
	userGroup.Post("/:course_id/chapter/:chapter_id/quiz/:quiz_id/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuizAttempt)

	// Certificate regeneration (re-renders the artifact only)
	userGroup.Post("/:course_id/certificate/regenerate", middleware.JWTMiddleware, validators.RegenerateCertificate(), controllers.RegenerateCertificate)

	// Reviews
	userGroup.Post("/:id/review", middleware.JWTMiddleware, validators.SubmitReview(), controllers.SubmitCourseReview)
	userGroup.Get("/:id/reviews", middleware.JWTMiddleware, validators.GetReviews(), controllers.GetCourseReviews)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
