package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	manageCourses := middleware.CheckPermissionMiddleware("manage-courses")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, manageCourses, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, manageCourses, validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, manageCourses, validators.PublishCourse(), controllers.AdminPublishCourse)
	adminGroup.Post("/:id/thumbnail", middleware.JWTMiddleware, manageCourses, validators.UploadThumbnailAdmin(), controllers.AdminUploadCourseThumbnail)

	// Chapter and quiz management
	adminGroup.Post("/:id/chapter", middleware.JWTMiddleware, manageCourses, validators.CreateChapterAdmin(), controllers.AdminCreateChapter)

	chapterGroup := app.Group("/admin/chapter")
	chapterGroup.Post("/:id/quiz", middleware.JWTMiddleware, manageCourses, validators.CreateQuizAdmin(), controllers.AdminCreateQuiz)

	// Enrollment management
	enrollmentGroup := app.Group("/admin/enrollment")
	enrollmentGroup.Put("/:id/status", middleware.JWTMiddleware,
		middleware.CheckPermissionMiddleware("manage-enrollments"),
		validators.UpdateEnrollmentStatusAdmin(), controllers.AdminUpdateEnrollmentStatus)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard")
	dashGroup.Get("/stats", middleware.JWTMiddleware,
		middleware.CheckPermissionMiddleware("view-dashboard"), controllers.AdminDashboardStats)
}
