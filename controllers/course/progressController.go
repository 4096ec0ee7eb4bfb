package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProgressUpdateRequest is the body of the update-chapter-progress call
type ProgressUpdateRequest struct {
	WatchedSeconds *int    `json:"watched_seconds" validate:"omitempty,gte=0"`
	IsCompleted    *bool   `json:"is_completed"`
	Notes          *string `json:"notes" validate:"omitempty,max=5000"`
}

// UpdateChapterProgress upserts a student's progress for a chapter. An
// explicit completion request below the chapter floor is rejected with the
// numbers the UI needs to explain the refusal; otherwise the computed
// completion value is applied.
func UpdateChapterProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	chapterID := c.Locals("chapterID").(int)

	var chapter courseModels.Chapter
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?",
		chapterID, courseID, false, true).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	if !chapter.IsFree {
		var enrollment courseModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
			First(&enrollment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		}
	}

	reqData, ok := c.Locals("validatedProgressUpdate").(*ProgressUpdateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	calc, err := CalculateChapterScore(db, userID, chapter.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to calculate chapter score!", nil)
	}

	// Designed rejection: the student asked for completion but the quiz
	// results do not carry it
	if reqData.IsCompleted != nil && *reqData.IsCompleted && !calc.IsCompleted {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false,
			"Chapter score is below the required threshold!", fiber.Map{
				"chapter_score":  calc.ChapterScore,
				"required_score": ChapterPassScore,
				"passed_quizzes": calc.PassedQuizzes,
				"total_quizzes":  calc.TotalQuizzes,
			})
	}

	progress, newlyCompleted, err := UpsertChapterProgress(db, userID, &chapter, calc,
		reqData.WatchedSeconds, reqData.Notes)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if newlyCompleted {
		KickCompletionWorker()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated!", fiber.Map{
		"progress":     progress,
		"quiz_summary": calc,
	})
}

// GetChapterStatus returns the stored progress and the current calculation for
// a chapter. Calling it repeatedly without new attempts returns identical
// results; nothing is persisted here.
func GetChapterStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	chapterID := c.Locals("chapterID").(int)

	var chapter courseModels.Chapter
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?",
		chapterID, courseID, false, true).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	calc, err := CalculateChapterScore(db, userID, chapter.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to calculate chapter score!", nil)
	}

	var progress *courseModels.ChapterProgress
	var stored courseModels.ChapterProgress
	err = db.Where("user_id = ? AND chapter_id = ?", userID, chapter.ID).First(&stored).Error
	if err == nil {
		progress = &stored
	} else if err != gorm.ErrRecordNotFound {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter status fetched successfully!", fiber.Map{
		"progress":    progress,
		"calculation": calc,
	})
}

// GetChapterAccess runs the access gate for a chapter
func GetChapterAccess(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	chapterID := c.Locals("chapterID").(int)

	var chapter courseModels.Chapter
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?",
		chapterID, courseID, false, true).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	if !chapter.IsFree {
		var enrollment courseModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
			First(&enrollment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		}
	}

	access, err := CheckChapterAccess(db, userID, &chapter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check chapter access!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter access checked!", access)
}
