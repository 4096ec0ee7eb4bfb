package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetChapterContent returns a chapter with its quizzes for an enrolled user,
// behind the access gate. Correct-answer flags are scrubbed from the options.
func GetChapterContent(c *fiber.Ctx) error {
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
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
		}
	}

	access, err := CheckChapterAccess(db, userID, &chapter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check chapter access!", nil)
	}
	if !access.CanAccess {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Chapter is locked!", access)
	}

	type QuestionWithOptions struct {
		courseModels.Question
		Options []courseModels.QuestionOption `json:"options"`
	}

	type QuizWithQuestions struct {
		courseModels.Quiz
		Questions []QuestionWithOptions `json:"questions"`
	}

	var quizzes []courseModels.Quiz
	db.Where("chapter_id = ? AND is_deleted = ?", chapter.ID, false).Find(&quizzes)

	result := make([]QuizWithQuestions, len(quizzes))
	for i, quiz := range quizzes {
		result[i] = QuizWithQuestions{Quiz: quiz}

		var questions []courseModels.Question
		db.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Order("order_index asc").Find(&questions)

		result[i].Questions = make([]QuestionWithOptions, len(questions))
		for j, question := range questions {
			var options []courseModels.QuestionOption
			db.Where("question_id = ? AND is_deleted = ?", question.ID, false).Order("order_index asc").Find(&options)
			// Never leak the answer key to students
			for k := range options {
				options[k].IsCorrect = false
			}
			result[i].Questions[j] = QuestionWithOptions{Question: question, Options: options}
		}
	}

	var progress courseModels.ChapterProgress
	hasProgress := db.Where("user_id = ? AND chapter_id = ?", userID, chapter.ID).First(&progress).Error == nil

	data := fiber.Map{
		"chapter": chapter,
		"quizzes": result,
	}
	if hasProgress {
		data["progress"] = progress
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter content fetched successfully!", data)
}
