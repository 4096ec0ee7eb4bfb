package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GradeQuiz scores a set of selected options against a quiz's questions. A
// question earns its points only when the selected option set exactly matches
// the correct option set. The returned score is a percentage of total points.
func GradeQuiz(db *gorm.DB, quizID uint, answers map[uint][]uint) (int, error) {
	var questions []courseModels.Question
	if err := db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).Find(&questions).Error; err != nil {
		return 0, err
	}

	if len(questions) == 0 {
		return 100, nil
	}

	totalPoints := 0
	earnedPoints := 0

	for _, question := range questions {
		totalPoints += question.Points

		var correctOptions []courseModels.QuestionOption
		if err := db.Where("question_id = ? AND is_correct = ? AND is_deleted = ?", question.ID, true, false).
			Find(&correctOptions).Error; err != nil {
			return 0, err
		}

		correctIDs := make(map[uint]bool)
		for _, opt := range correctOptions {
			correctIDs[opt.ID] = true
		}

		selected := answers[question.ID]
		matched := 0
		for _, selectedID := range selected {
			if correctIDs[selectedID] {
				matched++
			}
		}

		// Exact match: every correct option selected, nothing extra
		if matched == len(correctIDs) && len(selected) == len(correctIDs) && len(correctIDs) > 0 {
			earnedPoints += question.Points
		}
	}

	if totalPoints == 0 {
		return 100, nil
	}

	return int(math.Round(float64(earnedPoints) / float64(totalPoints) * 100)), nil
}

// SubmitQuizAttempt submits and evaluates a quiz attempt
func SubmitQuizAttempt(c *fiber.Ctx) error {
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
	quizID := c.Locals("quizID").(int)

	var chapter courseModels.Chapter
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?",
		chapterID, courseID, false, true).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	// Free chapters are open without enrollment
	if !chapter.IsFree {
		var enrollment courseModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
			First(&enrollment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		}
	}

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND chapter_id = ? AND is_deleted = ?", quizID, chapterID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		Answers map[uint][]uint `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	score, err := GradeQuiz(db, quiz.ID, reqData.Answers)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade quiz!", nil)
	}

	passed := score >= quiz.PassingScore

	// Get attempt number
	var attemptCount int64
	db.Model(&courseModels.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quiz.ID, false).
		Count(&attemptCount)

	answersJSON, _ := json.Marshal(reqData.Answers)

	attempt := courseModels.QuizAttempt{
		UserID:        userID,
		QuizID:        quiz.ID,
		Answers:       datatypes.JSON(answersJSON),
		Score:         score,
		IsPassed:      passed,
		AttemptNumber: int(attemptCount) + 1,
		CompletedAt:   time.Now(),
	}

	if err := db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}

	// Recompute chapter progress; a passing attempt can silently flip the
	// chapter to completed without an explicit completion action
	progress, newlyCompleted, err := RefreshChapterProgress(db, userID, &chapter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if newlyCompleted {
		KickCompletionWorker()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted!", fiber.Map{
		"attempt":       attempt,
		"score":         score,
		"passed":        passed,
		"passing_score": quiz.PassingScore,
		"progress":      progress,
	})
}
