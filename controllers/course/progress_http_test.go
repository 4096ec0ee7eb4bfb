package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"lms/config"
	controllers "lms/controllers/course"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHTTPTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)

	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{
		Port:           "3000",
		JWTKey:         "test-secret",
		SaltRound:      4,
		CertificateDir: t.TempDir(),
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{Name: name, Email: name + "@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCourse(t *testing.T, db *gorm.DB, chapterCount int) (*courseModels.Course, []courseModels.Chapter) {
	t.Helper()

	course := courseModels.Course{
		Title:       "Test Course",
		Instructor:  "Jane Instructor",
		Level:       "BEGINNER",
		Category:    "Testing",
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	chapters := make([]courseModels.Chapter, chapterCount)
	for i := range chapters {
		chapters[i] = courseModels.Chapter{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Chapter %d", i+1),
			Position:    i + 1,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&chapters[i]).Error)
	}

	return &course, chapters
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()

	enrollment := courseModels.Enrollment{UserID: userID, CourseID: courseID, Status: "PENDING"}
	require.NoError(t, db.Create(&enrollment).Error)
}

func seedQuiz(t *testing.T, db *gorm.DB, chapterID uint, passingScore int) *courseModels.Quiz {
	t.Helper()

	quiz := courseModels.Quiz{ChapterID: chapterID, Title: "Quiz", PassingScore: passingScore}
	require.NoError(t, db.Create(&quiz).Error)
	return &quiz
}

func seedAttempt(t *testing.T, db *gorm.DB, userID, quizID uint, score int) {
	t.Helper()

	attempt := courseModels.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		CompletedAt: time.Now(),
	}
	require.NoError(t, db.Create(&attempt).Error)
}

// newProgressApp builds a fiber app with the progress routes mounted behind a
// stub that injects the authenticated user, standing in for the JWT middleware
func newProgressApp(userID uint) *fiber.App {
	app := fiber.New()

	withUser := func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}

	app.Post("/course/:course_id/chapter/:chapter_id/progress",
		withUser, courseValidator.UpdateProgress(), controllers.UpdateChapterProgress)
	app.Get("/course/:course_id/chapter/:chapter_id/status",
		withUser, courseValidator.ChapterParams(), controllers.GetChapterStatus)

	return app
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, apiEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func progressURL(courseID, chapterID uint) string {
	return fmt.Sprintf("/course/%d/chapter/%d/progress", courseID, chapterID)
}

func TestUpdateProgressRejectsPrematureCompletion(t *testing.T) {
	db := setupHTTPTestDB(t)

	user := seedUser(t, db, "alice")
	course, chapters := seedCourse(t, db, 1)
	seedEnrollment(t, db, user.ID, course.ID)

	quiz1 := seedQuiz(t, db, chapters[0].ID, 70)
	seedQuiz(t, db, chapters[0].ID, 80)

	// Only one of two quizzes passed: chapter sits at 50
	seedAttempt(t, db, user.ID, quiz1.ID, 75)

	app := newProgressApp(user.ID)

	status, envelope := doJSON(t, app, fiber.MethodPost,
		progressURL(course.ID, chapters[0].ID),
		fiber.Map{"is_completed": true})

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.False(t, envelope.Status)

	var details struct {
		ChapterScore  int `json:"chapter_score"`
		RequiredScore int `json:"required_score"`
		PassedQuizzes int `json:"passed_quizzes"`
		TotalQuizzes  int `json:"total_quizzes"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &details))
	assert.Equal(t, 50, details.ChapterScore)
	assert.Equal(t, controllers.ChapterPassScore, details.RequiredScore)
	assert.Equal(t, 1, details.PassedQuizzes)
	assert.Equal(t, 2, details.TotalQuizzes)

	// The rejected call persisted nothing
	var rows int64
	db.Model(&courseModels.ChapterProgress{}).Where("user_id = ?", user.ID).Count(&rows)
	assert.Equal(t, int64(0), rows)
}

func TestUpdateProgressAcceptsEarnedCompletion(t *testing.T) {
	db := setupHTTPTestDB(t)

	user := seedUser(t, db, "bob")
	course, chapters := seedCourse(t, db, 1)
	seedEnrollment(t, db, user.ID, course.ID)

	quiz1 := seedQuiz(t, db, chapters[0].ID, 70)
	quiz2 := seedQuiz(t, db, chapters[0].ID, 80)
	seedAttempt(t, db, user.ID, quiz1.ID, 75)
	seedAttempt(t, db, user.ID, quiz2.ID, 85)

	app := newProgressApp(user.ID)

	status, envelope := doJSON(t, app, fiber.MethodPost,
		progressURL(course.ID, chapters[0].ID),
		fiber.Map{"is_completed": true, "watched_seconds": 600})

	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, envelope.Status)

	var progress courseModels.ChapterProgress
	require.NoError(t, db.Where("user_id = ? AND chapter_id = ?", user.ID, chapters[0].ID).
		First(&progress).Error)
	assert.True(t, progress.IsCompleted)
	assert.Equal(t, 100, progress.ChapterScore)
	assert.Equal(t, 600, progress.WatchedSeconds)
	require.NotNil(t, progress.CompletedAt)
}

func TestUpdateProgressWithoutCompletionFlag(t *testing.T) {
	db := setupHTTPTestDB(t)

	user := seedUser(t, db, "carol")
	course, chapters := seedCourse(t, db, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	seedQuiz(t, db, chapters[0].ID, 70)

	app := newProgressApp(user.ID)

	// Just recording watch time on a chapter whose quiz is unpassed is fine
	status, _ := doJSON(t, app, fiber.MethodPost,
		progressURL(course.ID, chapters[0].ID),
		fiber.Map{"watched_seconds": 42})

	assert.Equal(t, fiber.StatusOK, status)

	var progress courseModels.ChapterProgress
	require.NoError(t, db.Where("user_id = ? AND chapter_id = ?", user.ID, chapters[0].ID).
		First(&progress).Error)
	assert.False(t, progress.IsCompleted)
	assert.Equal(t, 42, progress.WatchedSeconds)
	assert.Equal(t, 0, progress.ChapterScore)
}

func TestUpdateProgressRequiresEnrollment(t *testing.T) {
	db := setupHTTPTestDB(t)

	user := seedUser(t, db, "dave")
	course, chapters := seedCourse(t, db, 1)
	// Not enrolled

	app := newProgressApp(user.ID)

	status, envelope := doJSON(t, app, fiber.MethodPost,
		progressURL(course.ID, chapters[0].ID),
		fiber.Map{"watched_seconds": 10})

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.False(t, envelope.Status)
}

func TestUpdateProgressRejectsNegativeWatchTime(t *testing.T) {
	db := setupHTTPTestDB(t)

	user := seedUser(t, db, "erin")
	course, chapters := seedCourse(t, db, 1)
	seedEnrollment(t, db, user.ID, course.ID)

	app := newProgressApp(user.ID)

	status, _ := doJSON(t, app, fiber.MethodPost,
		progressURL(course.ID, chapters[0].ID),
		fiber.Map{"watched_seconds": -5})

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestGetChapterStatusIsStable(t *testing.T) {
	db := setupHTTPTestDB(t)

	user := seedUser(t, db, "frank")
	course, chapters := seedCourse(t, db, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	quiz := seedQuiz(t, db, chapters[0].ID, 65)
	seedAttempt(t, db, user.ID, quiz.ID, 70)

	app := newProgressApp(user.ID)
	url := fmt.Sprintf("/course/%d/chapter/%d/status", course.ID, chapters[0].ID)

	status, first := doJSON(t, app, fiber.MethodGet, url, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, second := doJSON(t, app, fiber.MethodGet, url, nil)
	assert.Equal(t, fiber.StatusOK, status)

	assert.JSONEq(t, string(first.Data), string(second.Data))
}
