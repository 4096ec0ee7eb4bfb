package controllers

import (
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a throwaway sqlite database, migrates the schema and
// installs it as the global instance for handlers under test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
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

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestCourse(t *testing.T, db *gorm.DB, title string) *courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:       title,
		Description: "Test course",
		Instructor:  "Jane Instructor",
		Level:       "BEGINNER",
		Category:    "Testing",
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func createTestChapter(t *testing.T, db *gorm.DB, courseID uint, position int, isFree bool) *courseModels.Chapter {
	t.Helper()

	chapter := courseModels.Chapter{
		CourseID:    courseID,
		Title:       "Chapter",
		Position:    position,
		IsFree:      isFree,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&chapter).Error)
	return &chapter
}

func createTestQuiz(t *testing.T, db *gorm.DB, chapterID uint, passingScore int) *courseModels.Quiz {
	t.Helper()

	quiz := courseModels.Quiz{
		ChapterID:    chapterID,
		Title:        "Quiz",
		PassingScore: passingScore,
	}
	require.NoError(t, db.Create(&quiz).Error)
	return &quiz
}

func createTestAttempt(t *testing.T, db *gorm.DB, userID, quizID uint, score int) *courseModels.QuizAttempt {
	t.Helper()

	attempt := courseModels.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		CompletedAt: time.Now(),
	}
	require.NoError(t, db.Create(&attempt).Error)
	return &attempt
}

func createQuestion(t *testing.T, db *gorm.DB, quizID uint, points int) uint {
	t.Helper()

	question := courseModels.Question{
		QuizID:       quizID,
		QuestionText: "Question",
		Points:       points,
	}
	require.NoError(t, db.Create(&question).Error)
	return question.ID
}

func createOption(t *testing.T, db *gorm.DB, questionID uint, isCorrect bool) uint {
	t.Helper()

	option := courseModels.QuestionOption{
		QuestionID: questionID,
		OptionText: "Option",
		IsCorrect:  isCorrect,
	}
	require.NoError(t, db.Create(&option).Error)
	return option.ID
}

func enroll(t *testing.T, db *gorm.DB, userID, courseID uint) *courseModels.Enrollment {
	t.Helper()

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   "PENDING",
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return &enrollment
}

// completeChapter writes a completed progress row directly
func completeChapter(t *testing.T, db *gorm.DB, userID, chapterID uint, score int) {
	t.Helper()

	completedAt := time.Now()
	progress := courseModels.ChapterProgress{
		UserID:       userID,
		ChapterID:    chapterID,
		ChapterScore: score,
		IsCompleted:  score >= ChapterPassScore,
		CompletedAt:  &completedAt,
	}
	require.NoError(t, db.Create(&progress).Error)
}
