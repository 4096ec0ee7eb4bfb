package controllers

import (
	courseModels "lms/models/course"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateIssuedOnFullCompletion(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, "Certified Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	ch2 := createTestChapter(t, db, course.ID, 2, false)
	enroll(t, db, user.ID, course.ID)

	completeChapter(t, db, user.ID, ch1.ID, 80)
	completeChapter(t, db, user.ID, ch2.ID, 100)

	require.NoError(t, CheckCourseCompletion(db, user.ID, course.ID))

	var cert courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&cert).Error)

	assert.Regexp(t, `^CERT-\d{6}-\d{4}$`, cert.CertificateNumber)
	_, err := uuid.Parse(cert.VerifyCode)
	assert.NoError(t, err)
	assert.Equal(t, "RENDERED", cert.ArtifactStatus)
	assert.NotEmpty(t, cert.CertificateURL)
	assert.WithinDuration(t, time.Now(), cert.IssuedAt, time.Minute)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	require.NotNil(t, enrollment.CompletedAt)
}

func TestCertificateIdempotent(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "bob")
	course := createTestCourse(t, db, "Idempotent Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	enroll(t, db, user.ID, course.ID)
	completeChapter(t, db, user.ID, ch1.ID, 70)

	require.NoError(t, CheckCourseCompletion(db, user.ID, course.ID))
	// Second invocation must not fail and must not mint a second certificate
	require.NoError(t, CheckCourseCompletion(db, user.ID, course.ID))
	require.NoError(t, CheckCourseCompletion(db, user.ID, course.ID))

	var count int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNoCertificateWhileChaptersRemain(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "carol")
	course := createTestCourse(t, db, "Long Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	ch2 := createTestChapter(t, db, course.ID, 2, false)
	createTestChapter(t, db, course.ID, 3, false)
	enroll(t, db, user.ID, course.ID)

	// 2 of 3 chapters done
	completeChapter(t, db, user.ID, ch1.ID, 90)
	completeChapter(t, db, user.ID, ch2.ID, 70)

	require.NoError(t, CheckCourseCompletion(db, user.ID, course.ID))

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "PENDING", enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestNoCertificateOnLowScoreChapter(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "dave")
	course := createTestCourse(t, db, "Strict Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	ch2 := createTestChapter(t, db, course.ID, 2, false)
	enroll(t, db, user.ID, course.ID)

	completeChapter(t, db, user.ID, ch1.ID, 100)
	// Below the floor, so not completed
	completeChapter(t, db, user.ID, ch2.ID, 50)

	require.NoError(t, CheckCourseCompletion(db, user.ID, course.ID))

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCompletionIgnoresUnpublishedChapters(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "erin")
	course := createTestCourse(t, db, "Draft Chapter Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	enroll(t, db, user.ID, course.ID)

	draft := courseModels.Chapter{CourseID: course.ID, Title: "Draft", Position: 2, IsPublished: false}
	require.NoError(t, db.Create(&draft).Error)

	completeChapter(t, db, user.ID, ch1.ID, 85)

	require.NoError(t, CheckCourseCompletion(db, user.ID, course.ID))

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAllocateCertificateNumberSequence(t *testing.T) {
	db := setupTestDB(t)

	at := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	first, err := AllocateCertificateNumber(db, at)
	require.NoError(t, err)
	assert.Equal(t, "CERT-202608-0001", first)

	second, err := AllocateCertificateNumber(db, at)
	require.NoError(t, err)
	assert.Equal(t, "CERT-202608-0002", second)

	third, err := AllocateCertificateNumber(db, at)
	require.NoError(t, err)
	assert.Equal(t, "CERT-202608-0003", third)

	// A new month starts its own counter
	nextMonth, err := AllocateCertificateNumber(db, at.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, "CERT-202609-0001", nextMonth)

	// And the old month continues where it left off
	fourth, err := AllocateCertificateNumber(db, at)
	require.NoError(t, err)
	assert.Equal(t, "CERT-202608-0004", fourth)
}

func TestProcessCompletionTasksIssuesCertificate(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "frank")
	course := createTestCourse(t, db, "Worker Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	enroll(t, db, user.ID, course.ID)
	completeChapter(t, db, user.ID, ch1.ID, 75)

	task := courseModels.CompletionTask{UserID: user.ID, CourseID: course.ID, Status: "PENDING"}
	require.NoError(t, db.Create(&task).Error)

	ProcessCompletionTasks(db)

	require.NoError(t, db.First(&task, task.ID).Error)
	assert.Equal(t, "DONE", task.Status)
	assert.Equal(t, 1, task.Attempts)
	assert.Empty(t, task.LastError)

	var cert courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&cert).Error)
	assert.Equal(t, "RENDERED", cert.ArtifactStatus)
}

func TestProcessCompletionTasksDrainsIncompleteCourses(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "grace")
	course := createTestCourse(t, db, "Unfinished Course")
	createTestChapter(t, db, course.ID, 1, false)
	enroll(t, db, user.ID, course.ID)

	task := courseModels.CompletionTask{UserID: user.ID, CourseID: course.ID, Status: "PENDING"}
	require.NoError(t, db.Create(&task).Error)

	ProcessCompletionTasks(db)

	// The check ran cleanly and found nothing to do; the task is consumed
	require.NoError(t, db.First(&task, task.ID).Error)
	assert.Equal(t, "DONE", task.Status)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRetryPendingArtifacts(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "henry")
	course := createTestCourse(t, db, "Retry Course")

	cert := courseModels.Certificate{
		UserID:            user.ID,
		CourseID:          course.ID,
		CertificateNumber: "CERT-202608-0042",
		VerifyCode:        uuid.NewString(),
		ArtifactStatus:    "PENDING",
		IssuedAt:          time.Now(),
	}
	require.NoError(t, db.Create(&cert).Error)

	RetryPendingArtifacts(db)

	require.NoError(t, db.First(&cert, cert.ID).Error)
	assert.Equal(t, "RENDERED", cert.ArtifactStatus)
	assert.NotEmpty(t, cert.CertificateURL)
}

func TestRegenerateKeepsCertificateRecord(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "iris")
	course := createTestCourse(t, db, "Regenerate Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	enroll(t, db, user.ID, course.ID)
	completeChapter(t, db, user.ID, ch1.ID, 90)

	require.NoError(t, CheckCourseCompletion(db, user.ID, course.ID))

	var cert courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&cert).Error)
	originalNumber := cert.CertificateNumber
	originalCode := cert.VerifyCode

	require.NoError(t, RenderCertificateArtifact(db, &cert, user, course))

	require.NoError(t, db.First(&cert, cert.ID).Error)
	assert.Equal(t, originalNumber, cert.CertificateNumber)
	assert.Equal(t, originalCode, cert.VerifyCode)
	assert.Equal(t, "RENDERED", cert.ArtifactStatus)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
