package controllers

import (
	"fmt"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckCourseCompletion verifies whether the user has completed every chapter
// of the course and, if so, issues the certificate and flips the enrollment to
// COMPLETED. Re-invocation after the certificate exists is a no-op, which is
// what keeps duplicate certificates out under repeated or concurrent triggers.
func CheckCourseCompletion(db *gorm.DB, userID, courseID uint) error {
	var chapters []courseModels.Chapter
	if err := db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Find(&chapters).Error; err != nil {
		return err
	}

	if len(chapters) == 0 {
		return nil
	}

	for _, chapter := range chapters {
		var progress courseModels.ChapterProgress
		if err := db.Where("user_id = ? AND chapter_id = ?", userID, chapter.ID).First(&progress).Error; err != nil {
			return nil // chapter untouched, course not complete
		}
		// Re-verify the score floor on top of the flag
		if !progress.IsCompleted || progress.ChapterScore < ChapterPassScore {
			return nil
		}
	}

	// Already certificated; nothing to do
	var existing courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&existing).Error; err == nil {
		return nil
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return err
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return err
	}

	cert, err := GenerateCertificate(db, &user, &course)
	if err != nil {
		return err
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err == nil {
		completedAt := time.Now()
		enrollment.Status = "COMPLETED"
		enrollment.CompletedAt = &completedAt
		if err := db.Save(&enrollment).Error; err != nil {
			return err
		}
	}

	// Downstream notifications are best-effort
	go func(email, name, title, number string) {
		if err := utils.SendCertificateEmail(email, name, title, number); err != nil {
			log.Printf("[CERTIFICATE] Failed to send certificate email to %s: %v", email, err)
		}
	}(user.Email, user.Name, course.Title, cert.CertificateNumber)

	go utils.NotifyCertificateIssued(utils.CertificateIssuedEvent{
		CertificateNumber: cert.CertificateNumber,
		CertificateURL:    cert.CertificateURL,
		UserID:            user.ID,
		CourseID:          course.ID,
		IssuedAt:          cert.IssuedAt,
	})

	return nil
}

// GenerateCertificate allocates a certificate number, creates the record and
// renders the artifact. The record is created before rendering with a PENDING
// artifact status; a render failure leaves it PENDING for the worker to retry
// instead of being silently treated as success.
func GenerateCertificate(db *gorm.DB, user *models.User, course *courseModels.Course) (*courseModels.Certificate, error) {
	number, err := AllocateCertificateNumber(db, time.Now())
	if err != nil {
		return nil, err
	}

	cert := courseModels.Certificate{
		UserID:            user.ID,
		CourseID:          course.ID,
		CertificateNumber: number,
		VerifyCode:        uuid.NewString(),
		ArtifactStatus:    "PENDING",
		IssuedAt:          time.Now(),
	}

	if err := db.Create(&cert).Error; err != nil {
		return nil, err
	}

	if err := RenderCertificateArtifact(db, &cert, user, course); err != nil {
		log.Printf("[CERTIFICATE] Rendering failed for %s, will retry: %v", cert.CertificateNumber, err)
	}

	return &cert, nil
}

// AllocateCertificateNumber hands out the next CERT-{year}{month}-{sequence}
// number from the per-month counter row. The row is locked for the duration of
// the transaction so two completions in the same millisecond cannot collide.
func AllocateCertificateNumber(db *gorm.DB, at time.Time) (string, error) {
	monthKey := at.Format("200601")

	var number string
	err := db.Transaction(func(tx *gorm.DB) error {
		var seq courseModels.CertificateSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("month_key = ?", monthKey).First(&seq).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			seq = courseModels.CertificateSequence{MonthKey: monthKey}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		}

		seq.LastValue++
		if err := tx.Save(&seq).Error; err != nil {
			return err
		}

		number = fmt.Sprintf("CERT-%s-%04d", monthKey, seq.LastValue)
		return nil
	})

	return number, err
}

// RenderCertificateArtifact renders the certificate document and stores its
// reference on the record
func RenderCertificateArtifact(db *gorm.DB, cert *courseModels.Certificate, user *models.User, course *courseModels.Course) error {
	artifactURL, err := utils.RenderCertificatePNG(utils.CertificateData{
		CertificateNumber: cert.CertificateNumber,
		StudentName:       user.Name,
		CourseTitle:       course.Title,
		Instructor:        course.Instructor,
		Level:             course.Level,
		Category:          course.Category,
		IssuedAt:          cert.IssuedAt,
	})
	if err != nil {
		return err
	}

	cert.CertificateURL = artifactURL
	cert.ArtifactStatus = "RENDERED"
	return db.Save(cert).Error
}
