package controllers

import (
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// maxTaskAttempts is how often a completion task is retried before it is
// parked as FAILED and left for inspection
const maxTaskAttempts = 5

// InitializeCompletionWorker starts the background worker that processes
// pending completion tasks and retries unrendered certificate artifacts
func InitializeCompletionWorker() {
	log.Println("[COMPLETION-WORKER] Initializing completion worker...")

	c := cron.New()

	// Sweep every minute; the kick from the progress writer covers the common case
	c.AddFunc("* * * * *", func() {
		ProcessCompletionTasks(database.Database.Db)
		RetryPendingArtifacts(database.Database.Db)
	})

	c.Start()
	log.Println("[COMPLETION-WORKER] Completion worker started - sweeps every minute")
}

// KickCompletionWorker runs one pass asynchronously. Called by the progress
// writer after a chapter became complete so certificates go out without
// waiting for the next sweep; its failure never reaches the request.
func KickCompletionWorker() {
	go ProcessCompletionTasks(database.Database.Db)
}

// ProcessCompletionTasks works through pending completion tasks
func ProcessCompletionTasks(db *gorm.DB) {
	var tasks []courseModels.CompletionTask
	if err := db.Where("status = ?", "PENDING").Order("created_at asc").Limit(50).Find(&tasks).Error; err != nil {
		log.Printf("[COMPLETION-WORKER] Error fetching pending tasks: %v", err)
		return
	}

	for _, task := range tasks {
		task.Attempts++

		if err := CheckCourseCompletion(db, task.UserID, task.CourseID); err != nil {
			log.Printf("[COMPLETION-WORKER] Task %d failed (attempt %d): %v", task.ID, task.Attempts, err)
			task.LastError = err.Error()
			if task.Attempts >= maxTaskAttempts {
				task.Status = "FAILED"
			}
		} else {
			task.Status = "DONE"
			task.LastError = ""
		}

		if err := db.Save(&task).Error; err != nil {
			log.Printf("[COMPLETION-WORKER] Error updating task %d: %v", task.ID, err)
		}
	}
}

// RetryPendingArtifacts re-renders certificates whose artifact was never
// written, so a rendering failure stays a retryable condition instead of a
// certificate that silently points nowhere
func RetryPendingArtifacts(db *gorm.DB) {
	var pending []courseModels.Certificate
	if err := db.Where("artifact_status = ? AND is_deleted = ?", "PENDING", false).Limit(20).Find(&pending).Error; err != nil {
		log.Printf("[COMPLETION-WORKER] Error fetching pending artifacts: %v", err)
		return
	}

	for i := range pending {
		cert := &pending[i]

		var user models.User
		if err := db.Where("id = ?", cert.UserID).First(&user).Error; err != nil {
			continue
		}
		var course courseModels.Course
		if err := db.Where("id = ?", cert.CourseID).First(&course).Error; err != nil {
			continue
		}

		if err := RenderCertificateArtifact(db, cert, &user, &course); err != nil {
			log.Printf("[COMPLETION-WORKER] Artifact retry failed for %s: %v", cert.CertificateNumber, err)
		} else {
			log.Printf("[COMPLETION-WORKER] Artifact rendered for %s", cert.CertificateNumber)
		}
	}
}
