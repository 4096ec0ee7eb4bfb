package course

import "gorm.io/gorm"

// CompletionTask is a durable handoff from the progress writer to the course
// completion check. The worker retries failed tasks and records the last error,
// so downstream certificate problems stay visible without failing the request
// that produced them.
type CompletionTask struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	Status    string `json:"status" gorm:"default:'PENDING'"` // PENDING, DONE, FAILED
	Attempts  int    `json:"attempts" gorm:"default:0"`
	LastError string `json:"last_error" gorm:"type:text"`
}
