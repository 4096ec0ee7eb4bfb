package course

import (
	"time"

	"gorm.io/gorm"
)

// ChapterProgress tracks a student's progress in a single chapter.
// One row per (user, chapter); created on first attempt or progress update,
// never deleted.
type ChapterProgress struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"index:idx_user_chapter,unique;not null"`
	ChapterID      uint       `json:"chapter_id" gorm:"index:idx_user_chapter,unique;not null"`
	WatchedSeconds int        `json:"watched_seconds" gorm:"default:0"` // advisory video consumption
	ChapterScore   int        `json:"chapter_score" gorm:"default:0"`   // derived from quiz results (0-100)
	IsCompleted    bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt    *time.Time `json:"completed_at"`
	Notes          string     `json:"notes" gorm:"type:text"`
}
