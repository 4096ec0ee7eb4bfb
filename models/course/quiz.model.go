package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz represents a quiz attached to a chapter
type Quiz struct {
	gorm.Model
	ChapterID    uint   `json:"chapter_id" gorm:"index;not null"`
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score" gorm:"default:65"` // percentage needed to pass this quiz
	IsDeleted    bool   `gorm:"default:false"`
}

// Question represents a question within a quiz
type Question struct {
	gorm.Model
	QuizID       uint   `json:"quiz_id" gorm:"index;not null"`
	QuestionText string `json:"question_text" gorm:"type:text"`
	Points       int    `json:"points" gorm:"default:1"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// QuestionOption represents an answer option for a question
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// QuizAttempt represents a student's attempt at a quiz. Every attempt is kept;
// pass/fail for the chapter only looks at the best one.
type QuizAttempt struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	Answers       datatypes.JSON `json:"answers"` // map of question ID -> selected option IDs
	Score         int            `json:"score"`   // percentage (0-100)
	IsPassed      bool           `json:"is_passed" gorm:"default:false"`
	AttemptNumber int            `json:"attempt_number" gorm:"default:1"`
	CompletedAt   time.Time      `json:"completed_at"`
	IsDeleted     bool           `gorm:"default:false"`
}
