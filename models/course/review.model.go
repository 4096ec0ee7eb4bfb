package course

import "gorm.io/gorm"

// CourseReview represents a student's rating and comment on a course
type CourseReview struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	Rating    int    `json:"rating" gorm:"default:0"` // 1-5
	Comment   string `json:"comment" gorm:"type:text"`
	IsDeleted bool   `gorm:"default:false"`
}
