package course

import "gorm.io/gorm"

// Chapter represents an ordered learning unit within a course
type Chapter struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position" gorm:"default:1"` // 1-based order within the course
	IsFree      bool   `json:"is_free" gorm:"default:false"`
	VideoURL    string `json:"video_url"`
	VideoLength int    `json:"video_length" gorm:"default:0"` // seconds
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
