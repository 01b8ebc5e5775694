package course

import "gorm.io/gorm"

// Lesson represents a single lesson within a course
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	LessonType  string `json:"lesson_type" gorm:"default:'VIDEO'"` // VIDEO, DOCUMENT, IMAGE, QUIZ
	VideoURL    string `json:"video_url"`                          // For VIDEO type
	DocumentURL string `json:"document_url"`                       // For DOCUMENT type
	ImageURL    string `json:"image_url"`                          // For IMAGE type
	OrderIndex  int    `json:"order_index" gorm:"default:0"`       // Lesson order in course
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// LessonCompletion tracks a learner's completion of a lesson. For QUIZ lessons
// the only writer is the attempt scorer, on a perfect score.
type LessonCompletion struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	LessonID  uint   `json:"lesson_id" gorm:"index;not null"`
	Status    string `json:"status" gorm:"default:'COMPLETED'"`
	IsDeleted bool   `gorm:"default:false"`
}
