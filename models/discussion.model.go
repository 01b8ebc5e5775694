package models

import "gorm.io/gorm"

// DiscussionPost is a question or reply on a lesson's discussion thread.
// Top-level posts have ParentID = nil; replies point at the post they answer.
type DiscussionPost struct {
	gorm.Model
	LessonID  uint   `gorm:"index;not null" json:"lesson_id"`
	CourseID  uint   `gorm:"index;not null" json:"course_id"`
	UserID    uint   `gorm:"index;not null" json:"user_id"`
	ParentID  *uint  `gorm:"index" json:"parent_id,omitempty"`
	Body      string `gorm:"type:text;not null" json:"body"`
	IsDeleted bool   `gorm:"default:false"`
}
