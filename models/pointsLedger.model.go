package models

import "gorm.io/gorm"

// PointsLedger is a learner's running total of quiz points across all courses.
// Only the attempt scorer writes to it, and only inside the same transaction
// that records the attempt.
type PointsLedger struct {
	gorm.Model
	UserID      uint `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPoints int  `gorm:"default:0" json:"total_points"`
	IsDeleted   bool `gorm:"default:false"`
}
