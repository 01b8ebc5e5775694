package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseInvitation invites an email address into a course. Accepting the
// token enrolls the (possibly new) user.
type CourseInvitation struct {
	gorm.Model
	CourseID   uint       `gorm:"index;not null" json:"course_id"`
	Email      string     `gorm:"size:100;index;not null" json:"email"`
	Token      string     `gorm:"size:64;uniqueIndex;not null" json:"token"`
	InvitedBy  uint       `gorm:"not null" json:"invited_by"`
	Status     string     `gorm:"default:'PENDING'" json:"status"` // PENDING, ACCEPTED, EXPIRED
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	IsDeleted  bool       `gorm:"default:false"`
}
