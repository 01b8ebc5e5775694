package models

import "gorm.io/gorm"

// Payment tracks a gateway payment for a paid course enrollment
type Payment struct {
	gorm.Model
	UserID         uint   `gorm:"index;not null" json:"user_id"`
	CourseID       uint   `gorm:"index;not null" json:"course_id"`
	Amount         int64  `gorm:"not null" json:"amount"` // smallest currency unit
	Currency       string `gorm:"size:3;default:'INR'" json:"currency"`
	Receipt        string `gorm:"size:64" json:"receipt"`
	GatewayOrderID string `gorm:"size:64;index" json:"gateway_order_id"`
	GatewayPayment string `gorm:"size:64" json:"gateway_payment_id"`
	Status         string `gorm:"default:'CREATED'" json:"status"` // CREATED, CAPTURED, FAILED
	FailureReason  string `gorm:"size:255" json:"failure_reason,omitempty"`
	IsDeleted      bool   `gorm:"default:false"`
}
