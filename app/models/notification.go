package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationTypePaymentConfirmation = "payment_confirmation"
	NotificationTypeReportDelivery      = "report_delivery"
	NotificationTypePaymentReceipt      = "payment_receipt"
)

type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type        string    `gorm:"type:varchar(50)" json:"type" validate:"oneof=payment_confirmation report_delivery payment_receipt"`
	Content     string    `gorm:"type:text" json:"content"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	ReferenceID uint      `json:"reference_id"` // id of the purchase this notification refers to
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateNotification creates a new notification row
func CreateNotification(db *gorm.DB, userID uint, notificationType string, content string, referenceID uint) error {
	notification := Notification{
		UserID:      userID,
		Type:        notificationType,
		Content:     content,
		ReferenceID: referenceID,
		IsRead:      false,
	}

	return db.Create(&notification).Error
}
