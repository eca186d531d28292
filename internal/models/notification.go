package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types, tagging which workflow produced the record.
const (
	NotifDonationRequest = "donation_request"
	NotifDonationUpdate  = "donation_update"
	NotifSwapRequest     = "swap_request"
	NotifSwapUpdate      = "swap_update"
	NotifOrder           = "order"
	NotifOrderUpdate     = "order_update"
)

// Notification is an outbound message describing a state change. Written
// best-effort by the workflows; only the recipient mutates it (mark read).
type Notification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	RecipientID    uuid.UUID      `gorm:"column:recipient_id;type:uuid;not null;index" json:"recipient_id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Message        string         `gorm:"column:message;not null" json:"message"`
	Type           string         `gorm:"column:type;type:varchar(32);not null" json:"type"`
	RelatedID      uuid.UUID      `gorm:"column:related_id;type:uuid;not null" json:"related_id"`
	Read           bool           `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt      time.Time      `json:"createdAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notification) TableName() string {
	return "Notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
