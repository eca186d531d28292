package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request statuses shared by donation and swap requests.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// DonationRequest is one user's ask for a donate-listed book. At most one
// active (pending or approved) request exists per (requester, book) pair;
// a rejected request does not block a new one.
type DonationRequest struct {
	RequestID   uuid.UUID      `gorm:"column:request_id;type:uuid;primaryKey" json:"request_id"`
	RequesterID uuid.UUID      `gorm:"column:requester_id;type:uuid;not null;index" json:"requester_id"`
	OwnerID     uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	BookID      uuid.UUID      `gorm:"column:book_id;type:uuid;not null;index" json:"book_id"`
	Message     string         `gorm:"column:message;not null" json:"message"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DonationRequest) TableName() string {
	return "DonationRequests"
}

func (r *DonationRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequestID == uuid.Nil {
		r.RequestID = uuid.New()
	}
	return nil
}
