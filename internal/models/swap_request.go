package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SwapRequest is an offer to trade the requester's offered book for the
// owner's requested book. Table name matches the original book_swaps
// collection.
type SwapRequest struct {
	SwapID          uuid.UUID      `gorm:"column:swap_id;type:uuid;primaryKey" json:"swap_id"`
	RequesterID     uuid.UUID      `gorm:"column:requester_id;type:uuid;not null;index" json:"requester_id"`
	OwnerID         uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	RequestedBookID uuid.UUID      `gorm:"column:requested_book_id;type:uuid;not null;index" json:"requested_book_id"`
	OfferedBookID   uuid.UUID      `gorm:"column:offered_book_id;type:uuid;not null;index" json:"offered_book_id"`
	Message         string         `gorm:"column:message;not null" json:"message"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SwapRequest) TableName() string {
	return "BookSwaps"
}

func (s *SwapRequest) BeforeCreate(tx *gorm.DB) error {
	if s.SwapID == uuid.Nil {
		s.SwapID = uuid.New()
	}
	return nil
}
