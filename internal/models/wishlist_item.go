package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItem marks a book a user wants to follow from their dashboard.
type WishlistItem struct {
	WishlistID uuid.UUID      `gorm:"column:wishlist_id;type:uuid;primaryKey" json:"wishlist_id"`
	UserID     uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_wishlist_user_book" json:"user_id"`
	BookID     uuid.UUID      `gorm:"column:book_id;type:uuid;not null;uniqueIndex:idx_wishlist_user_book" json:"book_id"`
	CreatedAt  time.Time      `json:"createdAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WishlistItem) TableName() string {
	return "WishlistItems"
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.WishlistID == uuid.Nil {
		w.WishlistID = uuid.New()
	}
	return nil
}
