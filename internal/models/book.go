package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing types (canonical, lowercase). Incoming values are normalized with
// NormalizeListingType; reads stay tolerant of legacy values via
// IsExchangeCompatible.
const (
	ListingSell     = "sell"
	ListingExchange = "exchange"
	ListingDonate   = "donate"
)

// Book statuses. Transitions are one-directional toward a terminal state
// per listing type (sell→sold, exchange→swapped, donate→reserved/donated).
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
	StatusSwapped   = "swapped"
	StatusDonated   = "donated"
)

// Book conditions.
var Conditions = []string{"New", "Like New", "Very Good", "Good", "Acceptable"}

// Book is a listing owned by a user.
type Book struct {
	BookID      uuid.UUID      `gorm:"column:book_id;type:uuid;primaryKey" json:"book_id"`
	OwnerID     uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Author      string         `gorm:"column:author;not null" json:"author"`
	Description string         `gorm:"column:description" json:"description"`
	Condition   string         `gorm:"column:condition;type:varchar(20);not null" json:"condition"`
	ListingType string         `gorm:"column:listing_type;type:varchar(20);not null" json:"listing_type"`
	Price       *float64       `gorm:"column:price;type:decimal(18,2)" json:"price"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "Books"
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.BookID == uuid.Nil {
		b.BookID = uuid.New()
	}
	return nil
}

// NormalizeListingType canonicalizes a listing type at the write boundary.
// "Swap", "SWAP for trade" and "Exchange" all normalize to exchange; unknown
// values return "" so callers can reject them.
func NormalizeListingType(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == ListingSell:
		return ListingSell
	case v == ListingDonate:
		return ListingDonate
	case strings.Contains(v, "exchange"), strings.Contains(v, "swap"):
		return ListingExchange
	}
	return ""
}

// IsExchangeCompatible reports whether a stored listing type counts as
// exchange-listed. Case-insensitive substring match so rows written before
// normalization ("Swap", "Exchange for trade") keep working.
func IsExchangeCompatible(listingType string) bool {
	v := strings.ToLower(listingType)
	return strings.Contains(v, "exchange") || strings.Contains(v, "swap")
}

// IsValidCondition reports whether the condition is one of the allowed values.
func IsValidCondition(condition string) bool {
	for _, c := range Conditions {
		if c == condition {
			return true
		}
	}
	return false
}
