package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment records one completed Stripe Checkout Session. The unique index on
// the session id is the webhook's idempotency guard.
type Payment struct {
	PaymentID        uuid.UUID      `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	StripeSessionID  string         `gorm:"column:stripe_session_id;uniqueIndex;not null" json:"stripe_session_id"`
	StripeEventID    string         `gorm:"column:stripe_event_id;not null" json:"stripe_event_id"`
	OrderID          uuid.UUID      `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	AmountPaidCents  int            `gorm:"column:amount_paid_cents;not null" json:"amount_paid_cents"`
	Currency         string         `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Status           string         `gorm:"column:status;type:varchar(32);not null" json:"status"`
	RawCheckoutEvent datatypes.JSON `gorm:"column:raw_checkout_event;type:jsonb" json:"-"`
	CreatedAt        time.Time      `json:"createdAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string {
	return "Payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
