package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses. Forward-only: pending→processing→shipped→delivered,
// with cancelled reachable from any pre-delivered state.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// ShippingDetails is embedded into Order (one address per order).
type ShippingDetails struct {
	Name         string `gorm:"column:shipping_name;not null" json:"name"`
	AddressLine1 string `gorm:"column:shipping_address_line1;not null" json:"address_line1"`
	AddressLine2 string `gorm:"column:shipping_address_line2" json:"address_line2"`
	City         string `gorm:"column:shipping_city;not null" json:"city"`
	State        string `gorm:"column:shipping_state" json:"state"`
	PostalCode   string `gorm:"column:shipping_postal_code;not null" json:"postal_code"`
	Country      string `gorm:"column:shipping_country;not null" json:"country"`
	Phone        string `gorm:"column:shipping_phone" json:"phone"`
}

// Order is a purchase of a sell-listed book.
type Order struct {
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;primaryKey" json:"order_id"`
	BuyerID   uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID  uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	BookID    uuid.UUID       `gorm:"column:book_id;type:uuid;not null;index" json:"book_id"`
	Amount    float64         `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status    string          `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	Shipping  ShippingDetails `gorm:"embedded" json:"shipping"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Order) TableName() string {
	return "Orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderID == uuid.Nil {
		o.OrderID = uuid.New()
	}
	return nil
}
