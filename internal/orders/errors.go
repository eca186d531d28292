package orders

import "errors"

var (
	ErrBookIDRequired     = errors.New("book_id is required")
	ErrBookNotFound       = errors.New("Book not found")
	ErrNotForSale         = errors.New("This book is not listed for sale")
	ErrOwnBook            = errors.New("You cannot buy your own book")
	ErrBookNotAvailable   = errors.New("Book is no longer available")
	ErrAmountMismatch     = errors.New("Amount does not match the listing price")
	ErrShippingIncomplete = errors.New("Shipping name, address, city, postal code and country are required")
	ErrOrderNotFound      = errors.New("Order not found")
	ErrNotSeller          = errors.New("Only the seller can update this order")
	ErrInvalidStatus      = errors.New("Invalid order status")
	ErrInvalidTransition  = errors.New("Invalid order status transition")
)
