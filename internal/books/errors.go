package books

import "errors"

var (
	ErrBookIDRequired     = errors.New("book_id is required")
	ErrNotFound           = errors.New("Book not found")
	ErrNotOwner           = errors.New("You do not own this book")
	ErrNotAvailable       = errors.New("Book is no longer available")
	ErrTitleRequired      = errors.New("Title and author are required")
	ErrInvalidCondition   = errors.New("Invalid book condition")
	ErrInvalidListingType = errors.New("Listing type must be Sell, Exchange or Donate")
	ErrPriceRequired      = errors.New("A positive price is required for books listed for sale")
	ErrHasActiveActivity  = errors.New("Book has active requests or orders and cannot be removed")
)
