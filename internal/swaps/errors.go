package swaps

import "errors"

var (
	ErrIDsRequired           = errors.New("requested_book_id and offered_book_id are required")
	ErrRequestedNotFound     = errors.New("Requested book not found")
	ErrRequestedNotAvailable = errors.New("Requested book is no longer available")
	ErrRequestedNotExchange  = errors.New("Requested book is not listed for exchange")
	ErrOwnBook               = errors.New("You cannot swap for your own book")
	ErrSameBook              = errors.New("You cannot offer the book you are requesting")
	ErrOfferedNotFound       = errors.New("Offered book not found")
	ErrOfferedNotOwned       = errors.New("You do not own the offered book")
	ErrOfferedNotAvailable   = errors.New("Offered book is not available")
	ErrOfferedNotExchange    = errors.New("Offered book is not listed for exchange")
	ErrAlreadyRequested      = errors.New("You have already proposed this swap")
	ErrSwapNotFound          = errors.New("Swap request not found")
	ErrNotSwapOwner          = errors.New("You are not authorized to decide this swap request")
	ErrAlreadyProcessed      = errors.New("Swap request has already been processed")
	ErrInvalidDecision       = errors.New("Decision must be approved or rejected")
	ErrBooksNotClaimable     = errors.New("One of the books is no longer available")
)
