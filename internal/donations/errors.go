package donations

import "errors"

// Each precondition has its own user-facing message; callers surface these
// verbatim, so a generic "request failed" is never returned for an expected
// failure.
var (
	ErrBookIDRequired    = errors.New("book_id is required")
	ErrBookNotFound      = errors.New("Book not found")
	ErrNotDonateListing  = errors.New("This book is not listed for donation")
	ErrOwnBook           = errors.New("You cannot request your own book")
	ErrBookNotAvailable  = errors.New("Book is no longer available")
	ErrAlreadyRequested  = errors.New("You have already requested this book")
	ErrAlreadyApproved   = errors.New("Your request for this book has already been approved")
	ErrRequestNotFound   = errors.New("Request not found")
	ErrNotRequestOwner   = errors.New("You are not authorized to decide this request")
	ErrAlreadyProcessed  = errors.New("Request has already been processed")
	ErrInvalidDecision   = errors.New("Decision must be approved or rejected")
)
