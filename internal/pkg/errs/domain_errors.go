package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Booking errors
	ErrBookingNotFound        = errors.New("booking not found")
	ErrAcknowledgmentRequired = errors.New("availability conflicts require acknowledgment")
	ErrStaleAvailability      = errors.New("availability changed since it was checked")
	ErrBookingFinalized       = errors.New("booking is closed for edits")

	// Catalog errors
	ErrVenueNotFound   = errors.New("venue not found")
	ErrItemNotFound    = errors.New("inventory item not found")
	ErrBillingNotFound = errors.New("billing not found")

	// Validation errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrCacheOperationFailed    = errors.New("cache operation failed")
)
