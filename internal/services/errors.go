package services

import "errors"

// Sentinel errors the handler layer maps onto HTTP statuses. Messages are
// user-facing; anything upstream-specific stays in the logs.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrAccessDenied         = errors.New("access denied")
	ErrUserNotFound         = errors.New("user not found")
	ErrTripNotFound         = errors.New("trip not found")
	ErrListNotFound         = errors.New("generated list not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrSpecialListNotFound  = errors.New("special list not found")
	ErrSpecialListsNotFound = errors.New("one or more special lists not found")
	ErrAlreadyGenerated     = errors.New("a packing list already exists for this trip")
	ErrGenerationFailed     = errors.New("generation failed")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrDuplicateItem        = errors.New("item already exists")
)
