package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrNotFound       = errors.New("auction not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// business logic errors
var (
	ErrAuctionClosed = errors.New("auction has ended")
	ErrInvalidAmount = errors.New("invalid bid amount")
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrValidation    = errors.New("invalid auction details")
)

// identity errors
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("login required")
	ErrForbidden          = errors.New("admin access required")
)
