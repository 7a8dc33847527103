package domain

import "errors"

// Access decisions.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbidden              = errors.New("access forbidden")
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
)

// Resource lookups. Each wraps ErrNotFound so callers can match either.
var (
	ErrUserNotFound    = notFound("user not found")
	ErrProfileNotFound = notFound("profile not found")
	ErrOfferNotFound   = notFound("offer not found")
	ErrPackageNotFound = notFound("offer detail not found")
	ErrOrderNotFound   = notFound("order not found")
	ErrReviewNotFound  = notFound("review not found")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidStatus      = errors.New("invalid order status")
)

var (
	ErrDuplicateReview error = &wrapped{msg: "business already reviewed by this user", base: ErrConflict}
	ErrImmutableField  error = &wrapped{msg: "field cannot be updated", base: ErrForbidden}
)

type wrapped struct {
	msg  string
	base error
}

func (e *wrapped) Error() string { return e.msg }
func (e *wrapped) Unwrap() error { return e.base }

func notFound(msg string) error {
	return &wrapped{msg: msg, base: ErrNotFound}
}
