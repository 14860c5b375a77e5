package domain

import "errors"

// Stable error kinds the HTTP layer maps to status codes. Storage failures
// are wrapped with %w and surface as none of these.
var (
	// ErrValidation marks missing or invalid input; nothing was persisted.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidOrder marks a reorder request whose id set does not match the
	// parent's current children exactly. The reorder is rejected whole.
	ErrInvalidOrder = errors.New("order does not match current children")
	// ErrNotEnrolled marks a completion event for a lesson outside the
	// enrollment's course.
	ErrNotEnrolled = errors.New("enrollment does not cover this lesson")
	// ErrNotEligible marks a certificate request for an enrollment that is
	// not completed.
	ErrNotEligible = errors.New("enrollment is not completed")
	// ErrAlreadyIssued marks a duplicate certificate issuance attempt.
	ErrAlreadyIssued = errors.New("certificate already issued")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)
