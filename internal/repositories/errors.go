package repositories

import "errors"

var (
	// ErrForbidden means the acting user does not own the target record, or a
	// referenced user does not exist.
	ErrForbidden = errors.New("access forbidden")

	// ErrInvalidData means a request payload failed subtype validation.
	ErrInvalidData = errors.New("invalid notification data")
)
