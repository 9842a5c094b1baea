package fees

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidInput marks negative hours, negative experience, or an
	// otherwise malformed time entry.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIncompleteSchedule marks a rate schedule missing the rate for a
	// resolved tier. Silently defaulting would corrupt the downstream
	// fee-reasonableness argument, so this is always surfaced.
	ErrIncompleteSchedule = errors.New("incomplete rate schedule")
)
