package services

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to station terminals. Everything is scoped to the
// single requested operation; nothing here is fatal to the process.
var (
	// ErrEmptyQueue means no eligible entry exists for call-next/recall.
	// Informational, not an exception condition.
	ErrEmptyQueue = errors.New("no eligible entry in queue")

	// ErrConflict means a concurrent operation won the race, either for an
	// entry claim or for a queue number, and the single retry also lost.
	// The caller should press the action again.
	ErrConflict = errors.New("operation lost a concurrent update race")

	// ErrNotFound means the referenced queue entry does not exist.
	ErrNotFound = errors.New("queue entry not found")

	// ErrForbidden means the operator's role is not in the target station's
	// allowed-roles list.
	ErrForbidden = errors.New("operator role not permitted at this station")
)

// ValidationError rejects an illegal state transition or a missing required
// reference. Surfaced to the operator as-is, never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
