package ai

import (
	"errors"
	"fmt"
)

// ErrBudgetExceeded is returned by the Governor once the run's cumulative
// cost would pass the daily ceiling. It is never retried and never waits.
var ErrBudgetExceeded = errors.New("daily AI budget exceeded")

// TransientError marks a delivery failure worth retrying: timeouts,
// 5xx responses and explicit rate-limit signals.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// FatalError marks a failure that retrying cannot fix: missing or rejected
// credentials and malformed requests.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsFatal reports whether err must not be retried.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
