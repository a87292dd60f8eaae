package search

import (
	"context"
	"errors"
	"fmt"
)

// ValidationError reports caller input that cannot be served, such as a
// nearby scan without coordinates. Maps to HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// UpstreamQueryError wraps a failure of the persistence layer. The wrapped
// detail is logged, never returned to callers. Maps to HTTP 500.
type UpstreamQueryError struct {
	Op  string
	Err error
}

func (e *UpstreamQueryError) Error() string {
	return fmt.Sprintf("upstream query %s: %v", e.Op, e.Err)
}

func (e *UpstreamQueryError) Unwrap() error { return e.Err }

// TimeoutError reports that the request-level deadline expired before the
// query completed. Maps to HTTP 504.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}

// classify wraps a store error into the taxonomy: deadline expiry becomes a
// TimeoutError, everything else an UpstreamQueryError.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op}
	}
	return &UpstreamQueryError{Op: op, Err: err}
}
