package dispatch

import (
	"fmt"

	"github.com/google/uuid"
)

// Handle identifies an accepted request.
type Handle struct {
	Op          Op
	Correlation uuid.UUID
}

// Result is what a worker posts back once its request finished. Exactly one of
// Value or Err is meaningful.
type Result struct {
	Op          Op
	Correlation uuid.UUID
	Request     Request
	Value       any
	Err         error
}

// Failed reports whether the operation returned an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// OpError wraps a failure with the operation that produced it.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
