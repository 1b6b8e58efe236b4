package harness

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the only error kind the harness raises itself.
// Callers match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a rejected harness call.
// Nothing is recorded when an InputError is returned.
type InputError struct {
	Op     string // "assert", "pass" or "fail"
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrInvalidInput, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
