package handler

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidEventError reports a payload that cannot be read as an event object.
type InvalidEventError struct {
	Cause error
}

func (m *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event: %v", m.Cause)
}

func (m *InvalidEventError) Unwrap() error {
	return m.Cause
}

func newInvalidEventError(format string, args ...any) error {
	return &InvalidEventError{Cause: errors.Errorf(format, args...)}
}
