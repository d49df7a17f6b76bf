package config

import (
	"errors"
	"fmt"
)

// InvalidConfigError indicates that the loaded configuration holds a value out of its allowed range.
type InvalidConfigError struct {
	err error
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid slot pool configuration: %s", e.err)
}

func (e InvalidConfigError) Unwrap() error {
	return e.err
}

// NewInvalidConfigError returns a new InvalidConfigError.
func NewInvalidConfigError(err error) InvalidConfigError {
	return InvalidConfigError{err: err}
}

// IsInvalidConfigError returns whether err is, or wraps, an InvalidConfigError.
func IsInvalidConfigError(err error) bool {
	var e InvalidConfigError
	return errors.As(err, &e)
}
