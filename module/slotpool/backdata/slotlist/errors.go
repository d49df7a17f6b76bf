package slotlist

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolFull is returned when inserting into a pool whose every slot holds a live payload.
	ErrPoolFull = errors.New("slot pool is full")
	// ErrPoolEmpty is returned when removing from, or traversing, a pool with no live payloads.
	ErrPoolEmpty = errors.New("slot pool is empty")
	// ErrNotFound is the sentinel matched by every NotFoundError.
	ErrNotFound = errors.New("key not found in slot pool")
)

// NotFoundError indicates that no live payload carries the requested key.
type NotFoundError struct {
	Key int
}

func NewNotFoundError(key int) NotFoundError {
	return NotFoundError{Key: key}
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no live payload with key %d: %s", e.Key, ErrNotFound.Error())
}

// Is makes errors.Is(err, ErrNotFound) hold for any NotFoundError.
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFoundError returns whether err is a NotFoundError
func IsNotFoundError(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}
