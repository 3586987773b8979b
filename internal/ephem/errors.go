package ephem

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBody indicates no orbital data is registered for the identifier.
	ErrUnknownBody = errors.New("ephem: unknown body")

	// ErrInvalidElements indicates elements outside the bound-orbit domain.
	ErrInvalidElements = errors.New("ephem: invalid orbital elements")

	// ErrInvalidState indicates a propagated position containing NaN or Inf.
	ErrInvalidState = errors.New("ephem: invalid propagated state (NaN or Inf detected)")

	// ErrParentMissing indicates a moon whose parent body is not registered.
	ErrParentMissing = errors.New("ephem: parent body not registered")

	// ErrDuplicateBody indicates a second registration under the same identifier.
	ErrDuplicateBody = errors.New("ephem: body already registered")
)

// BodyError wraps a failure with the body it belongs to.
type BodyError struct {
	Body string
	Err  error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Body, e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}
