package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced entity is absent at the store.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the credential was rejected. The caller must
	// re-authenticate and must not assume any partial effect.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransient covers network and server failures with no specific cause.
	ErrTransient = errors.New("transient failure")
	// ErrInvalidInput means the request was rejected as malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// Invalid wraps ErrInvalidInput with a reason.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// NotFound wraps ErrNotFound with the kind and id of the missing entity.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
