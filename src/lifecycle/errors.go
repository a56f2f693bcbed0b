package lifecycle

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the engine. Handlers match with errors.Is and map
// each kind to an HTTP status; the wrapped message is safe to show to users.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("not allowed")
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("invalid state")
	ErrStorage       = errors.New("storage error")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func authorizationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

func notFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalidStateError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func storageError(err error) error {
	return fmt.Errorf("%w: %s", ErrStorage, err.Error())
}
