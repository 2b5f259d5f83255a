package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ErrPredictionClosed is returned for writes against a fixture that already kicked off.
// It matches ErrInvalidInput as well.
var ErrPredictionClosed = fmt.Errorf("%w: predictions are closed", ErrInvalidInput)
