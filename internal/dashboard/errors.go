package dashboard

import "errors"

// Sentinel errors for dashboard operations.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUserRequired = errors.New("user id required")
)
