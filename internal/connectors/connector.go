// Package connectors defines the generative text service interface for Vitalis.
package connectors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Generator sends one prompt to a generative text service and returns the
// raw text it produced.
type Generator interface {
	// Name returns the connector identifier.
	Name() string

	// Generate performs a single call. Implementations must not retry.
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusError is a failure reported by the remote service with an HTTP-like
// status code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned status %d", e.Code)
	}
	return fmt.Sprintf("service returned status %d: %s", e.Code, e.Message)
}

// IsUnavailable reports whether err signals that the service is temporarily
// unavailable (HTTP 503).
func IsUnavailable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusServiceUnavailable
	}
	return false
}
