package advisor

import "fmt"

// Failure reasons carried by ServiceError.
const (
	ReasonTransient = "transient"
	ReasonExhausted = "exhausted retries"
	ReasonFatal     = "fatal"
)

// ServiceError reports a failed recommendation request. Callers only ever see
// ReasonExhausted or ReasonFatal; transient failures are retried internally.
type ServiceError struct {
	Reason   string
	Attempts int
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("recommendation failed (%s) after %d attempt(s)", e.Reason, e.Attempts)
	}
	return fmt.Sprintf("recommendation failed (%s) after %d attempt(s): %v", e.Reason, e.Attempts, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may usefully try the request again.
func (e *ServiceError) Retryable() bool {
	return e.Reason == ReasonExhausted || e.Reason == ReasonTransient
}
