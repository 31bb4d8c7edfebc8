// Package clients provides HTTP client adapters for downstream services.
package clients

import (
	"errors"
	"fmt"
)

// Client errors represent failures in the HTTP client layer.
// These are distinct from domain errors - they represent infrastructure failures
// that should be translated to domain errors by the calling code.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	// This indicates the downstream service is unhealthy and requests are being blocked.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all retry attempts have been exhausted.
	// The original error is wrapped for context.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// ServerStatusError reports a 5xx status observed during a request attempt.
// It survives the retry wrapping so callers can recover the last status
// after retries are exhausted.
type ServerStatusError struct {
	Status int
}

func (e *ServerStatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.Status)
}
