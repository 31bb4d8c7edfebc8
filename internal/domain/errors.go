// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and are mapped to transport responses
// by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist
	// (for example, no current quote to share).
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the request was rejected before any
	// external call was made (blank input, malformed preference).
	ErrValidation = errors.New("validation failed")

	// ErrQuotaExhausted indicates the daily allowance is spent and the
	// caller is not premium. No network call is made.
	ErrQuotaExhausted = errors.New("daily quota exhausted")

	// ErrUnavailable indicates a retrieval tier or another dependency
	// failed at the transport level.
	ErrUnavailable = errors.New("unavailable")

	// ErrShareCanceled indicates the user dismissed the share sheet.
	// This is an expected outcome, not a failure.
	ErrShareCanceled = errors.New("share canceled")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// QuotaExhaustedError reports an attempt past the daily allowance.
type QuotaExhaustedError struct {
	Remaining int
}

func (e *QuotaExhaustedError) Error() string {
	return "daily quote limit reached; upgrade to premium for unlimited insights"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *QuotaExhaustedError) Unwrap() error {
	return ErrQuotaExhausted
}

// NewQuotaExhaustedError creates a quota exhaustion error.
func NewQuotaExhaustedError() error {
	return &QuotaExhaustedError{}
}

// RetrievalError reports a failure of one retrieval tier. Tier names the
// call that failed ("tag-search" or "random-fallback"); Status carries the
// HTTP status when the provider responded at all.
type RetrievalError struct {
	Tier   string
	Status int
	Cause  error
}

func (e *RetrievalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s retrieval failed with status %d", e.Tier, e.Status)
	}

	return fmt.Sprintf("%s retrieval failed: %v", e.Tier, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *RetrievalError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}

	return ErrUnavailable
}

// NewRetrievalError creates a retrieval error for the named tier.
func NewRetrievalError(tier string, status int, cause error) error {
	return &RetrievalError{Tier: tier, Status: status, Cause: cause}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// ShareError reports a genuine share failure. User cancellation is not a
// ShareError; it is ErrShareCanceled.
type ShareError struct {
	Reason string
}

func (e *ShareError) Error() string {
	return "could not share the quote: " + e.Reason
}

// NewShareError creates a share failure error.
func NewShareError(reason string) error {
	return &ShareError{Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsQuotaExhausted checks if an error is a quota exhaustion error.
func IsQuotaExhausted(err error) bool {
	return errors.Is(err, ErrQuotaExhausted)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsShareCanceled checks if an error is a user share cancellation.
func IsShareCanceled(err error) bool {
	return errors.Is(err, ErrShareCanceled)
}

// IsRetrieval checks if an error came from a retrieval tier.
func IsRetrieval(err error) bool {
	var re *RetrievalError

	return errors.As(err, &re)
}
