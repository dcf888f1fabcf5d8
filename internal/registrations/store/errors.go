// Package store holds the shared error taxonomy for registration sources.
// Implementations live in the postgrest, postgres and file subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCategory classifies why a source failed. Users only ever see "fetch
// failed"; categories feed logs, metrics and traces.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorNotFound       ErrorCategory = "not_found"
	ErrorRateLimited    ErrorCategory = "rate_limited"
	ErrorOutage         ErrorCategory = "outage"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorInternal       ErrorCategory = "internal"
)

// FetchError wraps a source failure with its category.
type FetchError struct {
	Category   ErrorCategory
	Source     string
	Message    string
	Underlying error
}

func (e *FetchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Underlying
}

func NewFetchError(category ErrorCategory, source, message string, underlying error) *FetchError {
	return &FetchError{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the category from err. Context deadlines count as
// timeouts even when the source did not classify them.
func CategoryOf(err error) ErrorCategory {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	return ErrorInternal
}
