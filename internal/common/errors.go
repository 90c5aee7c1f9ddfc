package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error kinds. Every stage failure wraps exactly one of these so
// callers can classify with errors.Is.
var (
	// ErrUnsupportedFormat is returned before any I/O when a document's
	// extension is outside the allowed set.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed means both the primary extraction backend and the
	// local fallback failed to produce text.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrBackendUnavailable means no generation-backend credential is
	// configured. Checked before any network call.
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrNoStructuredData means a model response contained no parseable
	// JSON object.
	ErrNoStructuredData = errors.New("no structured data in model response")

	// ErrGenerationFailed covers transport or backend errors on a
	// generation call, including malformed (schema-invalid) output.
	ErrGenerationFailed = errors.New("generation call failed")

	// ErrNotFound is returned by the store when an artifact is absent.
	ErrNotFound = errors.New("resource not found")

	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
