package errors

import "fmt"

// OmniError is the structured error type for CLI-visible failures. It
// distinguishes "system not ready" from "no products found": data-quality
// issues never surface as errors, programmer errors always do.
type OmniError struct {
	// Code is the unique error code (e.g., "ERR_201_CORPUS_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Parse, Query, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *OmniError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *OmniError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so errors.Is works with OmniError.
func (e *OmniError) Is(target error) bool {
	if t, ok := target.(*OmniError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail and returns the error for chaining.
func (e *OmniError) WithDetail(key, value string) *OmniError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *OmniError) WithSuggestion(suggestion string) *OmniError {
	e.Suggestion = suggestion
	return e
}

// New creates an OmniError with the given code and message. Category and
// severity are derived from the code.
func New(code string, message string, cause error) *OmniError {
	return &OmniError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an OmniError from an existing error.
func Wrap(code string, err error) *OmniError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *OmniError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// CorpusError creates a corpus I/O error.
func CorpusError(message string, cause error) *OmniError {
	return New(ErrCodeCorpusNotFound, message, cause)
}

// QueryError creates a query validation error.
func QueryError(message string, cause error) *OmniError {
	return New(ErrCodeInvalidQuery, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *OmniError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if ae, ok := err.(*OmniError); ok {
		return ae.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the code from an OmniError, empty otherwise.
func GetCode(err error) string {
	if ae, ok := err.(*OmniError); ok {
		return ae.Code
	}
	return ""
}
