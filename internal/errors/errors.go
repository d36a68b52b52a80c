package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
)

// Position locates an error inside a document. Zero fields are unknown.
type Position struct {
	Line   int
	Column int
}

// String renders the position as "line:column", or just the line when the
// column is unknown.
func (p Position) String() string {
	if p.Column > 0 {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%d", p.Line)
}

// Error is the structured error type for lexidx.
// It provides rich context for error handling, logging, and user presentation.
type Error struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Parse, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Position is the location inside a document, if known.
	Position *Position

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("[%s] %s (at %s)", e.Code, e.Message, e.Position)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with *Error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// WithPosition records where in a document the error occurred.
func (e *Error) WithPosition(line, column int) *Error {
	e.Position = &Position{Line: line, Column: column}
	return e
}

// Path returns the "path" detail, or "" when none was recorded.
func (e *Error) Path() string {
	return e.Details["path"]
}

// New creates a new Error with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O error for path, picking the code from the cause.
func IOError(path string, cause error) *Error {
	code := ErrCodeIO
	switch {
	case stderrors.Is(cause, fs.ErrNotExist):
		code = ErrCodeFileNotFound
	case stderrors.Is(cause, fs.ErrPermission):
		code = ErrCodeFilePermission
	}
	msg := path
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", path, cause)
	}
	return New(code, msg, cause).WithDetail("path", path)
}

// TraversalError creates a fatal directory-walk error for path.
func TraversalError(path string, cause error) *Error {
	return New(ErrCodeTraversalFailed, fmt.Sprintf("cannot traverse %s: %v", path, cause), cause).
		WithDetail("path", path)
}

// ExtractionError creates a recoverable malformed-document error.
func ExtractionError(path, message string, cause error) *Error {
	return New(ErrCodeMalformedDocument, fmt.Sprintf("%s: %s", path, message), cause).
		WithDetail("path", path)
}

// CorruptIndexError creates a parse error for a durable index file.
func CorruptIndexError(path, message string, cause error) *Error {
	return New(ErrCodeCorruptIndex, fmt.Sprintf("%s: %s", path, message), cause).
		WithDetail("path", path).
		WithSuggestion("Rebuild the index with 'lexidx index <folder>'")
}

// InvalidRequestError creates a parse error for a malformed request body.
func InvalidRequestError(message string, cause error) *Error {
	return New(ErrCodeInvalidRequest, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *Error {
	return New(ErrCodeInternal, message, cause)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if e, ok := As(err); ok {
		return e.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from an *Error in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// GetCategory extracts the category from an *Error in the chain.
func GetCategory(err error) Category {
	if e, ok := As(err); ok {
		return e.Category
	}
	return ""
}

// HTTPStatusCode maps an error to the status code a handler should reply with.
func HTTPStatusCode(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeCorruptIndex:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
