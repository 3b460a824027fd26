package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Category identifies what kind of failure ended an invocation.
type Category string

const (
	Unauthorized      Category = "unauthorized"
	HTTPError         Category = "http_error"
	ConnectionError   Category = "connection_error"
	MalformedResponse Category = "malformed_response"
	FileNotFound      Category = "file_not_found"
	EmptyInput        Category = "empty_input"
	NoInput           Category = "no_input"
	Usage             Category = "usage"
	Interrupted       Category = "interrupted"
)

// Error is a categorized failure. Message is what the user sees.
type Error struct {
	Category   Category
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewUnauthorized() *Error {
	return &Error{
		Category:   Unauthorized,
		Message:    "Error: Unauthorized (401). Supply a token with --token <TOKEN> or set POSTHASTE_TOKEN.",
		StatusCode: http.StatusUnauthorized,
	}
}

// NewHTTPError reports a non-2xx response. detail is the server-provided
// error text and may be empty.
func NewHTTPError(status int, detail string) *Error {
	msg := fmt.Sprintf("Error: HTTP %d %s", status, http.StatusText(status))
	if detail != "" {
		msg += ": " + detail
	}
	return &Error{
		Category:   HTTPError,
		Message:    msg,
		StatusCode: status,
	}
}

func NewConnectionError(message string, cause error) *Error {
	return &Error{
		Category: ConnectionError,
		Message:  message,
		Cause:    cause,
	}
}

func NewMalformedResponse(detail string, cause error) *Error {
	return &Error{
		Category: MalformedResponse,
		Message:  "Error: Malformed response from server: " + detail,
		Cause:    cause,
	}
}

func NewFileNotFound(path string, cause error) *Error {
	return &Error{
		Category: FileNotFound,
		Message:  fmt.Sprintf("Error: File %s not found.", path),
		Cause:    cause,
	}
}

func NewEmptyInput(name string) *Error {
	return &Error{
		Category: EmptyInput,
		Message:  fmt.Sprintf("Error: File %s is empty.", name),
	}
}

func NewNoInput() *Error {
	return &Error{
		Category: NoInput,
		Message:  "Error: No input provided.",
	}
}

func NewUsage(message string, cause error) *Error {
	return &Error{
		Category: Usage,
		Message:  message,
		Cause:    cause,
	}
}

// NewInterrupted reports an upload stopped by SIGINT.
func NewInterrupted(cause error) *Error {
	return &Error{
		Category: Interrupted,
		Message:  "Error: Upload interrupted.",
		Cause:    cause,
	}
}

// CategoryOf returns the category of the first *Error in err's chain.
func CategoryOf(err error) (Category, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Category, true
	}
	return "", false
}

// IsCategory reports whether err carries the given category.
func IsCategory(err error, c Category) bool {
	got, ok := CategoryOf(err)
	return ok && got == c
}
