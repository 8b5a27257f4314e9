package annotate

import (
	"fmt"
	"net/http"
	"strings"
)

// RequestError is a pre-stream failure with an HTTP-style status code.
// Once the response body has begun streaming these can no longer be
// produced; mid-stream failures are reported inline instead.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// ErrBadRequest builds a 400 error for malformed client input.
func ErrBadRequest(format string, args ...any) *RequestError {
	return &RequestError{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrNotFound builds a 404 error for unknown catalog values or jobs.
func ErrNotFound(format string, args ...any) *RequestError {
	return &RequestError{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrUnauthorized builds a 401 error for jobs the caller may not read.
func ErrUnauthorized(format string, args ...any) *RequestError {
	return &RequestError{
		Status:  http.StatusUnauthorized,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrInternal builds a 500 error for upstream failures that occur
// before the first byte is written.
func ErrInternal(format string, args ...any) *RequestError {
	return &RequestError{
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf(format, args...),
	}
}

// enumerate renders valid catalog values for error messages.
func enumerate(vals []string) string {
	return strings.Join(vals, ", ")
}
