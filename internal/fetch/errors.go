package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError reports a transport failure or a non-2xx response.
// StatusCode is 0 when no response was received.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("GET %s returned %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("GET %s returned %d", e.URL, e.StatusCode)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// DecodeError reports a response body that could not be parsed in the
// expected format (json, csv, html).
type DecodeError struct {
	URL    string
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s from %s: %v", e.Format, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNotFound reports whether err wraps a 404 response.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
