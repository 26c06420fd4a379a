package actionkit

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned at construction when required credentials
// cannot be resolved from explicit arguments or the environment.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("actionkit: missing credentials: %s", strings.Join(e.Missing, ", "))
}

// TransportError is returned when the HTTP request could not be completed
// (DNS, connection, timeout).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("actionkit: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteAPIError is returned when ActionKit answers with a non-success status.
// It carries the status code and raw response body for diagnostics.
type RemoteAPIError struct {
	StatusCode int
	Body       []byte
}

func (e *RemoteAPIError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("actionkit: remote returned %d: %s", e.StatusCode, body)
}

// ParseError is returned when a successful response body cannot be decoded.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("actionkit: decode response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
