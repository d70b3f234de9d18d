package opencorp

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every error raised before a request is sent.
var ErrConfiguration = errors.New("configuration error")

// Configuration errors. Each one matches ErrConfiguration through errors.Is.
var (
	ErrMissingTerm       = &configError{msg: "a search term is required"}
	ErrMissingIdentifier = &configError{msg: "at least one identifier is required"}
	ErrUnsupportedType   = &configError{msg: "object type not supported"}
	ErrUnknownVersion    = &configError{msg: "unknown API version"}
	ErrMalformedRoute    = &configError{msg: "malformed route"}
	ErrBaseURLRequired   = &configError{msg: "base URL is required"}
	ErrConfigRequired    = &configError{msg: "config is required"}
)

// Static errors for err113 compliance.
var (
	ErrSearchFailed      = errors.New("search request failed")
	ErrPageOutOfRange    = errors.New("page out of range")
	ErrCacheMiss         = errors.New("key not found")
	ErrCacheEntryExpired = errors.New("entry expired")
	ErrCacheDisabled     = errors.New("cache disabled")
)

type configError struct {
	msg string
}

func (e *configError) Error() string {
	return e.msg
}

func (e *configError) Is(target error) bool {
	return target == ErrConfiguration
}

// UnsupportedTypeError reports an object type missing from a version's allow-list.
type UnsupportedTypeError struct {
	Operation  string
	ObjectType string
	Version    string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: `%s` not available for %s in v%s", ErrUnsupportedType, e.ObjectType, e.Operation, e.Version)
}

// Unwrap returns ErrUnsupportedType.
func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// MalformedRouteError is returned when a URL, route or path segment cannot be parsed.
type MalformedRouteError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *MalformedRouteError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedRoute, e.Input, e.Reason)
}

// Unwrap returns ErrMalformedRoute.
func (e *MalformedRouteError) Unwrap() error {
	return ErrMalformedRoute
}

// TransportError wraps a network-level failure. HTTP statuses are never
// reported through it.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that does not match the expected envelope.
type ParseError struct {
	URL    string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing response from %s: %s: %v", e.URL, e.Reason, e.Err)
	}

	return fmt.Sprintf("parsing response from %s: %s", e.URL, e.Reason)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// SearchError is returned when a search page comes back with a status other
// than 200.
type SearchError struct {
	Response *Response
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	if e.Response == nil {
		return ErrSearchFailed.Error()
	}

	return fmt.Sprintf("%s: %s returned status %d", ErrSearchFailed, e.Response.URL, e.Response.StatusCode)
}

// Unwrap returns ErrSearchFailed.
func (e *SearchError) Unwrap() error {
	return ErrSearchFailed
}

// StatusCode returns the status of the failed page, or 0.
func (e *SearchError) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// IsConfigurationError checks if the error was raised before any request.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsTransportError checks if the error is a network-level failure.
func IsTransportError(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// IsParseError checks if the error is a malformed response.
func IsParseError(err error) bool {
	parseErr := &ParseError{}

	return errors.As(err, &parseErr)
}
