package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ConfigError reports invalid client configuration: missing credentials, a
// malformed host or an unknown output mode.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// EncodingError reports a parameter value that cannot be serialized. It is
// returned before any request is sent.
type EncodingError struct {
	Key    string
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cannot encode parameters: %s", e.Reason)
	}
	return fmt.Sprintf("cannot encode parameter %q: %s", e.Key, e.Reason)
}

// TransportError reports a failed exchange: the request could not be sent,
// or the server answered with a non-2xx status. StatusCode is 0 when no
// response was received.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed (status %d)", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Canceled reports whether the request was abandoned because its context
// was canceled.
func (e *TransportError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// Timeout reports whether the request ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ResponseParseError reports a body that is not valid JSON while a parsed
// output mode is active.
type ResponseParseError struct {
	Body []byte
	Err  error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("unexpected API response format (JSON decode failed): %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if the error is a configuration error.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsEncodingError checks if the error is a parameter encoding error.
func IsEncodingError(err error) bool {
	var e *EncodingError
	return errors.As(err, &e)
}

// IsTransportError checks if the error is a transport error.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsResponseParseError checks if the error is a response parse error.
func IsResponseParseError(err error) bool {
	var e *ResponseParseError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the server answered 404.
func IsNotFoundError(err error) bool {
	return StatusCode(err) == 404
}

// StatusCode returns the HTTP status carried by a TransportError, or 0.
func StatusCode(err error) int {
	var e *TransportError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
