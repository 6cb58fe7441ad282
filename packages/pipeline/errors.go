package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransportError reports a network-level failure: connection faults, deadline
// expiry, protocol errors, or a response body exceeding the buffering ceiling.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline expiry.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// StatusError reports a response outside the 2xx range. Body carries the full
// response text so callers can debug without a second round trip.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s: %s", e.Method, e.URL, e.Status, e.Body)
}

// DecodeError reports a 2xx body that did not parse into the requested shape.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
