package hypervoice

import (
	"errors"
	"fmt"
)

// StatusTransportFailure is reported by StatusCode when no response was received.
const StatusTransportFailure = 0

var ErrInvalidRequest = errors.New("invalid request")

// TransportError means the request was not sent or no complete response arrived.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError carries a non-200 response and its raw body.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status code %d, err - %s", e.Op, e.StatusCode, e.Body)
}

// MalformedResponseError is a 200 response without a usable audio_url.
type MalformedResponseError struct {
	Op     string
	Body   string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Reason)
}

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// StatusCode extracts the HTTP status of a failed call. Transport failures
// report StatusTransportFailure; errors outside the taxonomy report -1.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return StatusTransportFailure
	}

	return -1
}
