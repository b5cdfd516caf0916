package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"cinema_storefront/constants"
)

// NetworkError is a transport failure: no HTTP response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-2xx answer; Message comes from the body's "error" field.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// ConflictError is a RemoteError meaning the seat is held by someone else.
type ConflictError struct {
	*RemoteError
}

func (e *ConflictError) Unwrap() error {
	return e.RemoteError
}

func newRemoteError(status int, message string) error {
	remote := &RemoteError{Status: status, Message: message}
	if message == constants.SEAT_ALREADY_RESERVED || status == http.StatusConflict {
		return &ConflictError{RemoteError: remote}
	}
	return remote
}

func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// Message returns the text to show for err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	if err == nil {
		return fallback
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
