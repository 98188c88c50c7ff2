package request

import (
	"errors"
	"fmt"
)

// FallbackMessage is used when the server rejects a call without a message.
const FallbackMessage = "request failed"

var (
	ErrTransport = errors.New("request: transport failure")
	ErrAborted   = errors.New("request aborted")
	ErrDecode    = errors.New("request: malformed response")
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// APIError reports an envelope whose code is not the success code.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}
