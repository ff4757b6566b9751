package relay

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies relay failures
type Kind string

const (
	KindInvalidRequest Kind = "invalid_request"
	KindConfiguration  Kind = "configuration"
	KindUpstream       Kind = "upstream"
	KindTransport      Kind = "transport"
	KindMalformed      Kind = "malformed"
)

const (
	// TransportErrorMessage is the only text a client sees for network, timeout or parse failures
	TransportErrorMessage = "Connection lost. Please check the server logs."
	// SilentReplyMessage is returned when the upstream answered without a completion
	SilentReplyMessage = "AI is silent. The provider returned no reply."
	// UpstreamErrorPrefix marks errors reported by the provider itself
	UpstreamErrorPrefix = "AI Error: "
)

// Error is a relay failure carrying the client-safe message and HTTP status
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, msg string, cause error) *Error {
	status := http.StatusBadRequest
	if kind == KindTransport || kind == KindMalformed {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: kind, Status: status, Message: msg, cause: cause}
}

// AsError converts any error into a relay *Error, treating unknown errors as transport failures
func AsError(err error) *Error {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr
	}
	return newError(KindTransport, TransportErrorMessage, err)
}

// UpstreamError is a structured error object returned by the provider
type UpstreamError struct {
	Message string
	Code    string
}

func (e *UpstreamError) Error() string {
	return "upstream error: " + e.Message
}

var (
	// ErrSilentReply means the upstream body had no completion content
	ErrSilentReply = errors.New("upstream reply has no completion content")
	// ErrInvalidBody means the upstream body was not JSON
	ErrInvalidBody = errors.New("upstream reply is not valid JSON")
)
