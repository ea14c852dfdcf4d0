package api

import (
	"errors"
	"fmt"
)

// ConfigurationError means a request could not be built before any network
// I/O: the base URL is missing or malformed, or the payload cannot be
// encoded. A missing base URL is a packaging defect and main treats it as
// fatal.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NetworkErrorKind classifies transport and status failures.
type NetworkErrorKind int

const (
	// KindAuth covers 401-500 responses without a server detail message.
	KindAuth NetworkErrorKind = iota + 1
	// KindBadRequest covers 501-599 responses without a server detail message.
	KindBadRequest
	// KindFailed covers every other status, including a missing response.
	KindFailed
	KindOffline
	// KindNoData is a success status with an empty body.
	KindNoData
	KindDecode
)

func (k NetworkErrorKind) String() string {
	switch k {
	case KindAuth:
		return "authentication"
	case KindBadRequest:
		return "bad request"
	case KindFailed:
		return "failed"
	case KindOffline:
		return "offline"
	case KindNoData:
		return "no data"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NetworkError is a classified failure of one request.
type NetworkError struct {
	Kind   NetworkErrorKind
	Status int
	Cause  error
}

func (e *NetworkError) Error() string {
	msg := "network error: " + e.Kind.String()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// ServerMessageError carries the server's human-readable detail string. Its
// Error is exactly that string.
type ServerMessageError struct {
	Status  int
	Message string
}

func (e *ServerMessageError) Error() string { return e.Message }

// WrappedError keeps any other underlying failure, description intact.
type WrappedError struct {
	Err error
}

func (e *WrappedError) Error() string { return e.Err.Error() }

func (e *WrappedError) Unwrap() error { return e.Err }

// IsKind reports whether err is a NetworkError of the given kind.
func IsKind(err error, kind NetworkErrorKind) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Kind == kind
}
