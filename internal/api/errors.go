package api

import (
	"errors"
	"fmt"
)

// Kind classifies every failure an operation can surface. The taxonomy is
// closed: views branch on Kind, never on error strings.
type Kind int

const (
	// KindNone marks the absence of an error.
	KindNone Kind = iota

	// KindValidation is a locally detected missing/blank required input.
	// It is raised before any network call and never by the backend.
	KindValidation

	// KindAuthExpired is a backend 401. The dispatcher has already cleared
	// the session and published the expiry signal by the time a caller
	// sees this kind.
	KindAuthExpired

	// KindNetwork means no response was received at all.
	KindNetwork

	// KindServer is any non-2xx response other than 401.
	KindServer

	// KindUnrecognizedShape means the response arrived but normalization
	// could not extract the declared payload shape. It indicates a backend
	// contract the client does not understand, so it is kept distinct from
	// ordinary server errors.
	KindUnrecognizedShape
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindAuthExpired:
		return "auth-expired"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindUnrecognizedShape:
		return "unrecognized-shape"
	default:
		return "unknown"
	}
}

// Error is the failure type produced by the dispatcher and normalizer.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status for KindServer/KindAuthExpired, else 0
	Message string // server-provided message when available, else a fallback
	cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ValidationError builds a KindValidation error for the given message.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf extracts the Kind from err, or KindNone for nil. Errors outside
// the taxonomy report KindNetwork: the only way an unclassified error
// reaches a view is a transport-level failure.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

// MessageOf extracts a user-presentable message from err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
