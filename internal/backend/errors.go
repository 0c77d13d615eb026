package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a backend failure.
type Kind int

const (
	// KindTransport means no response was obtained.
	KindTransport Kind = iota + 1
	// KindBackend means the service answered with a non-success status.
	KindBackend
	// KindMalformed means a success status with a body missing expected fields.
	KindMalformed
	// KindCanceled means the caller abandoned the request.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindBackend:
		return "backend"
	case KindMalformed:
		return "malformed response"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned by every Backend implementation.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error, classifying context errors as KindCanceled.
func NewError(op string, kind Kind, err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = KindCanceled
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Malformed reports a success response that lacks what op needs.
func Malformed(op, format string, args ...any) *Error {
	return &Error{Op: op, Kind: KindMalformed, Err: fmt.Errorf(format, args...)}
}

// IsCanceled reports whether err comes from an abandoned request.
func IsCanceled(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind == KindCanceled
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// UserMessage returns the single human-readable string shown for err.
// A service-provided message wins; fallback covers service failures without one.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var be *Error
	if !errors.As(err, &be) {
		if fallback != "" {
			return fallback
		}
		return err.Error()
	}

	switch be.Kind {
	case KindBackend:
		if be.Message != "" {
			return be.Message
		}
		if fallback != "" {
			return fallback
		}
		return fmt.Sprintf("The advisory service failed with status %d.", be.Status)
	case KindTransport:
		return "Could not reach the advisory service. Please check your connection and try again."
	case KindMalformed:
		return "The advisory service returned an unexpected response. Please try again."
	case KindCanceled:
		return "The request was canceled."
	default:
		return fallback
	}
}
