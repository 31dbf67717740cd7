package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceylonexplorer/rental-api/models"
)

// ErrorKind classifies facade failures. Callers branch on the kind, never on
// error text.
type ErrorKind int

// The error kinds surfaced by the store facade
const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindBackendUnavailable
	KindNotFound
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindBackendUnavailable:
		return "backend-unavailable"
	case KindNotFound:
		return "not-found"
	case KindTimeout:
		return "timeout"
	}
	return "unknown"
}

// Error is the typed error returned by the store facade. Conflicting is set
// for KindConflict so callers can report which booking blocked the request.
type Error struct {
	Kind        ErrorKind
	Message     string
	Conflicting *models.Booking
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func conflictError(b *models.Booking) *Error {
	return &Error{
		Kind:        KindConflict,
		Message:     fmt.Sprintf("selected dates are not available for this vehicle (conflict with %s booking)", b.Status),
		Conflicting: b,
	}
}

// IsKind reports whether err is a store Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// KindOf extracts the kind from a store Error
func KindOf(err error) (ErrorKind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// ConflictingBooking returns the booking that blocked a conflicting request
func ConflictingBooking(err error) *models.Booking {
	var se *Error
	if errors.As(err, &se) && se.Kind == KindConflict {
		return se.Conflicting
	}
	return nil
}

// classifyRemote maps a mongo driver error onto an ErrorKind using the
// driver's structured predicates. A context deadline is the caller's bounded
// wait expiring; driver-level timeouts and network errors mean the backend is
// unreachable; command code 13 is the managed deployment denying access.
func classifyRemote(err error) (ErrorKind, bool) {
	if err == nil {
		return 0, false
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return KindNotFound, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout, true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return KindBackendUnavailable, true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 13 {
		return KindBackendUnavailable, true
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 13 {
				return KindBackendUnavailable, true
			}
		}
	}
	return 0, false
}
