// Package apperrors defines the error taxonomy shared by services and handlers:
// validation, not-found, resource conflict and server errors.
package apperrors

import (
	"errors"
	"fmt"
	"time"

	"infinite-experiment/flightdeck/internal/constants"
)

// Kind classifies an application error.
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "server"
	}
}

// ConflictDetail identifies what a request collided with so the caller can
// explain the failure to an end user.
type ConflictDetail struct {
	ConflictingTicketID   *int64     `json:"conflicting_ticket_id,omitempty"`
	ConflictingInstanceID *int64     `json:"conflicting_instance_id,omitempty"`
	GateID                *int64     `json:"gate_id,omitempty"`
	Departure             *time.Time `json:"departure,omitempty"`
	Arrival               *time.Time `json:"arrival,omitempty"`
}

// Error is the concrete application error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Detail  *ConflictDetail
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: constants.ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, e.g. NotFound("flight instance", 5).
func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Code: constants.ErrCodeNotFound, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

// Conflict reports a business-rule violation.
func Conflict(code, message string, detail *ConflictDetail) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message, Detail: detail}
}

// Server wraps an unexpected failure. The cause is kept for logging only.
func Server(err error, message string) *Error {
	return &Error{Kind: KindServer, Code: constants.ErrCodeServer, Message: message, Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err; anything that is not an *Error is a server error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindServer
}

func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return err != nil && KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == KindConflict }

// HasCode reports whether err is an *Error carrying code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
