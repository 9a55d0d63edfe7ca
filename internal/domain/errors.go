package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes; the raw data-layer error never reaches a response body.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError marks bad or missing input, including illegal lifecycle
// transitions.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	var te *TransitionError
	return errors.As(err, &ve) || errors.As(err, &te)
}

// TransitionError identifies an illegal booking status transition.
type TransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

// ConflictError marks a double-booking attempt.
type ConflictError struct {
	UnitID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unit %d already booked for the requested dates", e.UnitID)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// UpstreamError wraps a failure from an external collaborator (payment
// gateway, lock provider, mail).
type UpstreamError struct {
	System string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.System, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
