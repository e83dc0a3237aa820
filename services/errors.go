package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets a record that does
// not exist. Controllers map it to 404.
var ErrNotFound = errors.New("record not found")

// ErrUnauthorized is returned when no authenticated user is attached to
// the request context.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError marks malformed input or malformed provider output.
// Rejecting bad provider payloads outright beats silently coercing to
// zero, which would corrupt the running totals without a trace.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Msg)
	}
	return "validation failed: " + e.Msg
}

// AnalysisError wraps a failed or undecodable vision-provider response.
// Never retried automatically within the same request.
type AnalysisError struct {
	Msg string
	Err error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Msg, e.Err)
	}
	return "analysis failed: " + e.Msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// DeliveryError wraps a per-reminder SMS dispatch failure. It is logged
// and isolated; it never aborts the rest of a delivery tick.
type DeliveryError struct {
	ReminderID uint
	Err        error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed for reminder %d: %v", e.ReminderID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
