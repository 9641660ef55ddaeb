// Package errors provides the error taxonomy shared by the beatmap cache.
// Sentinels are matched with errors.Is; typed errors carry context and
// report the sentinel they belong to through their Is method.
package errors

import (
	"errors"
	"fmt"
)

// New is an alias for the standard library errors.New.
var New = errors.New

// Is, As and Join re-export the standard library helpers so callers only need
// a single errors import.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

var (
	// ErrNotFound indicates that the catalog or the store has no such beatmap.
	ErrNotFound = errors.New("not found")

	// ErrServiceUnavailable indicates that the catalog service reports an outage.
	ErrServiceUnavailable = errors.New("catalog service unavailable")

	// ErrTransientHTTP indicates any other failed or timed out catalog call.
	ErrTransientHTTP = errors.New("transient catalog error")

	// ErrMalformedRecord indicates a catalog payload with a missing or invalid field.
	ErrMalformedRecord = errors.New("malformed catalog record")

	// ErrUnknownStatus indicates a ranked status outside the enumerated domain.
	ErrUnknownStatus = errors.New("unknown ranked status")
)

// APIError describes a failed call against the external catalog.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports ErrServiceUnavailable for 403 responses and ErrTransientHTTP otherwise.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 403 {
		return target == ErrServiceUnavailable
	}
	return target == ErrTransientHTTP
}

// MalformedRecordError represents a catalog record that failed parsing.
type MalformedRecordError struct {
	Field string
	Value string
	Err   error
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed catalog record: field %s=%q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed catalog record: field %s=%q", e.Field, e.Value)
}

// Unwrap implements errors.Unwrap
func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// NewMalformedRecordError creates a new MalformedRecordError
func NewMalformedRecordError(field, value string, err error) *MalformedRecordError {
	return &MalformedRecordError{Field: field, Value: value, Err: err}
}

// UnknownStatusError reports a ranked status value with no defined behavior.
type UnknownStatusError struct {
	Status int
}

// Error implements the error interface
func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown ranked status: %d", e.Status)
}

// Is implements errors.Is support
func (e *UnknownStatusError) Is(target error) bool {
	return target == ErrUnknownStatus
}
