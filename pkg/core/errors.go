package core

import (
	"errors"
	"strings"
)

// Common errors.
var (
	ErrInvalidID   = errors.New("invalid note id")
	ErrNotFound    = errors.New("note not found")
	ErrValidation  = errors.New("title and content are required")
	ErrStore       = errors.New("storage failure")
	ErrCorrupt     = errors.New("persisted collection is not valid")
	ErrReadOnly    = errors.New("store is in read-only mode")
	ErrLockTimeout = errors.New("timed out waiting for store lock")
)

// ValidationError lists the input fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ErrorKind classifies an error for the caller (CLI exit codes, response mapping).
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindInvalidID  ErrorKind = "invalid_id"
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindStore      ErrorKind = "store"
)

// Kind maps err onto the error taxonomy. Anything unknown is a store failure.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidID):
		return KindInvalidID
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindStore
	}
}

// Message returns the short human-readable text for err.
// Store failures never leak their details; those belong in the log.
func Message(err error) string {
	switch Kind(err) {
	case KindNone:
		return ""
	case KindInvalidID:
		return ErrInvalidID.Error()
	case KindNotFound:
		return ErrNotFound.Error()
	case KindValidation:
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ve.Error()
		}
		return ErrValidation.Error()
	default:
		if errors.Is(err, ErrReadOnly) {
			return ErrReadOnly.Error()
		}
		return "internal error"
	}
}
