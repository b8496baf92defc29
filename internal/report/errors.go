package report

import (
	"errors"
	"strings"
)

// ValidationError lists every required field the caller left out. It is the
// only error a caller can fix by resubmitting.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	paths := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		paths[i] = fe.Path
	}
	return "report: invalid request: missing " + strings.Join(paths, ", ")
}

// GenerationError means the text backend failed or returned nothing. No
// report was stored and no email was sent.
type GenerationError struct{ Err error }

func (e *GenerationError) Error() string { return "report: generate: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError means the store write failed. No email was sent.
type PersistenceError struct{ Err error }

func (e *PersistenceError) Error() string { return "report: persist: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// DeliveryError means the email could not be sent. The report is already
// stored; it is not rolled back.
type DeliveryError struct{ Err error }

func (e *DeliveryError) Error() string { return "report: deliver: " + e.Err.Error() }
func (e *DeliveryError) Unwrap() error { return e.Err }

// Stage names the pipeline step err came from, for logs.
func Stage(err error) string {
	var (
		ve *ValidationError
		ge *GenerationError
		pe *PersistenceError
		de *DeliveryError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ge):
		return "generation"
	case errors.As(err, &pe):
		return "persistence"
	case errors.As(err, &de):
		return "delivery"
	default:
		return "unknown"
	}
}
