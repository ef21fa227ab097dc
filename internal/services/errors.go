package services

import (
	"errors"
	"fmt"
)

// ValidationError means the input was rejected before anything was written.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Entity, e.ID) }

// ConflictError reports a write refused because of the current row state,
// e.g. moving an already verified payment to rejected.
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

// PersistenceError wraps store failures; Op names the failed operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

var ErrInvalidCredentials = errors.New("invalid credentials")

// persistence passes domain errors through and wraps everything else.
func persistence(op string, err error) error {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ce) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
