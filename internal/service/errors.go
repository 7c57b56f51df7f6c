package service

import (
	"errors"
	"fmt"

	"github.com/templui/myprogress/internal/repository"
)

var (
	// ErrNotFound covers both a missing goal and a goal owned by someone else.
	ErrNotFound = errors.New("goal not found")
	// ErrStepNotFound is a not-found scoped to a step inside an owned goal.
	ErrStepNotFound = fmt.Errorf("step not found: %w", ErrNotFound)
)

// ValidationError reports caller data that fails a precondition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error()}
}

// PersistenceError wraps an unexpected store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// storeError maps repository errors onto the service taxonomy.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrGoalNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStepNotFound):
		return ErrStepNotFound
	default:
		return &PersistenceError{Op: op, Err: err}
	}
}

// outcome labels err for metrics.
func outcome(err error) string {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &validationErr):
		return "invalid"
	default:
		return "error"
	}
}
