package service

import (
	"errors"
	"fmt"

	"taskboard/internal/store"
)

// Common sentinel errors for TaskService. These are the client-error
// kinds: they are surfaced as-is after rollback and never retried.
var (
	// ErrTaskNotFound indicates that the referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrValidation indicates malformed or business-rule-violating input,
	// e.g. a missing batch parameter or an unknown batch action.
	ErrValidation = errors.New("validation failed")
)

// TaskServiceError wraps unexpected errors from the task service with context.
// Business errors (ErrTaskNotFound, ErrValidation) are never wrapped in it;
// they pass through so callers can match them with errors.Is.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "batch_process")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Known business errors are returned directly without wrapping, and
// store-level sentinels are mapped to their service-level equivalents.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrValidation) {
		return err
	}

	// A missing owner keeps its identity so the response names the user,
	// not the task.
	if errors.Is(err, store.ErrUserNotFound) {
		return err
	}

	// Covers store.ErrTaskNotFound as well as the bare store.ErrNotFound
	// that bulk updates and deletes report when the row vanished between
	// the read and the write.
	if store.IsNotFoundError(err) {
		return ErrTaskNotFound
	}

	if errors.Is(err, store.ErrInvalidEntity) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
