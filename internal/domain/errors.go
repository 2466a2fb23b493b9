package domain

import "fmt"

// ValidationError is a user-correctable guard violation. The mutating
// operation that raised it is aborted entirely; nothing is persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StateConflictError reports a transition attempted from the wrong state,
// such as validating a quote that is no longer a draft.
type StateConflictError struct {
	Message string
}

func (e *StateConflictError) Error() string { return e.Message }

// StateConflictf builds a StateConflictError from a format string.
func StateConflictf(format string, args ...any) *StateConflictError {
	return &StateConflictError{Message: fmt.Sprintf(format, args...)}
}
