package billing

import "fmt"

// NotFoundError reports a missing entity (service, invoice, payment,
// contract, template, template file). Mapped to 404 by the error middleware.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// NotFound builds a NotFoundError for the named entity.
func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// ValidationError reports bad input (missing field, non-positive amount,
// malformed date). Mapped to 400 by the error middleware.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StateConflictError is reserved for double-settlement races. Mapped to 409.
type StateConflictError struct {
	Msg string
}

func (e *StateConflictError) Error() string {
	return e.Msg
}
