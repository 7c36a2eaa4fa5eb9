// Package errs defines the error taxonomy shared by the simulation core.
// Every operation validates before it mutates, so a returned error means the
// store is unchanged for that call.
package errs

import "fmt"

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Kind string // "driver", "rider" or "ride"
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError signals a duplicate id or the deletion of an entity still
// referenced by a non-terminal ride.
type ConflictError struct {
	Msg string
}

func (e ConflictError) Error() string { return e.Msg }

// InvalidStateError signals an operation attempted on an entity whose status
// does not admit it, such as responding to a ride that is not assigned.
type InvalidStateError struct {
	Msg string
}

func (e InvalidStateError) Error() string { return e.Msg }

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(kind, id string) error { return NotFoundError{Kind: kind, ID: id} }

// Conflictf builds a ConflictError from a format string.
func Conflictf(format string, args ...any) error {
	return ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStatef builds an InvalidStateError from a format string.
func InvalidStatef(format string, args ...any) error {
	return InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}
