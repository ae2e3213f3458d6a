package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when the same region already has a call in flight.
	ErrBusy = errors.New("dashboard: operation already in progress")
	// ErrNotOpen is returned when submitting or confirming a closed modal.
	ErrNotOpen = errors.New("dashboard: no form or prompt is open")
	// ErrNotFound is returned when an action names an unknown record.
	ErrNotFound = errors.New("dashboard: book not found")
)

// FailureKind separates failed loads from failed mutations.
type FailureKind string

const (
	LoadFailure     FailureKind = "load"
	MutationFailure FailureKind = "mutation"
)

// Failure wraps a store error with the operation that produced it.
type Failure struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("dashboard: %s %s failed: %v", f.Kind, f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsFailure reports whether err carries a Failure of the given kind.
func IsFailure(err error, kind FailureKind) bool {
	var failure *Failure
	return errors.As(err, &failure) && failure.Kind == kind
}
