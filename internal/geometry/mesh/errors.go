package mesh

import (
	"errors"
	"fmt"
)

// Contract violations. The builder panics with these; they indicate a
// generator whose counting pass disagrees with its emission pass.
var (
	ErrCapacityExceeded = errors.New("submesh capacity exceeded")
	ErrCapacityMismatch = errors.New("submesh not filled to declared capacity")
	ErrUndeclared       = errors.New("submesh not declared")
)

// CapacityError describes a cursor that ran past, or stopped short of, its declaration.
type CapacityError struct {
	Submesh  string
	Buffer   string // "vertex" or "index"
	Capacity int
	Cursor   int
	Err      error
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("submesh %q %s buffer: cursor %d, capacity %d: %v",
		e.Submesh, e.Buffer, e.Cursor, e.Capacity, e.Err)
}

func (e *CapacityError) Unwrap() error {
	return e.Err
}
