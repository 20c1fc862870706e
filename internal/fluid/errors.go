package fluid

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrOutOfBounds indicates an injection outside the grid.
	ErrOutOfBounds = errors.New("fluid: coordinates out of bounds")

	// ErrNonFinite indicates a field holds NaN or Inf after a stage.
	ErrNonFinite = errors.New("fluid: non-finite value in field")

	// ErrInvalidGrid indicates a grid parameter is outside its valid range.
	ErrInvalidGrid = errors.New("fluid: invalid grid parameters")
)

// CoordError reports a rejected injection.
type CoordError struct {
	X, Y int
	N    int
}

func (e *CoordError) Error() string {
	return fmt.Sprintf("fluid: cell (%d,%d) outside %dx%d grid", e.X, e.Y, e.N, e.N)
}

func (e *CoordError) Unwrap() error {
	return ErrOutOfBounds
}

// HealthError records the first non-finite value seen by the health check.
type HealthError struct {
	Step  int
	Stage Stage
	Field string
	Index int
	Value float64
}

func (e *HealthError) Error() string {
	return fmt.Sprintf("step %d (%s): %s[%d] = %v", e.Step, e.Stage, e.Field, e.Index, e.Value)
}

func (e *HealthError) Unwrap() error {
	return ErrNonFinite
}

// ParamError wraps ErrInvalidGrid with the offending parameter.
type ParamError struct {
	Param string
	Value any
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("fluid: invalid %s: %v", e.Param, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidGrid
}
