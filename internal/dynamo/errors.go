package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for world setup and stepping.
var (
	// ErrInvalidState indicates a motor or velocity with NaN or Inf coefficients.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNeighborIndex indicates a neighbor list entry that does not name
	// another body of the same world.
	ErrNeighborIndex = errors.New("dynamo: neighbor index out of range")

	// ErrCoincidentBodies indicates two mutually repelling bodies share a
	// center. Repulsion is unbounded there, so this is a setup contract
	// violation rather than something the stepper recovers from.
	ErrCoincidentBodies = errors.New("dynamo: repelling bodies coincide")

	// ErrDimensionMismatch indicates an element built for a different algebra.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between body and world")
)

// SimulationError wraps an error with frame context.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
