package dynamo

import (
	"fmt"
	"math"

	"github.com/san-kum/forque/internal/ga"
)

// MinSeparation is the center distance below which two repelling bodies
// are reported as coincident by Validate.
const MinSeparation = 1e-9

// Spring attaches a body-frame point to a fixed world-frame point.
type Spring struct {
	BodyAnchor  ga.Multivector
	WorldAnchor ga.Multivector
}

// Body is the per-body integrator state.
type Body struct {
	// Motor maps body coordinates to world coordinates: x_world = M x M̃.
	Motor ga.Multivector
	// Velocity is the body-frame rate bivector B with Ṁ = -½ M B.
	Velocity ga.Multivector
	Spring   Spring
	// Neighbors lists the indices of bodies this body is repelled by.
	Neighbors []int
}

// NewBody normalizes the motor and projects the velocity to a bivector.
func NewBody(motor, velocity ga.Multivector, spring Spring, neighbors ...int) Body {
	return Body{
		Motor:     motor.NormalizedMotor(),
		Velocity:  velocity.Grade(2),
		Spring:    spring,
		Neighbors: append([]int(nil), neighbors...),
	}
}

// Center returns the world position of the body origin.
func (b *Body) Center() []float64 {
	alg := b.Motor.Algebra()
	x, _ := alg.Coords(b.Motor.Sandwich(alg.Origin()))
	return x
}

// Params are the immutable simulation parameters.
type Params struct {
	Dim         int
	Gravity     float64 // signed acceleration along GravityAxis
	GravityAxis int     // 1-based
	Damping     float64
	K           float64
	RepK        float64
	Dt          float64
	Substeps    int
}

// World owns the body sequence. Neighbor lists index into Bodies.
type World struct {
	Alg    *ga.Algebra
	Params Params
	Bodies []Body

	gravity ga.Multivector
}

// NewWorld builds and validates a world.
func NewWorld(p Params, bodies []Body) (*World, error) {
	alg, err := ga.New(p.Dim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameterBounds, err)
	}
	if p.GravityAxis < 1 || p.GravityAxis > p.Dim {
		return nil, fmt.Errorf("%w: gravity axis %d outside 1..%d", ErrParameterBounds, p.GravityAxis, p.Dim)
	}

	w := &World{
		Alg:     alg,
		Params:  p,
		Bodies:  bodies,
		gravity: alg.IdealLine(p.GravityAxis, p.Gravity),
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// GravityLine is the world-frame gravity field g·e0∧e_axis.
func (w *World) GravityLine() ga.Multivector { return w.gravity }

// Validate checks parameter bounds, neighbor references, and the
// non-coincidence precondition of the repulsion force.
func (w *World) Validate() error {
	p := w.Params
	switch {
	case p.Dt <= 0 || math.IsNaN(p.Dt):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrParameterBounds, p.Dt)
	case p.Substeps < 1:
		return fmt.Errorf("%w: substeps must be at least 1, got %d", ErrParameterBounds, p.Substeps)
	case p.K < 0:
		return fmt.Errorf("%w: spring constant must be non-negative, got %v", ErrParameterBounds, p.K)
	case p.RepK < 0:
		return fmt.Errorf("%w: repulsion constant must be non-negative, got %v", ErrParameterBounds, p.RepK)
	case p.Damping < 0:
		return fmt.Errorf("%w: damping must be non-negative, got %v", ErrParameterBounds, p.Damping)
	}

	for i := range w.Bodies {
		b := &w.Bodies[i]
		for _, m := range []ga.Multivector{b.Motor, b.Velocity, b.Spring.BodyAnchor, b.Spring.WorldAnchor} {
			if m.Algebra() != w.Alg {
				return fmt.Errorf("%w: body %d", ErrDimensionMismatch, i)
			}
		}
		if !b.Motor.IsValid() || !b.Velocity.IsValid() {
			return fmt.Errorf("%w: body %d", ErrInvalidState, i)
		}
		for _, j := range b.Neighbors {
			if j < 0 || j >= len(w.Bodies) || j == i {
				return fmt.Errorf("%w: body %d lists %d", ErrNeighborIndex, i, j)
			}
			if p.RepK > 0 && distance(b.Center(), w.Bodies[j].Center()) < MinSeparation {
				return fmt.Errorf("%w: bodies %d and %d", ErrCoincidentBodies, i, j)
			}
		}
	}
	return nil
}

// IsValid reports whether every motor and velocity is finite.
func (w *World) IsValid() bool {
	for i := range w.Bodies {
		if !w.Bodies[i].Motor.IsValid() || !w.Bodies[i].Velocity.IsValid() {
			return false
		}
	}
	return true
}

// Residuals returns the largest deviation of any motor norm from 1 and the
// largest non-bivector part of any velocity.
func (w *World) Residuals() (norm, grade float64) {
	for i := range w.Bodies {
		b := &w.Bodies[i]
		norm = math.Max(norm, math.Abs(b.Motor.Norm()-1))
		grade = math.Max(grade, b.Velocity.GradeResidual(2))
	}
	return norm, grade
}

// Clone returns a deep copy. Multivectors are immutable values, so only the
// slices need copying.
func (w *World) Clone() *World {
	c := *w
	c.Bodies = make([]Body, len(w.Bodies))
	for i, b := range w.Bodies {
		b.Neighbors = append([]int(nil), b.Neighbors...)
		c.Bodies[i] = b
	}
	return &c
}

// Metric accumulates a diagnostic over the frames of a run.
type Metric interface {
	Name() string
	Observe(w *World, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every frame.
type Observer interface {
	OnFrame(frame int, t float64, w *World)
}

func distance(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}
