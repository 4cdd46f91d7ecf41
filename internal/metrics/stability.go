package metrics

import (
	"math"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/physics"
)

// Invariants records the worst normalization or grade residual seen. After
// each integrator phase both should stay at rounding level.
type Invariants struct {
	name  string
	worst float64
}

func NewInvariants() *Invariants {
	return &Invariants{name: "invariants"}
}

func (s *Invariants) Name() string { return s.name }

func (s *Invariants) Observe(w *dynamo.World, t float64) {
	norm, grade := w.Residuals()
	s.worst = math.Max(s.worst, math.Max(norm, grade))
	if !w.IsValid() {
		s.worst = math.Inf(1)
	}
}

func (s *Invariants) Value() float64 { return s.worst }

func (s *Invariants) Reset() { s.worst = 0 }

// MinSeparation records the closest approach of any two neighboring bodies.
type MinSeparation struct {
	name    string
	closest float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation", closest: math.Inf(1)}
}

func (s *MinSeparation) Name() string { return s.name }

func (s *MinSeparation) Observe(w *dynamo.World, t float64) {
	for i, b := range w.Bodies {
		for _, j := range b.Neighbors {
			if j > i {
				s.closest = math.Min(s.closest, physics.Separation(w, i, j))
			}
		}
	}
}

// Value is +Inf when no pair was observed.
func (s *MinSeparation) Value() float64 { return s.closest }

func (s *MinSeparation) Reset() { s.closest = math.Inf(1) }
