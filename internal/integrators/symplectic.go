package integrators

import (
	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/ga"
	"github.com/san-kum/forque/internal/physics"
)

// Symplectic advances a world with a four-phase splitting per substep:
//
//  1. half position step   M ← M − dt/4·M B
//  2. full velocity step   B ← B + dt·UnDual(F)
//  3. half position step
//  4. gyroscopic sweep     B ← B + dt·c_j·e0j for each axis j
//
// Every phase runs over all bodies before the next one starts, so forces in
// phase 2 see one consistent set of poses. The sweep visits axes in
// ascending order on even substeps and descending order on odd ones.
type Symplectic struct {
	model   *physics.Model
	forques []ga.Multivector
	step    int
}

// NewSymplectic builds an integrator for the parameters of w.
func NewSymplectic(w *dynamo.World) *Symplectic {
	return &Symplectic{model: physics.NewModel(w)}
}

// Model returns the force model the integrator evaluates.
func (s *Symplectic) Model() *physics.Model { return s.model }

// Substeps returns the number of substeps taken so far.
func (s *Symplectic) Substeps() int { return s.step }

// Frame advances w by Params.Substeps substeps of Params.Dt.
func (s *Symplectic) Frame(w *dynamo.World) {
	for i := 0; i < w.Params.Substeps; i++ {
		s.Substep(w, w.Params.Dt)
	}
}

// Substep advances w by one substep of length dt.
func (s *Symplectic) Substep(w *dynamo.World, dt float64) {
	bodies := w.Bodies

	for i := range bodies {
		stepQ(&bodies[i], dt/2)
	}

	if cap(s.forques) < len(bodies) {
		s.forques = make([]ga.Multivector, len(bodies))
	}
	f := s.forques[:len(bodies)]
	for i := range bodies {
		f[i] = s.model.Forque(w, i)
	}
	for i := range bodies {
		stepP(&bodies[i], f[i], dt)
	}

	for i := range bodies {
		stepQ(&bodies[i], dt/2)
	}

	ascending := s.step%2 == 0
	for i := range bodies {
		stepQrot(&bodies[i], dt, ascending)
	}
	s.step++
}

// stepQ moves the motor along the current velocity, Ṁ = -½ M B, then
// restores unit norm and the bivector grade.
func stepQ(b *dynamo.Body, h float64) {
	m := b.Motor.AddScaled(-h/2, b.Motor.Mul(b.Velocity))
	b.Motor = m.NormalizedMotor()
	b.Velocity = b.Velocity.Grade(2)
}

func stepP(b *dynamo.Body, forque ga.Multivector, h float64) {
	b.Velocity = b.Velocity.AddScaled(h, forque.UnDual()).Grade(2)
}

// stepQrot applies the gyroscopic coupling of rotation into the linear
// velocity one axis at a time, recomputing the coupling after each axis.
func stepQrot(b *dynamo.Body, h float64, ascending bool) {
	alg := b.Velocity.Algebra()
	d := alg.D
	for n := 0; n < d; n++ {
		j := n + 1
		if !ascending {
			j = d - n
		}
		blade := ga.Mask(0, j)
		c := b.Velocity.Commutator(b.Velocity.Dual()).UnDual().Coeff(blade)
		if c != 0 {
			b.Velocity = b.Velocity.AddScaled(h*c, alg.Blade(blade, 1))
		}
	}
	b.Velocity = b.Velocity.Grade(2)
}
