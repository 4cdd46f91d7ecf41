package physics

import (
	"math"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/ga"
)

// Model evaluates the forque acting on each body of a world. All forques are
// body-frame lines; the velocity update is Ḃ = UnDual(F).
//
// Model is stateless apart from cached constants, so every method is a pure
// function of its arguments.
type Model struct {
	alg     *ga.Algebra
	origin  ga.Multivector
	gravity ga.Multivector

	Damping float64
	K       float64
	RepK    float64
}

// NewModel builds a force model for the parameters of w.
func NewModel(w *dynamo.World) *Model {
	return &Model{
		alg:     w.Alg,
		origin:  w.Alg.Origin(),
		gravity: w.GravityLine(),
		Damping: w.Params.Damping,
		K:       w.Params.K,
		RepK:    w.Params.RepK,
	}
}

// Gravity is the uniform field expressed in the body frame: Dual(M̃ g M).
func (m *Model) Gravity(motor ga.Multivector) ga.Multivector {
	return motor.Reverse().Mul(m.gravity).Mul(motor).Dual()
}

// DampingForce opposes the current velocity: -c·Dual(B).
func (m *Model) DampingForce(velocity ga.Multivector) ga.Multivector {
	if m.Damping == 0 {
		return m.alg.Zero()
	}
	return velocity.Dual().Scale(-m.Damping)
}

// Hooke is the spring line from the body anchor toward the world anchor
// pulled into the body frame, scaled by k.
func (m *Model) Hooke(motor ga.Multivector, s dynamo.Spring) ga.Multivector {
	if m.K == 0 {
		return m.alg.Zero()
	}
	w := motor.Reverse().Mul(s.WorldAnchor).Mul(motor)
	return s.BodyAnchor.Vee(w).Scale(m.K)
}

// RepulsionPair is the force on the body with motor mi due to the body with
// motor mj. It acts along the line through both centers, away from j, with
// magnitude repK/r².
//
// Coincident centers are a caller error; see dynamo.World.Validate.
func (m *Model) RepulsionPair(mi, mj ga.Multivector) ga.Multivector {
	q := m.otherCenter(mi, mj)
	line := q.Vee(m.origin)
	r := line.Norm()
	return line.Scale(m.RepK / (r * r * r))
}

// Repulsion sums RepulsionPair over the neighbors of body i.
func (m *Model) Repulsion(w *dynamo.World, i int) ga.Multivector {
	f := m.alg.Zero()
	if m.RepK == 0 {
		return f
	}
	b := &w.Bodies[i]
	for _, j := range b.Neighbors {
		f = f.Add(m.RepulsionPair(b.Motor, w.Bodies[j].Motor))
	}
	return f
}

// Forque is the total force line on body i: gravity, damping, spring and
// repulsion.
func (m *Model) Forque(w *dynamo.World, i int) ga.Multivector {
	b := &w.Bodies[i]
	f := m.Gravity(b.Motor)
	f = f.Add(m.DampingForce(b.Velocity))
	f = f.Add(m.Hooke(b.Motor, b.Spring))
	return f.Add(m.Repulsion(w, i))
}

// otherCenter returns the center of body j in the frame of body i, projected
// back onto the point grade.
func (m *Model) otherCenter(mi, mj ga.Multivector) ga.Multivector {
	world := mj.Sandwich(m.origin)
	return mi.Reverse().Mul(world).Mul(mi).Grade(m.alg.D)
}

// Energy terms below are twice the physical energy of a unit-mass,
// unit-inertia body, the same factor throughout.

// KineticEnergy is Vee(B, Dual B), the sum of squared velocity coefficients.
func (m *Model) KineticEnergy(velocity ga.Multivector) float64 {
	return velocity.Vee(velocity.Dual()).Scalar()
}

// SpringEnergy is |Hooke|²/k = k·r² for anchor separation r.
func (m *Model) SpringEnergy(motor ga.Multivector, s dynamo.Spring) float64 {
	if m.K == 0 {
		return 0
	}
	n := m.Hooke(motor, s).Norm()
	return n * n / m.K
}

// GravityEnergy is -2·g·h where h is the height of the body center along the
// gravity axis and g the signed acceleration.
func (m *Model) GravityEnergy(motor ga.Multivector, axis int, g float64) float64 {
	if g == 0 {
		return 0
	}
	x, _ := m.alg.Coords(motor.Sandwich(m.origin))
	return -2 * g * x[axis-1]
}

// RepulsionEnergy is repK/r summed over the neighbors of body i. A mutual
// pair is therefore counted once from each side.
func (m *Model) RepulsionEnergy(w *dynamo.World, i int) float64 {
	if m.RepK == 0 {
		return 0
	}
	e := 0.0
	b := &w.Bodies[i]
	for _, j := range b.Neighbors {
		r := m.otherCenter(b.Motor, w.Bodies[j].Motor).Vee(m.origin).Norm()
		e += m.RepK / r
	}
	return e
}

// Breakdown splits the total energy of a world into its terms.
type Breakdown struct {
	Kinetic   float64
	Spring    float64
	Gravity   float64
	Repulsion float64
}

// Total returns the sum of all terms.
func (b Breakdown) Total() float64 {
	return b.Kinetic + b.Spring + b.Gravity + b.Repulsion
}

// Energy evaluates every energy term over all bodies of w.
func (m *Model) Energy(w *dynamo.World) Breakdown {
	var e Breakdown
	p := w.Params
	for i := range w.Bodies {
		b := &w.Bodies[i]
		e.Kinetic += m.KineticEnergy(b.Velocity)
		e.Spring += m.SpringEnergy(b.Motor, b.Spring)
		e.Gravity += m.GravityEnergy(b.Motor, p.GravityAxis, p.Gravity)
		e.Repulsion += m.RepulsionEnergy(w, i)
	}
	return e
}

// Separation returns the distance between the centers of bodies i and j.
func Separation(w *dynamo.World, i, j int) float64 {
	a, b := w.Bodies[i].Center(), w.Bodies[j].Center()
	s := 0.0
	for k := range a {
		d := a[k] - b[k]
		s += d * d
	}
	return math.Sqrt(s)
}
