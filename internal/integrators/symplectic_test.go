package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/ga"
	"github.com/san-kum/forque/internal/physics"
)

func referenceParams(d int) dynamo.Params {
	return dynamo.Params{
		Dim:         d,
		Gravity:     -9.81,
		GravityAxis: 2,
		K:           16,
		RepK:        100,
		Dt:          1.0 / 600,
		Substeps:    10,
	}
}

func freeParams(d int) dynamo.Params {
	return dynamo.Params{Dim: d, GravityAxis: 2, Dt: 1.0 / 600, Substeps: 10}
}

func freeBody(t *testing.T, d int, motor, velocity ga.Multivector) *dynamo.World {
	t.Helper()
	alg := motor.Algebra()
	spring := dynamo.Spring{BodyAnchor: alg.Origin(), WorldAnchor: alg.Origin()}
	w, err := dynamo.NewWorld(freeParams(d), []dynamo.Body{dynamo.NewBody(motor, velocity, spring)})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestSymplectic_Invariants(t *testing.T) {
	for _, d := range []int{2, 3, 4} {
		w, err := physics.MirroredPair(referenceParams(d))
		if err != nil {
			t.Fatalf("d=%d: %v", d, err)
		}
		integ := NewSymplectic(w)
		for f := 0; f < 120; f++ {
			integ.Frame(w)

			norm, grade := w.Residuals()
			if norm > 1e-9 {
				t.Fatalf("d=%d frame %d: motor norm residual %g", d, f, norm)
			}
			if grade != 0 {
				t.Fatalf("d=%d frame %d: velocity grade residual %g", d, f, grade)
			}
			for i, b := range w.Bodies {
				if dist := b.Motor.Distance(b.Motor.Even()); dist != 0 {
					t.Fatalf("d=%d frame %d: body %d motor has odd part %g", d, f, i, dist)
				}
			}
		}
		if got, want := integ.Substeps(), 120*10; got != want {
			t.Errorf("d=%d: %d substeps, want %d", d, got, want)
		}
	}
}

func TestSymplectic_ZeroForceScrew(t *testing.T) {
	alg := ga.MustNew(3)
	m0 := physics.InitialMotor(alg)
	// Translation along the rotation axis: the body-frame velocity of a free
	// body stays constant.
	b0 := alg.Blade(ga.Mask(0, 3), 0.3).Add(alg.Blade(ga.Mask(1, 2), 0.2))

	w := freeBody(t, 3, m0, b0)
	integ := NewSymplectic(w)
	frames := 120
	for i := 0; i < frames; i++ {
		integ.Frame(w)
		if dist := w.Bodies[0].Velocity.Distance(b0); dist > 1e-12 {
			t.Fatalf("frame %d: velocity changed by %g: %s", i, dist, w.Bodies[0].Velocity)
		}
	}
	if got := integ.Substeps(); got < 1000 {
		t.Fatalf("only %d substeps taken", got)
	}

	body := w.Bodies[0]

	elapsed := float64(frames*w.Params.Substeps) * w.Params.Dt
	want := m0.NormalizedMotor().Mul(b0.Scale(-0.5 * elapsed).Exp())
	if dist := body.Motor.Distance(want); dist > 1e-6 {
		t.Errorf("motor %s, want %s (distance %g)", body.Motor, want, dist)
	}
}

func TestSymplectic_FreeFlight(t *testing.T) {
	alg := ga.MustNew(3)
	// Spinning in the e1e2 plane while moving along e1: the body-frame
	// velocity rotates, the world-frame path stays straight.
	b0 := alg.Blade(ga.Mask(0, 1), 0.5).Add(alg.Blade(ga.Mask(1, 2), 0.3))

	w := freeBody(t, 3, alg.Scalar(1), b0)
	integ := NewSymplectic(w)
	for i := 0; i < 60; i++ {
		integ.Frame(w)
	}

	c := w.Bodies[0].Center()
	want := []float64{0.5, 0, 0}
	for k := range want {
		if math.Abs(c[k]-want[k]) > 1e-3 {
			t.Errorf("center %v, want %v", c, want)
			break
		}
	}

	v := w.Bodies[0].Velocity
	if got := v.Coeff(ga.Mask(1, 2)); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("spin changed to %v", got)
	}
	speed := math.Hypot(v.Coeff(ga.Mask(0, 1)), v.Coeff(ga.Mask(0, 2)))
	if math.Abs(speed-0.5) > 1e-3 {
		t.Errorf("speed %v, want 0.5", speed)
	}
}

func TestSymplectic_MirrorSymmetry(t *testing.T) {
	for _, d := range []int{3, 4} {
		p := referenceParams(d)
		w, err := physics.MirroredPair(p)
		if err != nil {
			t.Fatalf("d=%d: %v", d, err)
		}
		s := physics.PairSymmetry(w.Alg, p.GravityAxis)

		integ := NewSymplectic(w)
		for i := 0; i < 300; i++ {
			integ.Frame(w)
		}

		b1, b2 := w.Bodies[0], w.Bodies[1]
		if dist := b2.Motor.Distance(s.Mul(b1.Motor)); dist > 1e-8 {
			t.Errorf("d=%d: M2 drifted from S·M1 by %g", d, dist)
		}
		if dist := b2.Velocity.Distance(b1.Velocity); dist > 1e-8 {
			t.Errorf("d=%d: B2 drifted from B1 by %g", d, dist)
		}
	}
}

func TestSymplectic_DampingDissipates(t *testing.T) {
	p := referenceParams(3)
	p.Damping = 0.5
	w, err := physics.SingleBody(p)
	if err != nil {
		t.Fatal(err)
	}
	integ := NewSymplectic(w)
	model := integ.Model()

	e0 := model.Energy(w).Total()
	for i := 0; i < 600; i++ {
		integ.Frame(w)
	}
	e1 := model.Energy(w).Total()

	if e1 >= e0 {
		t.Errorf("energy did not decrease: %v -> %v", e0, e1)
	}
	if k := model.Energy(w).Kinetic; k > 1 {
		t.Errorf("body still moving fast after 10s of damping: kinetic %v", k)
	}
}
