package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/ga"
	"github.com/san-kum/forque/internal/integrators"
)

// Divergence is the separation history of a world and a slightly displaced
// copy of it.
type Divergence struct {
	Times      []float64
	Separation []float64
	// Exponent is the least-squares growth rate of ln(separation). A
	// clearly positive value means nearby trajectories fly apart.
	Exponent float64
}

// TrajectoryDivergence displaces body 0 of a clone of w by perturbation
// along the first axis, runs both worlds for frames frames and records the
// largest center distance between matching bodies. w itself is not
// modified.
func TrajectoryDivergence(w *dynamo.World, perturbation float64, frames int) (*Divergence, error) {
	if perturbation <= 0 {
		return nil, fmt.Errorf("%w: perturbation must be positive, got %v", dynamo.ErrParameterBounds, perturbation)
	}
	if len(w.Bodies) == 0 {
		return nil, fmt.Errorf("%w: world has no bodies", dynamo.ErrParameterBounds)
	}

	a := w.Clone()
	b := w.Clone()
	shift := a.Alg.Scalar(1).Add(a.Alg.Blade(ga.Mask(0, 1), -0.5*perturbation))
	b.Bodies[0].Motor = shift.Mul(b.Bodies[0].Motor).NormalizedMotor()

	ia := integrators.NewSymplectic(a)
	ib := integrators.NewSymplectic(b)
	frameTime := a.Params.Dt * float64(a.Params.Substeps)

	d := &Divergence{
		Times:      make([]float64, 0, frames),
		Separation: make([]float64, 0, frames),
	}
	for f := 1; f <= frames; f++ {
		ia.Frame(a)
		ib.Frame(b)
		if !a.IsValid() || !b.IsValid() {
			return d, &dynamo.SimulationError{Frame: f, Time: float64(f) * frameTime, Wrapped: dynamo.ErrInvalidState}
		}
		d.Times = append(d.Times, float64(f)*frameTime)
		d.Separation = append(d.Separation, separation(a, b))
	}

	d.Exponent = growthRate(d.Times, d.Separation, perturbation)
	return d, nil
}

func separation(a, b *dynamo.World) float64 {
	worst := 0.0
	for i := range a.Bodies {
		ca, cb := a.Bodies[i].Center(), b.Bodies[i].Center()
		sum := 0.0
		for k := range ca {
			sum += (ca[k] - cb[k]) * (ca[k] - cb[k])
		}
		worst = math.Max(worst, math.Sqrt(sum))
	}
	return worst
}

// growthRate fits ln(sep/d0) = λt through the origin.
func growthRate(times, sep []float64, d0 float64) float64 {
	num, den := 0.0, 0.0
	for i, t := range times {
		if sep[i] <= 0 {
			continue
		}
		num += t * math.Log(sep[i]/d0)
		den += t * t
	}
	if den == 0 {
		return 0
	}
	return num / den
}
