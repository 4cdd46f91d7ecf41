package integrators_test

import (
	"math"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/integrators"
	"github.com/san-kum/forque/internal/metrics"
	"github.com/san-kum/forque/internal/physics"
)

func reference(d int) dynamo.Params {
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

// runEnergy advances the reference pair and returns the monitor after the
// run.
func runEnergy(p dynamo.Params, frames int) *metrics.EnergyMonitor {
	w, err := physics.ReferencePair(p)
	Expect(err).NotTo(HaveOccurred())

	integ := integrators.NewSymplectic(w)
	mon := metrics.NewEnergyMonitor(integ.Model())
	clock := time.Unix(0, 0)

	mon.Update(w, clock)
	for f := 0; f < frames; f++ {
		integ.Frame(w)
		clock = clock.Add(time.Second / 60)
		mon.Update(w, clock)
	}
	return mon
}

// energyTrace returns the total energy of a mirrored pair after each of
// the given number of frames.
func energyTrace(dt float64, substeps, frames int) []float64 {
	p := reference(3)
	p.Dt, p.Substeps = dt, substeps
	w, err := physics.MirroredPair(p)
	Expect(err).NotTo(HaveOccurred())

	integ := integrators.NewSymplectic(w)
	trace := make([]float64, frames)
	for f := range trace {
		integ.Frame(w)
		trace[f] = integ.Model().Energy(w).Total()
	}
	return trace
}

func maxDifference(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

var _ = Describe("Symplectic", func() {
	Context("on the reference pair", func() {
		It("keeps the energy spread under 10% of the initial energy over 10000 frames", func() {
			if testing.Short() {
				Skip("long run")
			}
			mon := runEnergy(reference(3), 10000)

			Expect(mon.Initial()).To(BeNumerically("~", 134.75, 0.01))
			Expect(mon.Bounds().Spread()).To(BeNumerically("<", 0.1*math.Abs(mon.Initial())))
			Expect(math.IsNaN(mon.Current())).To(BeFalse())
		})

		It("keeps the energy spread small in four dimensions", func() {
			mon := runEnergy(reference(4), 600)
			Expect(mon.RelativeSpread()).To(BeNumerically("<", 0.1))
		})
	})

	Context("on the mirrored pair", func() {
		It("converges at second order as the substep shrinks at fixed frame length", func() {
			coarse := energyTrace(1.0/600, 10, 30)
			medium := energyTrace(1.0/1200, 20, 30)
			fine := energyTrace(1.0/2400, 40, 30)

			d1 := maxDifference(coarse, medium)
			d2 := maxDifference(medium, fine)
			Expect(d1).To(BeNumerically(">", 0))
			Expect(d1).To(BeNumerically("<", 1e-2))
			// Halving dt shrinks an O(dt²) error fourfold.
			Expect(d1 / d2).To(BeNumerically(">", 3.5))
		})
	})

	Context("at setup", func() {
		It("rejects coincident repelling bodies", func() {
			p := reference(3)
			w, err := physics.MirroredPair(p)
			Expect(err).NotTo(HaveOccurred())

			w.Bodies[1].Motor = w.Bodies[0].Motor
			Expect(w.Validate()).To(MatchError(dynamo.ErrCoincidentBodies))
		})

		It("accepts coincident bodies when repulsion is off", func() {
			p := reference(3)
			p.RepK = 0
			w, err := physics.MirroredPair(p)
			Expect(err).NotTo(HaveOccurred())

			w.Bodies[1].Motor = w.Bodies[0].Motor
			Expect(w.Validate()).To(Succeed())
		})
	})
})
