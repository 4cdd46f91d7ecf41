package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/physics"
)

// Bounds are the running extremes of the total energy and the wall-clock
// times at which each was last extended.
type Bounds struct {
	Min, Max     float64
	MinAt, MaxAt time.Time
	Samples      int
}

// Spread is Max - Min, or 0 before the first sample.
func (b Bounds) Spread() float64 {
	if b.Samples == 0 {
		return 0
	}
	return b.Max - b.Min
}

// EnergyMonitor tracks the total energy of a world frame by frame. It owns
// its extremes; nothing else writes them.
type EnergyMonitor struct {
	model   *physics.Model
	current float64
	initial float64
	bounds  Bounds
}

// NewEnergyMonitor returns an empty monitor evaluating energy with model.
func NewEnergyMonitor(model *physics.Model) *EnergyMonitor {
	m := &EnergyMonitor{model: model}
	m.Reset()
	return m
}

// Energy evaluates the total energy of w without recording it.
func (m *EnergyMonitor) Energy(w *dynamo.World) float64 {
	return m.model.Energy(w).Total()
}

// Update evaluates the energy of w and records it at time now.
func (m *EnergyMonitor) Update(w *dynamo.World, now time.Time) float64 {
	e := m.Energy(w)
	m.Observe(e, now)
	return e
}

// Observe records one energy sample. A new extreme moves its timestamp.
func (m *EnergyMonitor) Observe(e float64, now time.Time) {
	if m.bounds.Samples == 0 {
		m.initial = e
	}
	m.current = e
	m.bounds.Samples++
	if e > m.bounds.Max {
		m.bounds.Max = e
		m.bounds.MaxAt = now
	}
	if e < m.bounds.Min {
		m.bounds.Min = e
		m.bounds.MinAt = now
	}
}

// Current is the most recent sample.
func (m *EnergyMonitor) Current() float64 { return m.current }

// Initial is the first sample since the last Reset.
func (m *EnergyMonitor) Initial() float64 { return m.initial }

// Bounds returns the extremes seen so far.
func (m *EnergyMonitor) Bounds() Bounds { return m.bounds }

// RelativeSpread is (Max - Min) / |E₀|.
func (m *EnergyMonitor) RelativeSpread() float64 {
	if m.initial == 0 {
		return 0
	}
	return m.bounds.Spread() / math.Abs(m.initial)
}

// Labels renders the three diagnostic lines: maximum, current and minimum
// energy. Each extreme carries the time elapsed since it was last extended.
func (m *EnergyMonitor) Labels(now time.Time) [3]string {
	if m.bounds.Samples == 0 {
		return [3]string{"Emax = -", "E    = -", "Emin = -"}
	}
	return [3]string{
		fmt.Sprintf("Emax = %.6f %s", m.bounds.Max, Since(now, m.bounds.MaxAt)),
		fmt.Sprintf("E    = %.6f", m.current),
		fmt.Sprintf("Emin = %.6f %s", m.bounds.Min, Since(now, m.bounds.MinAt)),
	}
}

// Reset forgets every sample.
func (m *EnergyMonitor) Reset() {
	m.current = 0
	m.initial = 0
	m.bounds = Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Since formats the whole minutes and seconds between then and now as
// "Xmin Ys".
func Since(now, then time.Time) string {
	s := int(now.Sub(then) / time.Second)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%dmin %ds", s/60, s%60)
}
