package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/ga"
	"github.com/san-kum/forque/internal/integrators"
	"github.com/san-kum/forque/internal/metrics"
	"github.com/san-kum/forque/internal/physics"
)

// Simulator drives one world frame by frame. It is single-threaded: one
// Advance per host frame, no locks.
type Simulator struct {
	world      *dynamo.World
	integrator *integrators.Symplectic
	monitor    *metrics.EnergyMonitor
	mesh       physics.Mesh
	plane      physics.Plane
	opts       Options
	frame      int
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(w *dynamo.World, opts Options) *Simulator {
	integ := integrators.NewSymplectic(w)
	return &Simulator{
		world:      w,
		integrator: integ,
		monitor:    metrics.NewEnergyMonitor(integ.Model()),
		mesh:       physics.Hypercube(w.Alg),
		plane:      physics.ReferencePlane(w.Alg, w.Params.GravityAxis, opts.Floor, opts.Floor),
		opts:       opts,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) World() *dynamo.World { return s.world }

func (s *Simulator) Monitor() *metrics.EnergyMonitor { return s.monitor }

func (s *Simulator) Model() *physics.Model { return s.integrator.Model() }

// Frames returns the number of frames advanced so far.
func (s *Simulator) Frames() int { return s.frame }

func (s *Simulator) Display() config.DisplayConfig { return s.opts.Display }

// SimTime is the simulated time elapsed over all frames so far.
func (s *Simulator) SimTime() float64 {
	return float64(s.integrator.Substeps()) * s.world.Params.Dt
}

// Advance runs one frame of substeps, records the energy at now and returns
// the snapshot to draw.
func (s *Simulator) Advance(now time.Time) Frame {
	s.integrator.Frame(s.world)
	s.frame++
	s.monitor.Update(s.world, now)

	t := s.SimTime()
	for _, m := range s.metrics {
		m.Observe(s.world, t)
	}
	for _, o := range s.observers {
		o.OnFrame(s.frame, t, s.world)
	}
	return s.Snapshot(now)
}

// Snapshot builds the current frame without stepping.
func (s *Simulator) Snapshot(now time.Time) Frame {
	f := Frame{
		Index:   s.frame,
		SimTime: s.SimTime(),
		Energy:  s.monitor.Current(),
		Bounds:  s.monitor.Bounds(),
		Labels:  s.monitor.Labels(now),
		Bodies:  make([]BodyFrame, len(s.world.Bodies)),
		Display: s.opts.Display,
	}
	if f.Bounds.Samples == 0 {
		f.Energy = s.monitor.Energy(s.world)
	}

	alg := s.world.Alg
	for i := range s.world.Bodies {
		f.Bodies[i] = s.bodyFrame(alg, &s.world.Bodies[i])
	}
	for _, c := range s.plane.Corners {
		f.Plane.Corners = append(f.Plane.Corners, Point(c))
	}
	return f
}

func (s *Simulator) bodyFrame(alg *ga.Algebra, b *dynamo.Body) BodyFrame {
	coords := func(p ga.Multivector) Point {
		x, _ := alg.Coords(b.Motor.Sandwich(p))
		return x
	}

	bf := BodyFrame{
		Center:   Point(b.Center()),
		Vertices: make([]Point, len(s.mesh.Vertices)),
		Edges:    s.mesh.Edges,
		Glyphs:   make([][2]Point, len(s.mesh.Vertices)),
	}
	for i, v := range s.mesh.Vertices {
		bf.Vertices[i] = coords(v)
		bf.Glyphs[i] = [2]Point{bf.Vertices[i], coords(physics.Glyph(v, b.Velocity, s.opts.GlyphScale))}
	}
	world, _ := alg.Coords(b.Spring.WorldAnchor)
	bf.Spring = [2]Point{world, coords(b.Spring.BodyAnchor)}
	return bf
}

// Run advances cfg.Frames frames headless and records the energy trace. The
// context is checked between frames only.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Frames < 0 {
		return nil, fmt.Errorf("%w: frames must be non-negative, got %d", dynamo.ErrParameterBounds, cfg.Frames)
	}

	result := &Result{
		Times:   make([]float64, 0, cfg.Frames+1),
		Energy:  make([]float64, 0, cfg.Frames+1),
		Heights: make([][]float64, 0, cfg.Frames+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	frameTime := time.Duration(float64(s.world.Params.Substeps) * s.world.Params.Dt * float64(time.Second))
	clock := cfg.Start

	initialEnergy := s.monitor.Energy(s.world)
	s.record(result, initialEnergy)

	var runErr error
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		clock = clock.Add(frameTime)
		f := s.Advance(clock)

		if cfg.ValidateState && !s.world.IsValid() {
			runErr = &dynamo.SimulationError{Frame: f.Index, Time: f.SimTime, Wrapped: dynamo.ErrInvalidState}
			break
		}

		s.record(result, f.Energy)
		result.FramesRun++
	}

	if n := len(result.Energy); n > 0 && initialEnergy != 0 {
		result.EnergyDrift = math.Abs(result.Energy[n-1]-initialEnergy) / math.Abs(initialEnergy)
	}
	result.Bounds = s.monitor.Bounds()
	result.Spread = s.monitor.RelativeSpread()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}

func (s *Simulator) record(r *Result, energy float64) {
	heights := make([]float64, len(s.world.Bodies))
	axis := s.world.Params.GravityAxis - 1
	for i := range s.world.Bodies {
		heights[i] = s.world.Bodies[i].Center()[axis]
	}
	r.Times = append(r.Times, s.SimTime())
	r.Energy = append(r.Energy, energy)
	r.Heights = append(r.Heights, heights)
}
