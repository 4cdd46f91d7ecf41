package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/sim"
)

// Experiment ties a configuration to the simulator built from it.
type Experiment struct {
	// ValidateState stops a run at the first NaN or Inf. On by default.
	ValidateState bool

	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{ValidateState: true, cfg: cfg, registry: registry}
}

// Setup validates the configuration, builds the scene and attaches the
// default metrics plus any extra ones.
func (e *Experiment) Setup(extra ...dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	build, err := e.registry.GetScene(e.cfg.Scene)
	if err != nil {
		return err
	}
	w, err := build(e.cfg)
	if err != nil {
		return fmt.Errorf("scene %s: %w", e.cfg.Scene, err)
	}

	opts := sim.DefaultOptions()
	opts.Floor = e.cfg.Floor
	opts.Display = e.cfg.Display

	e.simulator = sim.New(w, opts)
	for _, m := range e.registry.DefaultMetrics(e.simulator.Model()) {
		e.simulator.AddMetric(m)
	}
	for _, m := range extra {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.RunConfig{
		Frames:        e.cfg.Frames,
		ValidateState: e.ValidateState,
		Start:         time.Now(),
	})
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
