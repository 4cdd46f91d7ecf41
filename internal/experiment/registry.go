package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/metrics"
	"github.com/san-kum/forque/internal/physics"
)

// SceneBuilder lays out the initial world for a configuration.
type SceneBuilder func(cfg *config.Config) (*dynamo.World, error)

type Registry struct {
	scenes map[string]SceneBuilder
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes: make(map[string]SceneBuilder),
	}

	r.scenes["pair"] = func(cfg *config.Config) (*dynamo.World, error) {
		return physics.ReferencePair(cfg.Params())
	}
	r.scenes["mirrored"] = func(cfg *config.Config) (*dynamo.World, error) {
		return physics.MirroredPair(cfg.Params())
	}
	r.scenes["single"] = func(cfg *config.Config) (*dynamo.World, error) {
		return physics.SingleBody(cfg.Params())
	}
	r.scenes["ring"] = func(cfg *config.Config) (*dynamo.World, error) {
		return physics.Ring(cfg.Params(), cfg.Bodies)
	}

	return r
}

// Register adds or replaces a scene.
func (r *Registry) Register(name string, b SceneBuilder) {
	r.scenes[name] = b
}

func (r *Registry) GetScene(name string) (SceneBuilder, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(model *physics.Model) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(model),
		metrics.NewInvariants(),
		metrics.NewMinSeparation(),
	}
}
