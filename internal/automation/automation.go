package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/experiment"
	"github.com/san-kum/forque/internal/sim"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run: a preset plus parameter overrides keyed by
// config field name.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Set    map[string]float64 `yaml:"set"`
	Frames int                `yaml:"frames"`
	SaveAs string             `yaml:"save_as"`
}

// StepResult pairs a step's effective configuration with its result.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepConfig resolves the configuration of one step.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	name := step.Preset
	if name == "" {
		name = "reference"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	for k, v := range step.Set {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	if step.Frames > 0 {
		cfg.Frames = step.Frames
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. It stops at the first failing
// step and returns the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		fmt.Printf("Running step %d/%d: %s (%s, %dD)\n", i+1, len(scenario.Steps), name, cfg.Scene, cfg.Dim)

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep runs one preset across evenly spaced values of a single
// config parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the energy diagnostics of one sweep point.
type SweepResult struct {
	ParamValue float64
	MinEnergy  float64
	MaxEnergy  float64
	Spread     float64
	Drift      float64
	Err        error
}

// RunSweep executes a parameter sweep. A failing point is recorded in its
// SweepResult rather than aborting the sweep; only cancellation does.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		val := sweep.ParamMin + float64(i)*paramStep
		r := SweepResult{ParamValue: val}

		cfg := sweep.Base.Clone()
		if err := cfg.Set(sweep.ParamName, val); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg, registry)
		if r.Err = exp.Setup(); r.Err == nil {
			var result *sim.Result
			result, r.Err = exp.Run(ctx)
			if result != nil {
				r.MinEnergy, r.MaxEnergy = result.Bounds.Min, result.Bounds.Max
				r.Spread, r.Drift = result.Spread, result.EnergyDrift
			}
		}
		results = append(results, r)
	}

	return results, nil
}
