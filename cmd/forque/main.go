package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/forque/internal/config"
)

var (
	dataDir    string
	configFile string
	preset     string

	scene       string
	dim         int
	bodies      int
	gravity     float64
	gravityAxis int
	damping     float64
	springK     float64
	repulsionK  float64
	dt          float64
	substeps    int
	frames      int
	floor       float64

	validate     bool
	spreadWarn   float64
	outFile      string
	svgWidth     int
	svgHeight    int
	perturbation float64

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	grid       []string
	metricName string
)

// main registers the commands and runs the root command. With no
// subcommand it opens the live view of the reference scene.
func main() {
	rootCmd := &cobra.Command{
		Use:   "forque",
		Short: "rigid hypercubes in d dimensions, integrated in geometric algebra",
		RunE:  runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".forque", "data directory")
	addSceneFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store its energy trace",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&validate, "validate", true, "stop on NaN or Inf state")
	runCmd.Flags().Float64Var(&spreadWarn, "warn-spread", 0.1, "warn when relative energy spread exceeds this")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "run several presets side by side",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}
	compareCmd.Flags().Int("frames", config.DefaultFrames, "frames per run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time frame stepping across dimensions",
		Args:  cobra.NoArgs,
		RunE:  benchDimensions,
	}
	benchCmd.Flags().Int("frames", 120, "frames per dimension")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	divergeCmd := &cobra.Command{
		Use:   "diverge",
		Short: "measure how fast a displaced copy of the scene drifts away",
		Args:  cobra.NoArgs,
		RunE:  divergeScene,
	}
	addSceneFlags(divergeCmd)
	divergeCmd.Flags().Float64Var(&perturbation, "eps", 1e-6, "initial displacement of body 0")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addSceneFlags(configCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and body heights of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the energy trace of a run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "render the scene after --frames frames to SVG",
		Args:  cobra.NoArgs,
		RunE:  exportSVG,
	}
	addSceneFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "frame.svg", "output file")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a YAML scenario and store each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report energy conservation",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dt", "config key to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1.0/1200, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0/150, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters minimizing a run metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "key=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, benchCmd, analyzeCmd, divergeCmd, presetsCmd, configCmd,
		listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, scenarioCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addSceneFlags registers the flags that override a preset or config file.
func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&scene, "scene", config.DefaultScene, "scene: pair, mirrored, single or ring")
	f.IntVar(&dim, "dim", config.DefaultDim, "spatial dimension")
	f.IntVar(&bodies, "bodies", config.DefaultBodies, "body count (ring)")
	f.Float64Var(&gravity, "gravity", config.DefaultGravity, "downward gravitational acceleration")
	f.IntVar(&gravityAxis, "gravity-axis", config.DefaultGravityAxis, "axis gravity acts along (1-based)")
	f.Float64Var(&damping, "damping", 0, "drag coefficient")
	f.Float64Var(&springK, "spring-k", config.DefaultSpringK, "spring stiffness")
	f.Float64Var(&repulsionK, "repulsion-k", config.DefaultRepulsionK, "repulsion strength")
	f.Float64Var(&dt, "dt", config.DefaultDt, "substep length")
	f.IntVar(&substeps, "substeps", config.DefaultSubsteps, "substeps per frame")
	f.IntVar(&frames, "frames", config.DefaultFrames, "frames to run")
	f.Float64Var(&floor, "floor", config.DefaultFloor, "reference plane depth below the origin")
}
