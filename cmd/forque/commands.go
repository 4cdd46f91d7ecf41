package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/forque/internal/analysis"
	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/experiment"
	"github.com/san-kum/forque/internal/export"
	"github.com/san-kum/forque/internal/sim"
	"github.com/san-kum/forque/internal/storage"
	"github.com/san-kum/forque/internal/viz"
)

// loadConfig resolves the effective configuration: defaults, then the
// preset, then the config file, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("scene") {
		cfg.Scene = scene
	}
	if f.Changed("dim") {
		cfg.Dim = dim
	}
	if f.Changed("bodies") {
		cfg.Bodies = bodies
	}
	if f.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if f.Changed("gravity-axis") {
		cfg.GravityAxis = gravityAxis
	}
	if f.Changed("damping") {
		cfg.Damping = damping
	}
	if f.Changed("spring-k") {
		cfg.SpringK = springK
	}
	if f.Changed("repulsion-k") {
		cfg.RepulsionK = repulsionK
	}
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if f.Changed("frames") {
		cfg.Frames = frames
	}
	if f.Changed("floor") {
		cfg.Floor = floor
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cfg *config.Config) (*experiment.Experiment, error) {
	exp := experiment.New(cfg, nil)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := setup(cfg)
	if err != nil {
		return err
	}
	exp.ValidateState = validate

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s in %dD (%d frames)...\n", cfg.Scene, cfg.Dim, cfg.Frames)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		if result == nil || result.FramesRun == 0 {
			return err
		}
		log.Printf("run stopped after %d frames: %v", result.FramesRun, err)
	}
	elapsed := time.Since(start)

	if result.Spread > spreadWarn {
		log.Printf("warning: energy spread %.2f%% exceeds %.2f%%", 100*result.Spread, 100*spreadWarn)
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	fmt.Printf("energy: [%.6f, %.6f] spread %.4f%%\n", result.Bounds.Min, result.Bounds.Max, 100*result.Spread)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	if len(result.Energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Energy,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("total energy"),
		))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	build := func() (*sim.Simulator, error) {
		exp, err := setup(cfg)
		if err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}
	return viz.Run(fmt.Sprintf("%s %dD", cfg.Scene, cfg.Dim), build)
}

func comparePresets(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("frames")

	batch := sim.NewBatch()
	cfgs := make(map[string]*config.Config, len(args))
	for _, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		exp, err := setup(cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		cfgs[name] = cfg
		batch.Add(name, exp.GetSimulator())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("comparing %d presets over %d frames...\n\n", batch.Len(), n)
	results, err := batch.Run(ctx, sim.RunConfig{Frames: n, ValidateState: true})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSCENE\tDIM\tE0\tE_END\tSPREAD\tDRIFT\tMIN_SEP")
	for _, name := range args {
		r, cfg := results[name], cfgs[name]
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4f\t%.4f%%\t%.2e\t%.3f\n",
			name,
			cfg.Scene,
			cfg.Dim,
			r.Energy[0],
			r.Energy[len(r.Energy)-1],
			100*r.Spread,
			r.Metrics["energy_drift"],
			r.Metrics["min_separation"],
		)
	}
	return w.Flush()
}

func benchDimensions(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("frames")

	fmt.Printf("benchmarking the mirrored pair, %d frames each\n\n", n)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIM\tBLADES\tVERTICES\tTIME\tFRAMES/SEC\tSPREAD")

	for d := 2; d <= 5; d++ {
		cfg := config.DefaultConfig()
		cfg.Dim = d
		cfg.Frames = n

		exp, err := setup(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.4f%%\n",
			d, 1<<(d+1), 1<<d, elapsed.Round(time.Millisecond),
			float64(result.FramesRun)/elapsed.Seconds(), 100*result.Spread)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, tr, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	if len(tr.Energy) < 4 {
		return fmt.Errorf("not enough samples to analyze: %d", len(tr.Energy))
	}

	rate := 1 / meta.Config.FrameTime()
	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s, %dD, %d samples at %.1f Hz\n\n", meta.Scene, meta.Config.Dim, len(tr.Energy), rate)

	ps := analysis.PowerSpectrum(tr.Energy)
	if plotData := ps[:max(len(ps)/4, 2)]; len(plotData) > 1 {
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("energy power spectrum"),
		))
		fmt.Println()
	}

	report := func(label string, data []float64) {
		f := analysis.DominantFrequency(data, rate)
		if f == 0 {
			fmt.Printf("%-8s no oscillation\n", label)
			return
		}
		fmt.Printf("%-8s %.3f Hz (period %.3f s)  %s\n", label, f, 1/f, viz.Sparkline(data, 40))
	}
	report("energy", tr.Energy)
	nb := 0
	if len(tr.Heights) > 0 {
		nb = len(tr.Heights[0])
	}
	for b := 0; b < nb; b++ {
		report(fmt.Sprintf("h%d", b), analysis.Column(tr.Heights, b))
	}

	if nb >= 2 {
		fmt.Println("\nheight of body 1 against body 0:")
		p := analysis.NewPortrait(analysis.Column(tr.Heights, 0), analysis.Column(tr.Heights, 1))
		fmt.Print(p.ToASCII(60, 16))
	}
	return nil
}

func divergeScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	build, err := experiment.NewRegistry().GetScene(cfg.Scene)
	if err != nil {
		return err
	}
	w, err := build(cfg)
	if err != nil {
		return err
	}

	d, err := analysis.TrajectoryDivergence(w, perturbation, cfg.Frames)
	if err != nil {
		return err
	}

	logSep := make([]float64, len(d.Separation))
	for i, s := range d.Separation {
		logSep[i] = math.Log10(math.Max(s, 1e-300))
	}
	if len(logSep) > 1 {
		fmt.Println(asciigraph.Plot(logSep,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("log10 separation"),
		))
		fmt.Println()
	}
	fmt.Printf("initial displacement: %.3g\n", perturbation)
	fmt.Printf("final separation:     %.3g\n", d.Separation[len(d.Separation)-1])
	fmt.Printf("growth rate:          %.4f /s\n", d.Exponent)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCENE\tDIM\tBODIES\tGRAVITY\tDAMPING\tSPRING_K\tREPULSION_K")
	for _, name := range config.ListPresets() {
		c := config.Presets[name]
		n := "2"
		switch c.Scene {
		case "single":
			n = "1"
		case "ring":
			n = fmt.Sprint(c.Bodies)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.2f\t%.2f\t%.1f\t%.1f\n",
			name, c.Scene, c.Dim, n, c.Gravity, c.Damping, c.SpringK, c.RepulsionK)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tDIM\tTIME\tFRAMES\tSPREAD\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%.4f%%\t%.2e\n",
			run.ID,
			run.Scene,
			run.Config.Dim,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			100*run.Spread,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, tr, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	if len(tr.Energy) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s, %dD\n", meta.Scene, meta.Config.Dim)
	fmt.Printf("samples: %d\n\n", len(tr.Energy))

	fmt.Println(asciigraph.Plot(tr.Energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))
	fmt.Println()

	nb := min(len(tr.Heights[0]), 6)
	for b := 0; b < nb; b++ {
		fmt.Println(asciigraph.Plot(analysis.Column(tr.Heights, b),
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d height", b)),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, tr, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, &meta.Config, traceResult(meta, tr))
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, tr, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	return storage.WriteTrace(os.Stdout, traceResult(meta, tr))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := setup(cfg)
	if err != nil {
		return err
	}
	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}

	cam := viz.NewCamera()
	cam.Zoom = cfg.Display.Scale
	f := exp.GetSimulator().Snapshot(time.Now())
	if err := os.WriteFile(outFile, []byte(export.FrameToSVG(f, cam, svgWidth, svgHeight)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (frame %d, E = %.6f)\n", outFile, f.Index, f.Energy)
	return nil
}

func loadRun(st *storage.Store, runID string) (*storage.RunMetadata, *storage.Trace, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, tr, nil
}

func traceResult(meta *storage.RunMetadata, tr *storage.Trace) *sim.Result {
	return &sim.Result{
		Times:       tr.Times,
		Energy:      tr.Energy,
		Heights:     tr.Heights,
		Metrics:     meta.Metrics,
		FramesRun:   meta.Frames,
		EnergyDrift: meta.EnergyDrift,
		Spread:      meta.Spread,
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
