package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/forque/internal/automation"
	"github.com/san-kum/forque/internal/optim"
	"github.com/san-kum/forque/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	results, runErr := automation.RunScenario(ctx, sc, nil)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN_ID\tFRAMES\tSPREAD\tDRIFT")
	for _, r := range results {
		runID, err := st.Save(r.Config, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f%%\t%.2e\n", r.Name, runID, r.Result.FramesRun, 100*r.Result.Spread, r.Result.EnergyDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, nil)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tE_MIN\tE_MAX\tSPREAD\tDRIFT\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		if r.Err != nil {
			log.Printf("%s=%g: %v", sweepParam, r.ParamValue, r.Err)
			continue
		}
		fmt.Fprintf(w, "%.6g\t%.4f\t%.4f\t%.4f%%\t%.2e\n", r.ParamValue, r.MinEnergy, r.MaxEnergy, 100*r.Spread, r.Drift)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid key=v1,v2,... is required")
	}

	names := make([]string, 0, len(grid))
	ranges := make([][]float64, 0, len(grid))
	for _, entry := range grid {
		name, list, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("invalid grid %q, want key=v1,v2,...", entry)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params, best, err := optim.NewGridSearch(names, ranges).Search(ctx, cfg, nil, metricName)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("best %s: %.6g\n", metricName, best)
	for _, k := range keys {
		fmt.Printf("  %s = %g\n", k, params[k])
	}
	return nil
}
