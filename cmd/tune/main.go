// Package main tunes tier growth multipliers with CMA-ES so that auto-played
// plants reach a terminal node after a target amount of time.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/garden/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// logRow is one evaluation in tune_log.csv.
type logRow struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	MeanStageMin float64 `csv:"mean_stage_min"`
	Terminals    int     `csv:"terminals"`
	Tier1        float64 `csv:"tier_1"`
	Tier2        float64 `csv:"tier_2"`
	Tier3        float64 `csv:"tier_3"`
	Tier4        float64 `csv:"tier_4"`
}

type tuneOptions struct {
	configPath string
	ticks      int
	seeds      int
	maxEvals   int
	population int
	target     time.Duration
	outputDir  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts tuneOptions
	cmd := &cobra.Command{
		Use:          "tune",
		Short:        "Search tier growth multipliers for a target time to bloom",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Sessions log every harvest and unlock; keep the progress lines readable.
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
			return runTune(cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	f.IntVar(&opts.ticks, "ticks", 7200, "Growth ticks per run")
	f.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	f.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	f.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	f.DurationVar(&opts.target, "target", 30*time.Minute, "Target time from planting to a terminal node")
	f.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runTune(out io.Writer, opts tuneOptions) error {
	if opts.target <= 0 {
		return fmt.Errorf("--target must be positive")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	params := NewParamVector()

	evalSeeds := make([]int64, opts.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.ticks, evalSeeds, baseCfg, opts.target)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	logFile, err := os.Create(filepath.Join(opts.outputDir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			last := evaluator.Last()
			row := logRow{
				Eval:         evalCount,
				Fitness:      fitness,
				MeanStageMin: meanOrZero(last.stageMinutes),
				Terminals:    len(last.stageMinutes),
				Tier1:        clamped[0],
				Tier2:        clamped[1],
				Tier3:        clamped[2],
				Tier4:        clamped[3],
			}
			rows := []logRow{row}
			if evalCount == 1 {
				err = gocsv.Marshal(&rows, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(&rows, logFile)
			}
			if err != nil {
				fmt.Fprintf(out, "write log row: %v\n", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(opts.maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Fprintf(out, "Eval %d/%d: mean=%.1fmin terminals=%d fitness=%.4f (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, opts.maxEvals, row.MeanStageMin, row.Terminals, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))
			return fitness
		},
	}

	fmt.Fprintf(out, "Starting CMA-ES with %d parameters, population=%d, max_evals=%d, target=%s\n",
		dim, popSize, opts.maxEvals, opts.target)
	fmt.Fprintf(out, "Seeds per evaluation: %d, ticks per run: %d\n", opts.seeds, opts.ticks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		fmt.Fprintf(out, "optimization ended: %v\n", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluations completed")
	}

	fmt.Fprintf(out, "\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Fprintf(out, "Best fitness: %.4f\n", bestFitness)
	for i, spec := range params.Specs {
		fmt.Fprintf(out, "  %s: %.4f\n", spec.Path, bestParams[i])
	}

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)
	configOut := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOut); err != nil {
		return fmt.Errorf("write best config: %w", err)
	}
	fmt.Fprintf(out, "\nBest config saved to: %s\n", configOut)

	if hof := evaluator.BestHallOfFame(); len(hof) > 0 {
		data, err := json.MarshalIndent(hof, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal hall of fame: %w", err)
		}
		hofPath := filepath.Join(opts.outputDir, "hall_of_fame.json")
		if err := os.WriteFile(hofPath, data, 0644); err != nil {
			return fmt.Errorf("write hall of fame: %w", err)
		}
		fmt.Fprintf(out, "Hall of fame saved to: %s\n", hofPath)
	}
	return nil
}
