package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/garden/clock"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/game"
	"github.com/pthm-cable/garden/metrics"
	"github.com/pthm-cable/garden/telemetry"
)

const saveFileName = "garden.json"

type runOptions struct {
	ticks       int
	seed        int64
	auto        bool
	load        string
	saveDir     string
	outputDir   string
	snapshotDir string
	metricsFile string
	logStats    bool
	logEvery    int
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), config.Cfg(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.ticks, "ticks", 3600, "Growth ticks to simulate")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "RNG seed (0 = time-based)")
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Let the auto-player act after every tick")
	cmd.Flags().StringVar(&opts.load, "load", "", "Save file to resume from")
	cmd.Flags().StringVar(&opts.saveDir, "save-dir", "", "Directory to write "+saveFileName+" into when the run ends")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", os.Getenv("GARDEN_OUTPUT_DIR"), "Output directory for CSV logs and config snapshot")
	cmd.Flags().StringVar(&opts.snapshotDir, "snapshot-dir", "", "Directory for milestone snapshots")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics in text format when the run ends")
	cmd.Flags().BoolVar(&opts.logStats, "log-stats", false, "Log every telemetry window")
	cmd.Flags().IntVar(&opts.logEvery, "log-every", 600, "Log a garden summary every N ticks (0 = never)")
	return cmd
}

// startTime is the wall clock, or the save's own timestamp when a resumed
// run would otherwise start before it.
func startTime(load string) time.Time {
	now := time.Now().UTC().Truncate(time.Second)
	if load == "" {
		return now
	}
	data, err := os.ReadFile(load)
	if err != nil {
		return now
	}
	s, err := game.DecodeSave(data)
	if err != nil || !s.SavedAt.After(now) {
		return now
	}
	return s.SavedAt
}

// pastHallOfFame reads the hall of fame an earlier run left in dir.
func pastHallOfFame(dir string, size int) []telemetry.HallEntry {
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, telemetry.HallOfFameFile)
	hof, err := telemetry.LoadHallOfFameFromFile(path, size, nil)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("hall of fame not carried over", "path", path, "error", err)
		}
		return nil
	}
	slog.Info("hall of fame carried over", "path", path, "entries", hof.Len())
	return hof.Entries()
}

func runSession(ctx context.Context, cfg *config.Config, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	clk := clock.NewFake(startTime(opts.load))
	var rec *metrics.Recorder
	if opts.metricsFile != "" {
		rec = metrics.New()
	}

	g, err := game.New(game.Options{
		Config:      cfg,
		Clock:       clk,
		Seed:        opts.seed,
		OutputDir:   opts.outputDir,
		SnapshotDir: opts.snapshotDir,
		LogStats:    opts.logStats,
		Metrics:     rec,
		HallOfFame:  pastHallOfFame(opts.outputDir, cfg.Elders.HallOfFameSize),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	if opts.load != "" {
		report, err := g.Load(opts.load)
		if err != nil {
			slog.Warn("save not loaded, starting fresh", "path", opts.load, "rejected", game.IsRejected(err), "error", err)
		} else {
			slog.Info("save loaded",
				"path", opts.load,
				"away", report.Away.Round(time.Second),
				"caught_up", report.CaughtUp,
				"evolutions", report.Evolutions,
			)
		}
	}

	var player *game.AutoPlayer
	if opts.auto {
		player = game.NewAutoPlayer(g)
	}

	slog.Info("starting run",
		"seed", g.RNGSeed(),
		"ticks", opts.ticks,
		"auto", opts.auto,
		"tick", cfg.Timing.GrowthTick,
	)

	for i := 1; i <= opts.ticks; i++ {
		if ctx.Err() != nil {
			slog.Info("interrupted", "tick", g.Ticks())
			break
		}
		clk.Advance(cfg.Timing.GrowthTick)
		g.Step()
		if player != nil {
			player.Act()
		}
		if opts.logEvery > 0 && i%opts.logEvery == 0 {
			g.LogState()
		}
	}
	g.LogState()

	if opts.saveDir != "" {
		if err := g.Save(filepath.Join(opts.saveDir, saveFileName)); err != nil {
			return err
		}
	}
	if rec != nil {
		if err := rec.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
		slog.Info("metrics written", "path", opts.metricsFile)
	}
	return nil
}
