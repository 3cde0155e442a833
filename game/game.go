// Package game runs a garden session: the water pool, points and seed
// unlocks, the farmer, visitors, telemetry and save files.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/garden/catalog"
	"github.com/pthm-cable/garden/clock"
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/garden"
	"github.com/pthm-cable/garden/metrics"
	"github.com/pthm-cable/garden/telemetry"
)

// Game holds a garden and the session state around it.
type Game struct {
	cfg     *config.Config
	cat     *catalog.Catalog
	clock   clock.Clock
	rng     *rand.Rand
	rngSeed int64
	garden  *garden.Garden

	// Session economy
	water          int
	lastWaterRegen time.Time
	points         int
	unlocked       map[string]bool
	selected       string
	discovered     map[string]bool
	totalMerges    int
	totalMaxed     int
	doubleHarvest  bool

	farmer   farmer
	visitors visitorSchedule
	hall     *telemetry.HallOfFame

	// Telemetry
	start         time.Time
	ticks         int64
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	milestones    *telemetry.MilestoneDetector
	lifetimes     *telemetry.LifetimeTracker
	outputManager *telemetry.OutputManager
	pendingEvents []telemetry.EventRecord
	snapshotDir   string
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	metrics       *metrics.Recorder
	timings       *ActionTimings

	listeners garden.Sink
}

// New creates a fresh session with the starting seed unlocked and an
// empty garden.
func New(opts Options) (*Game, error) {
	opts = opts.withDefaults()
	cfg := opts.Config
	now := opts.Clock.Now()
	rng := rand.New(rand.NewSource(opts.Seed))

	if _, ok := opts.Catalog.Seed(cfg.Garden.StartingSeed); !ok {
		return nil, fmt.Errorf("%w: starting seed %q", ErrUnknownSeed, cfg.Garden.StartingSeed)
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g := &Game{
		cfg:            cfg,
		cat:            opts.Catalog,
		clock:          opts.Clock,
		rng:            rng,
		rngSeed:        opts.Seed,
		water:          cfg.Resources.WaterMax,
		lastWaterRegen: now,
		unlocked:       map[string]bool{cfg.Garden.StartingSeed: true},
		selected:       cfg.Garden.StartingSeed,
		discovered:     make(map[string]bool),
		hall:           telemetry.NewHallOfFame(cfg.Elders.HallOfFameSize, rng),

		start:         now,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, now),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		milestones:    telemetry.NewMilestoneDetector(cfg.Telemetry.MilestoneHistory),
		lifetimes:     telemetry.NewLifetimeTracker(),
		outputManager: outputManager,
		snapshotDir:   opts.SnapshotDir,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		metrics:       opts.Metrics,
		timings:       NewActionTimings(),
	}
	g.hall.SetEntries(opts.HallOfFame)
	if start, ok := g.cat.Start(cfg.Garden.StartingSeed); ok {
		g.discovered[start.ID] = true
	}

	g.garden = garden.New(garden.Options{
		Config:  cfg,
		Catalog: g.cat,
		Session: g,
		Sink:    g.handleEvent,
		Rand:    rng,
		NewID:   opts.NewID,
	})
	g.farmer = newFarmer(cfg, g.garden.Size(), now)
	g.garden.SetFarmer(&g.farmer.pos)
	g.visitors.scheduleNext(g, now)

	slog.Info("session started",
		"seed", opts.Seed,
		"grid", cfg.Garden.GridSize,
		"starting_seed", cfg.Garden.StartingSeed,
		"output_dir", outputManager.Dir(),
	)
	return g, nil
}

// Subscribe adds a sink that sees every garden event after the session
// has applied it.
func (g *Game) Subscribe(sink garden.Sink) {
	g.listeners = garden.Sinks(g.listeners, sink)
}

// handleEvent applies an event to the session, then forwards it to
// telemetry and subscribers.
func (g *Game) handleEvent(e garden.Event) {
	switch e.Type {
	case garden.EventWatered:
		if !e.Free {
			g.spendWater(e.At)
		}
	case garden.EventEvolved:
		if g.cat.IsTerminal(e.To) {
			g.totalMaxed++
		}
	case garden.EventDiscovered:
		g.discovered[e.To] = true
	case garden.EventMerged:
		g.totalMerges++
		g.discovered[e.To] = true
	case garden.EventWishFulfilled:
		g.addPoints(e.Points)
	case garden.EventRetired:
		entry := g.hall.Add(telemetry.NewHallEntry(e.Plant, e.Tier, e.Points, e.At))
		slog.Info("elder retired",
			"plant", entry.Name,
			"tier", entry.ElderTier,
			"time_alive", telemetry.FormatTimeAlive(entry.TimeAlive),
			"epitaph", entry.Epitaph,
		)
	case garden.EventHarvested:
		points := e.Points
		if g.doubleHarvest {
			points *= 2
			g.doubleHarvest = false
		}
		g.addPoints(points)
		g.gainWater(g.cfg.Economy.HarvestWaterReturn)
	}

	g.collector.Record(e)
	g.metrics.Observe(e)
	g.pendingEvents = append(g.pendingEvents, telemetry.NewEventRecord(e, g.start))
	if rec := g.lifetimes.Observe(e); rec != nil {
		if err := g.outputManager.WriteLifetime(*rec); err != nil {
			slog.Error("failed to write lifetime", "error", err)
		}
	}
	if g.listeners != nil {
		g.listeners(e)
	}
}

// Step advances the session to the clock's current time: water regen,
// growth, any due coarse checks, the farmer, visitors and telemetry.
func (g *Game) Step() {
	now := g.clock.Now()
	tickStart := time.Now()

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseGrowth)
	g.regenWater(now)
	g.garden.Tick(now, 1, g.perfCollector.StartPhase)

	g.perfCollector.StartPhase(telemetry.PhaseFarmer)
	g.updateFarmer(now)

	g.perfCollector.StartPhase(telemetry.PhaseVisitors)
	g.updateVisitors(now)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushEvents()
	g.flushTelemetry(now)

	g.perfCollector.EndTick()
	g.ticks++
	g.metrics.SetGarden(g.garden.Len(), g.water, g.garden.ElderCounts(now))
	g.metrics.ObserveTick(time.Since(tickStart))
}

// Close flushes pending output and closes the output files.
func (g *Game) Close() error {
	g.flushEvents()
	if err := g.outputManager.WriteHallOfFame(g.hall); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	return g.outputManager.Close()
}

// Garden returns the underlying garden.
func (g *Game) Garden() *garden.Garden { return g.garden }

// Config returns the session configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Catalog returns the evolution catalog.
func (g *Game) Catalog() *catalog.Catalog { return g.cat }

// Now returns the session clock's current time.
func (g *Game) Now() time.Time { return g.clock.Now() }

// Ticks returns the number of steps run.
func (g *Game) Ticks() int64 { return g.ticks }

// RNGSeed returns the seed the session RNG started from.
func (g *Game) RNGSeed() int64 { return g.rngSeed }

// HallOfFame returns the retired elders, newest first.
func (g *Game) HallOfFame() []telemetry.HallEntry { return g.hall.Entries() }

// TotalMaxed returns how many plants reached a terminal node.
func (g *Game) TotalMaxed() int { return g.totalMaxed }

// DoubleHarvest reports whether the next harvest pays double.
func (g *Game) DoubleHarvest() bool { return g.doubleHarvest }

// Discovered reports how many nodes have been seen.
func (g *Game) Discovered() int { return len(g.discovered) }

// Farmer returns the farmer's cell.
func (g *Game) Farmer() components.Position { return g.farmer.pos }

// Session interface.

// CanSpendWater reports whether a paid watering is possible.
func (g *Game) CanSpendWater() bool {
	g.regenWater(g.clock.Now())
	return g.water > 0
}

// SelectedSeed returns the seed new placements use.
func (g *Game) SelectedSeed() string { return g.selected }

// TotalMerges returns the lifetime merge count of the session.
func (g *Game) TotalMerges() int { return g.totalMerges }

// IsDiscovered reports whether nodeID has been seen before.
func (g *Game) IsDiscovered(nodeID string) bool { return g.discovered[nodeID] }
