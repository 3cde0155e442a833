package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/garden/telemetry"
)

// simTimeSec returns seconds of simulated time since the session started.
func (g *Game) simTimeSec(now time.Time) float64 {
	return now.Sub(g.start).Seconds()
}

// flushEvents writes buffered event rows.
func (g *Game) flushEvents() {
	if len(g.pendingEvents) == 0 {
		return
	}
	if err := g.outputManager.WriteEvents(g.pendingEvents); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	g.pendingEvents = g.pendingEvents[:0]
}

// flushTelemetry closes the stats window once it has elapsed, writes it
// out and checks it for milestones.
func (g *Game) flushTelemetry(now time.Time) {
	if !g.collector.ShouldFlush(now) {
		return
	}

	sample := telemetry.SampleGarden(g.garden, now)
	sample.Water = g.water
	sample.Points = g.points
	stats := g.collector.Flush(now, sample)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logActionTimings()
	}

	simTime := g.simTimeSec(now)
	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, simTime); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, m := range g.milestones.Check(stats) {
		m.LogMilestone()
		if err := g.outputManager.WriteMilestone(m); err != nil {
			slog.Error("failed to write milestone", "error", err)
		}
		g.saveSnapshot(&m, simTime)
	}
}

// saveSnapshot writes the garden to the snapshot directory.
func (g *Game) saveSnapshot(m *telemetry.Milestone, simTime float64) {
	if g.snapshotDir == "" {
		return
	}
	snapshot := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RNGSeed:    g.rngSeed,
		SimTimeSec: simTime,
		Garden:     g.garden.Snapshot(),
		Milestone:  m,
	}
	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "plants", len(snapshot.Garden.Plants))
}
