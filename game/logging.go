package game

import (
	"log/slog"
	"time"
)

// ActionTimings returns the per-action timing tracker.
func (g *Game) ActionTimings() *ActionTimings { return g.timings }

// logActionTimings logs the slowest player actions first.
func (g *Game) logActionTimings() {
	for _, name := range g.timings.SortedNames() {
		slog.Info("action timing",
			"action", name,
			"avg", g.timings.Avg(name).Round(time.Microsecond),
			"samples", g.timings.Count(name),
		)
	}
}

// LogState logs a one-line summary of the session.
func (g *Game) LogState() {
	now := g.clock.Now()
	elders := 0
	for _, n := range g.garden.ElderCounts(now) {
		elders += n
	}
	visitor := "none"
	if v, ok := g.CurrentVisitor(); ok {
		visitor = string(v.Kind)
	}
	slog.Info("garden",
		"sim_time", g.simTimeSec(now),
		"plants", g.garden.Len(),
		"terminals", g.garden.TerminalCount(),
		"water", g.Water(),
		"points", g.points,
		"discovered", len(g.discovered),
		"merges", g.totalMerges,
		"maxed", g.totalMaxed,
		"elders", elders,
		"hall_of_fame", g.hall.Len(),
		"visitor", visitor,
	)
}
