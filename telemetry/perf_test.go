package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppedClock advances by the next duration in steps on every call.
func steppedClock(steps ...time.Duration) func() time.Time {
	t := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	i := 0
	return func() time.Time {
		if i < len(steps) {
			t = t.Add(steps[i])
			i++
		}
		return t
	}
}

// runStep times one step with growth taking g and bonds taking b.
func runStep(pc *PerfCollector, g, b time.Duration) {
	pc.now = steppedClock(0, 0, g, b)
	pc.StartTick()
	pc.StartPhase(PhaseGrowth)
	pc.StartPhase(PhaseBonds)
	pc.EndTick()
}

func TestPerfCollector_PhaseTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	for range 4 {
		runStep(pc, 300*time.Microsecond, 100*time.Microsecond)
	}

	s := pc.Stats()
	assert.Equal(t, 400*time.Microsecond, s.AvgTickDuration)
	assert.Equal(t, 300*time.Microsecond, s.PhaseAvg[PhaseGrowth])
	assert.Equal(t, 100*time.Microsecond, s.PhaseAvg[PhaseBonds])
	assert.InDelta(t, 75.0, s.PhasePct[PhaseGrowth], 1e-9)
	assert.InDelta(t, 2500.0, s.TicksPerSecond, 1e-6)
}

func TestPerfCollector_RingKeepsRecent(t *testing.T) {
	pc := NewPerfCollector(3)
	runStep(pc, 10*time.Millisecond, 0)
	for range 3 {
		runStep(pc, time.Millisecond, 0)
	}

	s := pc.Stats()
	assert.Equal(t, time.Millisecond, s.MaxTickDuration, "the slow step fell out of the window")
	assert.Equal(t, time.Millisecond, s.AvgTickDuration)
}

func TestPerfCollector_TailLatency(t *testing.T) {
	pc := NewPerfCollector(20)
	for range 19 {
		runStep(pc, time.Millisecond, 0)
	}
	runStep(pc, 20*time.Millisecond, 0)

	s := pc.Stats()
	assert.Equal(t, 20*time.Millisecond, s.MaxTickDuration)
	assert.Equal(t, time.Millisecond, s.P95TickDuration)
	assert.Greater(t, s.AvgTickDuration, time.Millisecond)
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	s := NewPerfCollector(0).Stats()
	assert.Zero(t, s.AvgTickDuration)
	require.NotNil(t, s.PhaseAvg)
	require.NotNil(t, s.PhasePct)
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		P95TickDuration: 400 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseGrowth: 60, PhaseVisitors: 5},
	}
	row := s.ToCSV(90)
	assert.Equal(t, 90.0, row.SimTimeSec)
	assert.Equal(t, int64(250), row.AvgTickUS)
	assert.Equal(t, int64(400), row.P95TickUS)
	assert.Equal(t, 60.0, row.GrowthPct)
	assert.Equal(t, 5.0, row.VisitorsPct)
	assert.Zero(t, row.BondsPct)
}
