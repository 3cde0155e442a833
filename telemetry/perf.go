package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/garden/garden"
)

// Phase names for one session step.
const (
	PhaseGrowth    = garden.PhaseGrowth
	PhaseBonds     = garden.PhaseBonds
	PhaseWishes    = garden.PhaseWishes
	PhaseElders    = garden.PhaseElders
	PhaseFarmer    = "farmer"
	PhaseVisitors  = "visitors"
	PhaseTelemetry = "telemetry"
)

// Phases lists the step phases in execution order.
var Phases = []string{
	PhaseGrowth, PhaseBonds, PhaseWishes, PhaseElders,
	PhaseFarmer, PhaseVisitors, PhaseTelemetry,
}

// PerfSample is the wall time of one step and of each phase within it.
type PerfSample struct {
	Step   time.Duration
	Phases map[string]time.Duration
}

// PerfCollector keeps the most recent step timings in a ring.
type PerfCollector struct {
	ring []PerfSample
	next int
	full bool

	cur        PerfSample
	stepStart  time.Time
	phase      string
	phaseStart time.Time

	now func() time.Time
}

// NewPerfCollector keeps the last window steps, 60 when window < 1.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]PerfSample, window), now: time.Now}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.stepStart = p.now()
	p.cur = PerfSample{Phases: make(map[string]time.Duration, len(Phases))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase string) {
	t := p.now()
	p.closePhase(t)
	p.phase, p.phaseStart = phase, t
}

func (p *PerfCollector) closePhase(t time.Time) {
	if p.phase != "" {
		p.cur.Phases[p.phase] += t.Sub(p.phaseStart)
	}
}

// EndTick closes the step and stores its sample.
func (p *PerfCollector) EndTick() {
	t := p.now()
	p.closePhase(t)
	p.phase = ""
	p.cur.Step = t.Sub(p.stepStart)

	p.ring[p.next] = p.cur
	p.next++
	if p.next == len(p.ring) {
		p.next, p.full = 0, true
	}
}

func (p *PerfCollector) samples() []PerfSample {
	if p.full {
		return p.ring
	}
	return p.ring[:p.next]
}

// PerfStats summarizes the stored step timings.
type PerfStats struct {
	AvgTickDuration time.Duration
	P95TickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase mean and share of the mean step.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats aggregates the stored samples. An empty collector yields zero
// durations and empty maps.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	samples := p.samples()
	if len(samples) == 0 {
		return s
	}

	steps := make([]float64, len(samples))
	phaseSum := make(map[string]time.Duration)
	for i, smp := range samples {
		steps[i] = float64(smp.Step)
		for name, d := range smp.Phases {
			phaseSum[name] += d
		}
	}
	slices.Sort(steps)

	mean := stat.Mean(steps, nil)
	s.AvgTickDuration = time.Duration(mean)
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, steps, nil))
	s.MaxTickDuration = time.Duration(steps[len(steps)-1])
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}

	n := time.Duration(len(samples))
	for name, sum := range phaseSum {
		avg := sum / n
		s.PhaseAvg[name] = avg
		if mean > 0 {
			s.PhasePct[name] = float64(avg) / mean * 100
		}
	}
	return s
}

// LogStats logs the timings, listing only phases above 0.1% of a step.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	SimTimeSec   float64 `csv:"sim_time"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	GrowthPct    float64 `csv:"growth_pct"`
	BondsPct     float64 `csv:"bonds_pct"`
	WishesPct    float64 `csv:"wishes_pct"`
	EldersPct    float64 `csv:"elders_pct"`
	FarmerPct    float64 `csv:"farmer_pct"`
	VisitorsPct  float64 `csv:"visitors_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s for export.
func (s PerfStats) ToCSV(simTimeSec float64) PerfStatsCSV {
	return PerfStatsCSV{
		SimTimeSec:   simTimeSec,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		GrowthPct:    s.PhasePct[PhaseGrowth],
		BondsPct:     s.PhasePct[PhaseBonds],
		WishesPct:    s.PhasePct[PhaseWishes],
		EldersPct:    s.PhasePct[PhaseElders],
		FarmerPct:    s.PhasePct[PhaseFarmer],
		VisitorsPct:  s.PhasePct[PhaseVisitors],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
