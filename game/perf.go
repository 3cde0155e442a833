package game

import (
	"sort"
	"time"
)

// ActionTimings tracks wall time spent in each player action.
type ActionTimings struct {
	samples    map[string][]time.Duration
	maxSamples int
}

// NewActionTimings creates an empty tracker keeping the latest 120
// samples per action.
func NewActionTimings() *ActionTimings {
	return &ActionTimings{
		samples:    make(map[string][]time.Duration),
		maxSamples: 120,
	}
}

// Record adds a duration sample for the named action.
func (p *ActionTimings) Record(name string, d time.Duration) {
	p.samples[name] = append(p.samples[name], d)
	if len(p.samples[name]) > p.maxSamples {
		p.samples[name] = p.samples[name][1:]
	}
}

// Count returns how many samples are held for the named action.
func (p *ActionTimings) Count(name string) int {
	return len(p.samples[name])
}

// Avg returns the average duration for the named action.
func (p *ActionTimings) Avg(name string) time.Duration {
	s := p.samples[name]
	if len(s) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s {
		total += d
	}
	return total / time.Duration(len(s))
}

// SortedNames returns action names sorted by average duration (descending).
func (p *ActionTimings) SortedNames() []string {
	names := make([]string, 0, len(p.samples))
	for name := range p.samples {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return p.Avg(names[i]) > p.Avg(names[j])
	})
	return names
}
