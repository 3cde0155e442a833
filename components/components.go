// Package components defines the ECS components that make up a plant.
package components

import "time"

// Identity holds who a plant is. It never changes after placement.
type Identity struct {
	ID          string
	SeedID      string
	Name        string
	Personality string
}

// Growth holds evolution progress for the current node.
type Growth struct {
	NodeID     string
	Watered    bool
	WaterCount int     // waterings since the last evolution or merge
	Progress   float64 // [0,1) toward the next node
	LastUpdate time.Time
	Golden     bool
	Boost      float64 // combo or pollination multiplier, 1 when inactive
}

// BoostFactor returns the multiplier contributed by Boost.
func (g *Growth) BoostFactor() float64 {
	if g.Boost > 1 {
		return g.Boost
	}
	return 1
}

// EvoStats accumulates the counters special evolutions are triggered by.
// Counters are kept for the plant's lifetime.
type EvoStats struct {
	NightWaters int
	ComboWaters int
	FarmerTicks int
	Visitors    []string // distinct visitor kinds that touched the plant
	PlantedAt   time.Time
}

// Touched reports whether a visitor kind has already touched the plant.
func (e *EvoStats) Touched(kind string) bool {
	for _, v := range e.Visitors {
		if v == kind {
			return true
		}
	}
	return false
}
