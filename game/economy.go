package game

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pthm-cable/garden/catalog"
)

var (
	// ErrUnknownSeed is returned for seed ids missing from the catalog.
	ErrUnknownSeed = errors.New("unknown seed")
	// ErrSeedLocked is returned when selecting a seed that was not unlocked.
	ErrSeedLocked = errors.New("seed is locked")
	// ErrInsufficientPoints is returned when an unlock costs more than the
	// session holds.
	ErrInsufficientPoints = errors.New("insufficient points")
)

// Water returns the current water, after regeneration up to now.
func (g *Game) Water() int {
	g.regenWater(g.clock.Now())
	return g.water
}

// Points returns the session's points.
func (g *Game) Points() int { return g.points }

// regenWater adds one water per elapsed regen interval. The regen clock
// idles while the pool is full.
func (g *Game) regenWater(now time.Time) {
	limit := g.cfg.Resources.WaterMax
	if g.water >= limit {
		g.lastWaterRegen = now
		return
	}
	every := g.cfg.Timing.WaterRegen
	elapsed := now.Sub(g.lastWaterRegen)
	if elapsed < every {
		return
	}
	n := int(elapsed / every)
	g.water = min(limit, g.water+n)
	if g.water >= limit {
		g.lastWaterRegen = now
		return
	}
	g.lastWaterRegen = g.lastWaterRegen.Add(time.Duration(n) * every)
}

func (g *Game) spendWater(now time.Time) {
	if g.water <= 0 {
		return
	}
	if g.water >= g.cfg.Resources.WaterMax {
		g.lastWaterRegen = now
	}
	g.water--
}

func (g *Game) gainWater(n int) {
	if n <= 0 {
		return
	}
	g.water = min(g.cfg.Resources.WaterMax, g.water+n)
}

func (g *Game) fillWater(now time.Time) {
	g.water = g.cfg.Resources.WaterMax
	g.lastWaterRegen = now
}

func (g *Game) addPoints(n int) {
	if n <= 0 {
		return
	}
	g.points += n
	g.metrics.AddPoints(n)
}

// Unlocked reports whether a seed can be planted.
func (g *Game) Unlocked(seedID string) bool { return g.unlocked[seedID] }

// UnlockedSeeds returns the unlocked seeds in catalog order.
func (g *Game) UnlockedSeeds() []string {
	var out []string
	for _, s := range g.cat.Seeds() {
		if g.unlocked[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

// UnlockSeed buys a seed with points. Unlocking an unlocked seed is a no-op.
func (g *Game) UnlockSeed(seedID string) error {
	seed, ok := g.cat.Seed(seedID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeed, seedID)
	}
	if g.unlocked[seedID] {
		return nil
	}
	if g.points < seed.Cost {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientPoints, seed.Name, seed.Cost, g.points)
	}
	g.points -= seed.Cost
	g.unlocked[seedID] = true
	if start, ok := g.cat.Start(seedID); ok {
		g.discovered[start.ID] = true
	}
	return nil
}

// SelectSeed chooses the seed for new placements.
func (g *Game) SelectSeed(seedID string) error {
	if _, ok := g.cat.Seed(seedID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeed, seedID)
	}
	if !g.unlocked[seedID] {
		return fmt.Errorf("%w: %q", ErrSeedLocked, seedID)
	}
	g.selected = seedID
	return nil
}

// NextUnlock returns the cheapest locked seed.
func (g *Game) NextUnlock() (*catalog.Seed, bool) {
	locked := slices.DeleteFunc(slices.Clone(g.cat.Seeds()), func(s *catalog.Seed) bool {
		return g.unlocked[s.ID]
	})
	if len(locked) == 0 {
		return nil, false
	}
	return slices.MinFunc(locked, func(a, b *catalog.Seed) int { return a.Cost - b.Cost }), true
}
