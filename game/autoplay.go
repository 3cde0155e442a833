package game

import (
	"log/slog"

	"github.com/pthm-cable/garden/garden"
)

// AutoPlayer drives a session headlessly with a fixed greedy policy.
type AutoPlayer struct {
	g *Game
}

// NewAutoPlayer creates a player for g.
func NewAutoPlayer(g *Game) *AutoPlayer {
	return &AutoPlayer{g: g}
}

// Act runs one round of the policy and returns the number of actions taken.
// In order it retires eligible elders, harvests terminal plants that need
// no confirmation, merges identical watered pairs, plants every empty cell,
// waters while water lasts, then unlocks and selects the cheapest
// affordable seed.
func (a *AutoPlayer) Act() int {
	g := a.g
	now := g.clock.Now()
	n := 0

	for _, p := range g.garden.Plants() {
		pos := p.Pos()
		if g.garden.CanRetire(pos, now) {
			if _, ok := g.Retire(pos); ok {
				n++
			}
			continue
		}
		if !g.cat.IsTerminal(p.NodeID) {
			continue
		}
		if _, confirm := g.garden.NeedsConfirm(pos, now); confirm {
			continue
		}
		if _, ok := g.Harvest(pos); ok {
			n++
		}
	}

	n += a.mergePairs()

	for _, pos := range g.garden.EmptyCells() {
		if _, ok := g.Plant(pos); ok {
			n++
		}
	}

	for _, p := range g.garden.Plants() {
		if p.Watered || g.cat.IsTerminal(p.NodeID) {
			continue
		}
		if !g.CanSpendWater() {
			break
		}
		if g.WaterAt(p.Pos()) {
			n++
		}
	}

	if seed, ok := g.NextUnlock(); ok && g.points >= seed.Cost {
		if err := g.UnlockSeed(seed.ID); err == nil {
			if err := g.SelectSeed(seed.ID); err == nil {
				slog.Info("seed unlocked", "seed", seed.ID, "cost", seed.Cost, "points", g.points)
				n++
			}
		}
	}
	return n
}

// mergePairs merges the first mergeable pair of watered plants sharing a
// node, repeating until none is left.
func (a *AutoPlayer) mergePairs() int {
	g := a.g
	n := 0
	for {
		src, dst, ok := a.findPair(g.garden.Plants())
		if !ok || !g.Merge(src.Pos(), dst.Pos()) {
			return n
		}
		n++
	}
}

func (a *AutoPlayer) findPair(plants []garden.PlantState) (src, dst garden.PlantState, ok bool) {
	g := a.g
	for i, p := range plants {
		if !p.Watered {
			continue
		}
		for _, q := range plants[i+1:] {
			if !q.Watered || q.NodeID != p.NodeID {
				continue
			}
			if g.garden.CanMerge(q.Pos(), p.Pos()) {
				return q, p, true
			}
		}
	}
	return garden.PlantState{}, garden.PlantState{}, false
}
