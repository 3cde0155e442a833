package game

import (
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/garden"
)

// Action names recorded by ActionTimings.
const (
	ActionPlant   = "plant"
	ActionWater   = "water"
	ActionMerge   = "merge"
	ActionHarvest = "harvest"
	ActionRetire  = "retire"
	ActionTap     = "tap_farmer"
)

func (g *Game) timed(name string) func() {
	start := time.Now()
	return func() { g.timings.Record(name, time.Since(start)) }
}

// Plant places the selected seed at pos.
func (g *Game) Plant(pos components.Position) (garden.PlantState, bool) {
	defer g.timed(ActionPlant)()
	return g.garden.Place(pos, g.clock.Now())
}

// WaterAt waters the plant at pos, spending one water.
func (g *Game) WaterAt(pos components.Position) bool {
	defer g.timed(ActionWater)()
	return g.garden.Water(pos, g.clock.Now(), false)
}

// Merge merges the plant at src into the plant at dst.
func (g *Game) Merge(src, dst components.Position) bool {
	defer g.timed(ActionMerge)()
	return g.garden.Merge(src, dst, g.clock.Now())
}

// NeedsConfirm returns the warning a player should see before harvesting
// the plant at pos.
func (g *Game) NeedsConfirm(pos components.Position) (string, bool) {
	return g.garden.NeedsConfirm(pos, g.clock.Now())
}

// Harvest harvests the terminal plant at pos. It returns the points
// credited, doubled when a bluebird visited since the last harvest.
func (g *Game) Harvest(pos components.Position) (int, bool) {
	defer g.timed(ActionHarvest)()
	return g.collect(pos, false)
}

// Retire retires the ancient or legendary elder at pos into the hall of
// fame and returns the points credited.
func (g *Game) Retire(pos components.Position) (int, bool) {
	defer g.timed(ActionRetire)()
	return g.collect(pos, true)
}

func (g *Game) collect(pos components.Position, retiring bool) (int, bool) {
	before := g.points
	now := g.clock.Now()
	var ok bool
	if retiring {
		_, ok = g.garden.Retire(pos, now)
	} else {
		_, ok = g.garden.Harvest(pos, now)
	}
	if !ok {
		return 0, false
	}
	return g.points - before, true
}

// TapFarmer waters every unwatered plant in the farmer's cross while water
// lasts and returns how many were watered.
func (g *Game) TapFarmer() int {
	defer g.timed(ActionTap)()
	now := g.clock.Now()
	n := 0
	for _, pos := range g.farmer.cross(g.garden.Size()) {
		p, ok := g.garden.At(pos)
		if !ok || p.Watered {
			continue
		}
		if !g.CanSpendWater() {
			break
		}
		if g.garden.Water(pos, now, false) {
			n++
		}
	}
	return n
}
