package game

import (
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// farmer wanders the grid one cell at a time and waters for free.
type farmer struct {
	pos           components.Position
	lastMove      time.Time
	lastAutoWater time.Time
	moveEvery     time.Duration
	waterEvery    time.Duration
}

func newFarmer(cfg *config.Config, size int, now time.Time) farmer {
	return farmer{
		pos:           components.Position{X: size / 2, Y: size / 2},
		lastMove:      now,
		lastAutoWater: now,
		moveEvery:     cfg.Timing.FarmerMoveInterval,
		waterEvery:    cfg.Economy.FarmerAutoWater,
	}
}

// cross returns the farmer's cell followed by its in-bounds orthogonal
// neighbors.
func (f *farmer) cross(size int) []components.Position {
	out := []components.Position{f.pos}
	for _, off := range components.Offsets4 {
		p := components.Position{X: f.pos.X + off.X, Y: f.pos.Y + off.Y}
		if inBounds(p, size) {
			out = append(out, p)
		}
	}
	return out
}

func inBounds(p components.Position, size int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < size && p.Y < size
}

// updateFarmer takes a random step when the move interval has elapsed and
// auto-waters the first unwatered plant in the farmer's cross.
func (g *Game) updateFarmer(now time.Time) {
	f := &g.farmer
	size := g.garden.Size()

	if now.Sub(f.lastMove) >= f.moveEvery {
		f.lastMove = now
		off := components.Offsets4[g.rng.Intn(len(components.Offsets4))]
		next := components.Position{X: f.pos.X + off.X, Y: f.pos.Y + off.Y}
		if inBounds(next, size) {
			f.pos = next
			g.garden.SetFarmer(&f.pos)
		}
	}

	if now.Sub(f.lastAutoWater) < f.waterEvery {
		return
	}
	f.lastAutoWater = now
	for _, pos := range f.cross(size) {
		p, ok := g.garden.At(pos)
		if !ok || p.Watered {
			continue
		}
		if g.garden.Water(pos, now, true) {
			return
		}
	}
}
