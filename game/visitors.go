package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/garden/components"
)

// VisitorKind names a garden visitor.
type VisitorKind string

const (
	Butterfly VisitorKind = "butterfly" // pollinates the 3x3 around it
	Bee       VisitorKind = "bee"       // refills water
	Rabbit    VisitorKind = "rabbit"    // finishes one growing plant's stage
	Bluebird  VisitorKind = "bluebird"  // doubles the next harvest
)

var visitorWeights = []struct {
	kind   VisitorKind
	weight int
}{
	{Butterfly, 3},
	{Bee, 1},
	{Rabbit, 1},
	{Bluebird, 1},
}

// Visit is a visitor currently in the garden.
type Visit struct {
	Kind    VisitorKind
	Pos     components.Position
	Arrived time.Time
	Leaves  time.Time
	Touched []string
}

type visitorSchedule struct {
	next    time.Time
	current *Visit
}

// interval draws the wait until the next visitor. Terminal plants
// shorten it, up to visitors.max_reduction.
func (v *visitorSchedule) interval(g *Game) time.Duration {
	cfg := g.cfg.Visitors
	wait := cfg.SpawnMin
	if spread := cfg.SpawnMax - cfg.SpawnMin; spread > 0 {
		wait += time.Duration(g.rng.Int63n(int64(spread) + 1))
	}
	reduction := min(cfg.MaxReduction, float64(g.garden.TerminalCount())*cfg.TerminalPlantBonus)
	return time.Duration(float64(wait) * (1 - reduction))
}

func (v *visitorSchedule) scheduleNext(g *Game, now time.Time) {
	v.next = now.Add(v.interval(g))
}

// CurrentVisitor returns the visitor in the garden, if any.
func (g *Game) CurrentVisitor() (Visit, bool) {
	if g.visitors.current == nil {
		return Visit{}, false
	}
	return *g.visitors.current, true
}

// NextVisitorAt returns when the next visitor is due.
func (g *Game) NextVisitorAt() time.Time { return g.visitors.next }

func (g *Game) updateVisitors(now time.Time) {
	v := &g.visitors
	if v.current != nil {
		if now.Before(v.current.Leaves) {
			return
		}
		slog.Debug("visitor_left", "kind", v.current.Kind)
		v.current = nil
		v.scheduleNext(g, now)
		return
	}
	if now.Before(v.next) {
		return
	}
	g.arrive(g.pickVisitor(), now)
}

func (g *Game) pickVisitor() VisitorKind {
	total := 0
	for _, w := range visitorWeights {
		total += w.weight
	}
	roll := g.rng.Intn(total)
	for _, w := range visitorWeights {
		if roll < w.weight {
			return w.kind
		}
		roll -= w.weight
	}
	return Butterfly
}

// SummonVisitor brings a visitor of kind in now. It fails while another
// visitor is present.
func (g *Game) SummonVisitor(kind VisitorKind) bool {
	if g.visitors.current != nil {
		return false
	}
	switch kind {
	case Butterfly, Bee, Rabbit, Bluebird:
	default:
		return false
	}
	g.arrive(kind, g.clock.Now())
	return true
}

// arrive lands a visitor on a random cell and applies its effect.
func (g *Game) arrive(kind VisitorKind, now time.Time) {
	size := g.garden.Size()
	visit := &Visit{
		Kind:    kind,
		Pos:     components.Position{X: g.rng.Intn(size), Y: g.rng.Intn(size)},
		Arrived: now,
		Leaves:  now.Add(g.cfg.Visitors.VisitDuration),
	}
	g.visitors.current = visit

	switch kind {
	case Butterfly:
		visit.Touched = g.garden.Pollinate(visit.Pos, string(kind), now)
	case Bee:
		g.fillWater(now)
	case Rabbit:
		var growing []string
		for _, p := range g.garden.Plants() {
			if p.Watered && !g.cat.IsTerminal(p.NodeID) {
				growing = append(growing, p.ID)
			}
		}
		if len(growing) > 0 {
			id := growing[g.rng.Intn(len(growing))]
			g.garden.MarkVisitorTouch(id, string(kind), now)
			g.garden.InstantGrow(id, now)
			visit.Touched = []string{id}
		}
	case Bluebird:
		g.doubleHarvest = true
	}

	slog.Info("visitor_arrived",
		"kind", kind,
		"x", visit.Pos.X,
		"y", visit.Pos.Y,
		"touched", len(visit.Touched),
	)
}
