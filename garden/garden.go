// Package garden owns the plant grid and exposes the actions and ticks
// that drive it. Every transition is reported through a Sink.
package garden

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/garden/catalog"
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/systems"
)

// Session is the externally owned state the garden reads but never manages.
type Session interface {
	CanSpendWater() bool
	SelectedSeed() string
	TotalMerges() int
	IsDiscovered(nodeID string) bool
}

// Options configures a Garden. Zero fields get defaults.
type Options struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Session Session
	Sink    Sink
	Rand    *rand.Rand
	NewID   func() string
}

type waterMark struct {
	id string
	at time.Time
}

// Garden owns the plot and the rule systems that operate on it.
type Garden struct {
	cfg     *config.Config
	cat     *catalog.Catalog
	session Session
	sink    Sink
	rng     *rand.Rand
	newID   func() string

	plot   *systems.Plot
	bonds  *systems.Bonds
	elders *systems.Elders
	growth *systems.Growth
	wishes *systems.Wishes

	farmer       *components.Position
	recentWaters []waterMark
	spotHarvests map[string]int
	merges       int

	lastTick       time.Time
	lastBondCheck  time.Time
	lastWishCheck  time.Time
	lastElderCheck time.Time
}

// New creates an empty garden.
func New(opts Options) *Garden {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.MustLoad(cfg.Growth.TierMultipliers)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	bonds := systems.NewBonds(cfg)
	elders := systems.NewElders(cfg, cat)
	g := &Garden{
		cfg:          cfg,
		cat:          cat,
		sink:         opts.Sink,
		rng:          rng,
		newID:        newID,
		plot:         systems.NewPlot(cfg.Garden.GridSize),
		bonds:        bonds,
		elders:       elders,
		growth:       systems.NewGrowth(cfg, cat, bonds, elders),
		wishes:       systems.NewWishes(cfg, cat, rng),
		spotHarvests: make(map[string]int),
	}
	g.session = opts.Session
	if g.session == nil {
		g.session = &soloSession{g: g, seen: make(map[string]bool)}
	}
	return g
}

// soloSession stands in when no Session is supplied: water is free, the
// starting seed is selected, and a node counts as discovered once asked about.
type soloSession struct {
	g    *Garden
	seen map[string]bool
}

func (s *soloSession) CanSpendWater() bool  { return true }
func (s *soloSession) SelectedSeed() string { return s.g.cfg.Garden.StartingSeed }
func (s *soloSession) TotalMerges() int     { return s.g.merges }

func (s *soloSession) IsDiscovered(nodeID string) bool {
	if s.seen[nodeID] {
		return true
	}
	s.seen[nodeID] = true
	return false
}

func (g *Garden) emit(e Event) {
	if g.sink != nil {
		g.sink(e)
	}
}

// Config returns the garden's configuration.
func (g *Garden) Config() *config.Config { return g.cfg }

// Catalog returns the evolution catalog.
func (g *Garden) Catalog() *catalog.Catalog { return g.cat }

// Size returns the grid edge length.
func (g *Garden) Size() int { return g.plot.Size() }

// Len returns the number of plants.
func (g *Garden) Len() int { return g.plot.Len() }

// LastTick returns the time of the last growth update.
func (g *Garden) LastTick() time.Time { return g.lastTick }

// Merges returns the number of merges performed by this garden.
func (g *Garden) Merges() int { return g.merges }

// SetFarmer places the farmer, or removes it when pos is nil.
func (g *Garden) SetFarmer(pos *components.Position) {
	if pos == nil {
		g.farmer = nil
		return
	}
	p := *pos
	g.farmer = &p
}

// Farmer returns the farmer's cell.
func (g *Garden) Farmer() (components.Position, bool) {
	if g.farmer == nil {
		return components.Position{}, false
	}
	return *g.farmer, true
}

// Plants returns every plant in iteration order.
func (g *Garden) Plants() []PlantState {
	plants := g.plot.Plants()
	out := make([]PlantState, len(plants))
	for i, p := range plants {
		out[i] = stateOf(p)
	}
	return out
}

// Plant looks a plant up by id.
func (g *Garden) Plant(id string) (PlantState, bool) {
	p, ok := g.plot.ByID(id)
	if !ok {
		return PlantState{}, false
	}
	return stateOf(p), true
}

// At returns the plant in a cell.
func (g *Garden) At(pos components.Position) (PlantState, bool) {
	p, ok := g.plot.At(pos)
	if !ok {
		return PlantState{}, false
	}
	return stateOf(p), true
}

// Neighbors returns the plants in the eight cells around pos.
func (g *Garden) Neighbors(pos components.Position) []PlantState {
	ns := g.plot.Neighbors(pos)
	out := make([]PlantState, len(ns))
	for i, n := range ns {
		out[i] = stateOf(n)
	}
	return out
}

// EmptyCells lists free cells in row-major order.
func (g *Garden) EmptyCells() []components.Position {
	return g.plot.EmptyCells()
}

// SpotHarvests returns how many plants were harvested from pos.
func (g *Garden) SpotHarvests(pos components.Position) int {
	return g.spotHarvests[pos.Key()]
}

// TerminalCount returns the number of plants at a terminal node.
func (g *Garden) TerminalCount() int {
	n := 0
	g.plot.Scan(func(p systems.Plant) {
		if g.cat.IsTerminal(p.Growth.NodeID) {
			n++
		}
	})
	return n
}

// Scan visits a copy of every plant in no particular order.
func (g *Garden) Scan(fn func(PlantState)) {
	g.plot.Scan(func(p systems.Plant) {
		fn(stateOf(p))
	})
}

// ElderTier returns the tier a plant holds at now.
func (g *Garden) ElderTier(id string, now time.Time) components.ElderTier {
	p, ok := g.plot.ByID(id)
	if !ok {
		return components.NotElder
	}
	return g.elders.TierAt(p, now)
}

// GrowthRate returns the composite growth rate of a plant at now.
func (g *Garden) GrowthRate(id string, now time.Time, mult float64) float64 {
	p, ok := g.plot.ByID(id)
	if !ok {
		return 0
	}
	near := g.farmer != nil && p.Pos.Near(*g.farmer)
	return g.growth.Rate(g.plot, p, now, mult, near)
}

// Effectiveness returns the watering multiplier for the nth watering.
func (g *Garden) Effectiveness(n int) float64 {
	return g.growth.Effectiveness(n)
}
