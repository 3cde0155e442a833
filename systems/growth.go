package systems

import (
	"time"

	"github.com/pthm-cable/garden/catalog"
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// GrowthEnv carries the per-tick inputs of a growth update.
type GrowthEnv struct {
	Now         time.Time
	Multiplier  float64
	Farmer      *components.Position // nil when no farmer is on the grid
	TotalMerges int
	// SpotHarvests returns the harvest count of a cell.
	SpotHarvests func(components.Position) int
	Roll         func() float64
}

// Evolution records one node transition made during an update.
type Evolution struct {
	PlantID string
	From    string
	To      string
	Special bool
}

// Growth advances plant progress and resolves evolutions.
type Growth struct {
	cfg    *config.Config
	cat    *catalog.Catalog
	bonds  *Bonds
	elders *Elders
}

// NewGrowth creates the growth system.
func NewGrowth(cfg *config.Config, cat *catalog.Catalog, bonds *Bonds, elders *Elders) *Growth {
	return &Growth{cfg: cfg, cat: cat, bonds: bonds, elders: elders}
}

// Effectiveness returns the watering multiplier for the nth watering since
// the last evolution. Counts below one are treated as one.
func (g *Growth) Effectiveness(n int) float64 {
	table := g.cfg.Watering.DiminishingReturns
	if n < 1 {
		n = 1
	}
	idx := min(n-1, len(table)-1)
	return max(table[idx], g.cfg.Watering.MinEffectiveness)
}

// Rate composes every growth modifier for p at now.
func (g *Growth) Rate(plot *Plot, p Plant, now time.Time, mult float64, farmerNear bool) float64 {
	eco := g.cfg.Economy
	rate := mult * p.Growth.BoostFactor()
	if p.Growth.Golden {
		rate *= eco.GoldenGrowthBoost
	}
	if farmerNear {
		rate *= 1 + eco.FarmerProximityBonus
	}
	if b := g.bonds.Boost(p.Social); b > 0 {
		rate *= 1 + b
	}
	if a := g.elders.Aura(plot, p, now); a > 0 {
		rate *= 1 + a
	}
	if p.Social.Grief.Active(now) {
		rate *= g.cfg.Bonds.GriefPenalty
	}
	return rate * g.Effectiveness(p.Growth.WaterCount)
}

// Update advances every watered, growing plant to env.Now and applies any
// evolutions that complete. Records are returned in plot order.
func (g *Growth) Update(plot *Plot, env GrowthEnv) []Evolution {
	var out []Evolution
	for _, p := range plot.Plants() {
		if evo, ok := g.step(plot, p, env); ok {
			out = append(out, evo)
		}
	}
	return out
}

func (g *Growth) step(plot *Plot, p Plant, env GrowthEnv) (Evolution, bool) {
	gr := p.Growth
	if !gr.Watered {
		return Evolution{}, false
	}
	if !g.canGrow(gr.NodeID) {
		return Evolution{}, false
	}
	need, ok := g.cat.GrowthTime(gr.NodeID)
	if !ok {
		return Evolution{}, false
	}

	near := env.Farmer != nil && p.Pos.Near(*env.Farmer)
	if near {
		p.Stats.FarmerTicks++
	}

	elapsed := max(env.Now.Sub(gr.LastUpdate), 0)
	if need <= 0 {
		gr.Progress = 1
	} else {
		rate := g.Rate(plot, p, env.Now, env.Multiplier, near)
		gr.Progress += float64(elapsed) * rate / float64(need)
	}
	gr.LastUpdate = env.Now

	if gr.Progress < 1 {
		return Evolution{}, false
	}
	return g.transition(plot, p, env)
}

// Evolve completes the current stage of a watered, growing plant at once,
// choosing the next node exactly as a finished growth update would.
func (g *Growth) Evolve(plot *Plot, p Plant, env GrowthEnv) (Evolution, bool) {
	if !p.Growth.Watered || !g.canGrow(p.Growth.NodeID) {
		return Evolution{}, false
	}
	p.Growth.LastUpdate = env.Now
	return g.transition(plot, p, env)
}

func (g *Growth) canGrow(id string) bool {
	node, ok := g.cat.Node(id)
	return ok && !node.Terminal()
}

func (g *Growth) transition(plot *Plot, p Plant, env GrowthEnv) (Evolution, bool) {
	gr := p.Growth
	gr.Progress = 0

	in := g.input(plot, p, env)
	target, special, ok := g.cat.Next(gr.NodeID, &in)
	if !ok {
		return Evolution{}, false
	}

	from := gr.NodeID
	gr.NodeID = target
	gr.Watered = false
	gr.WaterCount = 0
	gr.Boost = 1
	return Evolution{PlantID: p.Ident.ID, From: from, To: target, Special: special}, true
}

// input gathers the trigger view of p.
func (g *Growth) input(plot *Plot, p Plant, env GrowthEnv) catalog.Input {
	neighbors := plot.Neighbors(*p.Pos)
	view := make([]catalog.Neighbor, len(neighbors))
	for i, n := range neighbors {
		view[i] = catalog.Neighbor{
			SeedID:   n.Ident.SeedID,
			NodeID:   n.Growth.NodeID,
			Terminal: g.cat.IsTerminal(n.Growth.NodeID),
		}
	}
	spot := 0
	if env.SpotHarvests != nil {
		spot = env.SpotHarvests(*p.Pos)
	}
	return catalog.Input{
		Golden:       p.Growth.Golden,
		SeedID:       p.Ident.SeedID,
		NightWaters:  p.Stats.NightWaters,
		ComboWaters:  p.Stats.ComboWaters,
		FarmerTicks:  p.Stats.FarmerTicks,
		Visitors:     p.Stats.Visitors,
		PlantedAt:    p.Stats.PlantedAt,
		SpotHarvests: spot,
		TotalMerges:  env.TotalMerges,
		Now:          env.Now,
		Neighbors:    view,
		Roll:         env.Roll,
	}
}
