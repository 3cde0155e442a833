package garden

import (
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/systems"
)

func (g *Garden) env(now time.Time, mult float64) systems.GrowthEnv {
	return systems.GrowthEnv{
		Now:          now,
		Multiplier:   mult,
		Farmer:       g.farmer,
		TotalMerges:  g.session.TotalMerges(),
		SpotHarvests: g.SpotHarvests,
		Roll:         g.rng.Float64,
	}
}

func (g *Garden) emitEvolution(evo systems.Evolution, now time.Time) {
	state, _ := g.Plant(evo.PlantID)
	legendary := g.cat.IsLegendary(evo.To)
	g.emit(Event{
		Type:      EventEvolved,
		At:        now,
		Plant:     state,
		From:      evo.From,
		To:        evo.To,
		Special:   evo.Special,
		Legendary: legendary,
	})
	if !g.session.IsDiscovered(evo.To) {
		g.emit(Event{Type: EventDiscovered, At: now, Plant: state, To: evo.To, Legendary: legendary})
	}
}

// UpdateGrowth advances every plant to now and returns the number of
// evolutions. All plants see the same now.
func (g *Garden) UpdateGrowth(now time.Time, mult float64) int {
	evos := g.growth.Update(g.plot, g.env(now, mult))
	for _, evo := range evos {
		g.emitEvolution(evo, now)
	}
	g.lastTick = now
	return len(evos)
}

// UpdateBonds runs a bond check.
func (g *Garden) UpdateBonds(now time.Time) {
	g.lastBondCheck = now
	for _, c := range g.bonds.Update(g.plot, now) {
		state, _ := g.Plant(c.PlantID)
		g.emit(Event{Type: EventBondFormed, At: now, Plant: state, OtherID: c.OtherID, Level: c.Level})
	}
}

// UpdateElders runs an elder check.
func (g *Garden) UpdateElders(now time.Time) {
	g.lastElderCheck = now
	for _, c := range g.elders.Update(g.plot, now) {
		state, _ := g.Plant(c.PlantID)
		g.emit(Event{Type: EventElderReached, At: now, Plant: state, Tier: c.Tier})
	}
}

// UpdateWishes expires old wishes and rolls new ones.
func (g *Garden) UpdateWishes(now time.Time) {
	g.lastWishCheck = now
	appeared, _ := g.wishes.Update(g.plot, now)
	for _, c := range appeared {
		state, _ := g.Plant(c.PlantID)
		wish := c.Wish
		g.emit(Event{Type: EventWishAppeared, At: now, Plant: state, OtherID: wish.TargetID, Wish: &wish})
	}
}

// CheckWishFulfillment resolves active wishes against what just happened.
// A fulfilled plant's bonds mature by the wish's bonus: the bond with the
// wish target when there is one, otherwise every bond.
func (g *Garden) CheckWishFulfillment(ctx systems.WishContext, now time.Time) int {
	changes := g.wishes.Resolve(g.plot, ctx, now)
	for _, c := range changes {
		p, ok := g.plot.ByID(c.PlantID)
		if !ok {
			continue
		}
		g.bonds.Deepen(p.Social, c.Wish.TargetID, g.wishes.Bonus(c.Wish.Type))
		wish := c.Wish
		g.emit(Event{
			Type:    EventWishFulfilled,
			At:      now,
			Plant:   stateOf(p),
			OtherID: wish.TargetID,
			Wish:    &wish,
			Points:  g.cfg.Economy.WishReward,
		})
	}
	return len(changes)
}

// Due reports which coarse checks have an elapsed interval at now.
type Due struct {
	Bonds  bool
	Wishes bool
	Elders bool
}

// Due reports which coarse checks Tick would run at now.
func (g *Garden) Due(now time.Time) Due {
	t := g.cfg.Timing
	elapsed := func(last time.Time, every time.Duration) bool {
		return last.IsZero() || now.Sub(last) >= every
	}
	return Due{
		Bonds:  elapsed(g.lastBondCheck, t.BondCheckInterval),
		Wishes: elapsed(g.lastWishCheck, t.WishCheckInterval),
		Elders: elapsed(g.lastElderCheck, t.ElderCheckInterval),
	}
}

// Phases of a Tick, in the order they run.
const (
	PhaseGrowth = "growth"
	PhaseBonds  = "bonds"
	PhaseWishes = "wishes"
	PhaseElders = "elders"
)

// Tick runs one growth update and any coarser check whose interval has
// elapsed since it last ran. phase, when set, is called as each phase
// begins, whether or not its check is due.
func (g *Garden) Tick(now time.Time, mult float64, phase func(name string)) {
	if phase == nil {
		phase = func(string) {}
	}
	due := g.Due(now)

	phase(PhaseGrowth)
	g.UpdateGrowth(now, mult)

	phase(PhaseBonds)
	if due.Bonds {
		g.UpdateBonds(now)
	}

	phase(PhaseWishes)
	if due.Wishes {
		g.UpdateWishes(now)
	}

	phase(PhaseElders)
	if due.Elders {
		g.UpdateElders(now)
	}
}

// CatchUp replays growth from the last tick to now in growth-tick steps
// under mult, then runs one bond and elder check. Time beyond
// timing.max_offline is forfeited, so calling CatchUp again with the same
// now does nothing. It returns the number of evolutions.
func (g *Garden) CatchUp(now time.Time, mult float64) int {
	start := g.lastTick
	if start.IsZero() {
		for _, p := range g.plot.Plants() {
			if start.IsZero() || p.Growth.LastUpdate.Before(start) {
				start = p.Growth.LastUpdate
			}
		}
	}
	if start.IsZero() || !now.After(start) {
		g.lastTick = now
		return 0
	}

	end := now
	if limit := start.Add(g.cfg.Timing.MaxOffline); end.After(limit) {
		end = limit
	}

	evolutions := 0
	step := g.cfg.Timing.GrowthTick
	for t := start.Add(step); t.Before(end); t = t.Add(step) {
		evolutions += g.UpdateGrowth(t, mult)
	}
	evolutions += g.UpdateGrowth(end, mult)

	if now.After(end) {
		for _, p := range g.plot.Plants() {
			p.Growth.LastUpdate = now
		}
	}
	g.lastTick = now
	g.UpdateBonds(now)
	g.UpdateElders(now)
	return evolutions
}

// Reset removes every plant and clears all garden-level counters.
func (g *Garden) Reset() {
	g.plot.Clear()
	g.recentWaters = g.recentWaters[:0]
	clear(g.spotHarvests)
	g.merges = 0
	g.farmer = nil
	g.lastTick = time.Time{}
	g.lastBondCheck = time.Time{}
	g.lastWishCheck = time.Time{}
	g.lastElderCheck = time.Time{}
}

// ElderCounts returns how many plants hold each elder tier at now.
func (g *Garden) ElderCounts(now time.Time) map[components.ElderTier]int {
	out := make(map[components.ElderTier]int)
	g.plot.Scan(func(p systems.Plant) {
		if t := g.elders.TierAt(p, now); t > components.NotElder {
			out[t]++
		}
	})
	return out
}
