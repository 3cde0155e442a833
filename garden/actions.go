package garden

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/systems"
	"github.com/pthm-cable/garden/traits"
)

// Place plants the session's selected seed at pos.
func (g *Garden) Place(pos components.Position, now time.Time) (PlantState, bool) {
	return g.PlaceSeed(pos, g.session.SelectedSeed(), now)
}

// PlaceSeed plants seedID at pos. It fails when the cell is off-grid or
// occupied, or the seed is unknown.
func (g *Garden) PlaceSeed(pos components.Position, seedID string, now time.Time) (PlantState, bool) {
	start, ok := g.cat.Start(seedID)
	if !ok || !g.plot.InBounds(pos) {
		return PlantState{}, false
	}
	if _, taken := g.plot.At(pos); taken {
		return PlantState{}, false
	}

	p, ok := g.plot.Spawn(
		components.Identity{
			ID:          g.newID(),
			SeedID:      seedID,
			Name:        traits.Name(seedID, g.rng),
			Personality: traits.Pick(seedID, g.rng).String(),
		},
		pos,
		components.Growth{
			NodeID:     start.ID,
			LastUpdate: now,
			Golden:     g.rng.Float64() < g.cfg.Economy.GoldenChance,
			Boost:      1,
		},
		components.Social{},
		components.Aging{},
		components.Desire{},
		components.EvoStats{PlantedAt: now},
	)
	if !ok {
		return PlantState{}, false
	}
	state := stateOf(p)
	g.emit(Event{Type: EventPlaced, At: now, Plant: state})
	g.CheckWishFulfillment(systems.WishContext{NeighborJustPlanted: true}, now)
	return state, true
}

// Water waters the plant at pos. Free waterings skip the session's water
// check. It fails on empty cells and already watered plants.
func (g *Garden) Water(pos components.Position, now time.Time, free bool) bool {
	p, ok := g.plot.At(pos)
	if !ok || p.Growth.Watered {
		return false
	}
	if !free && !g.session.CanSpendWater() {
		return false
	}

	night := g.cfg.IsNight(now.Hour())
	p.Growth.Watered = true
	p.Growth.WaterCount++
	p.Growth.LastUpdate = now
	if night {
		p.Stats.NightWaters++
	}
	g.emit(Event{Type: EventWatered, At: now, Plant: stateOf(p), Free: free, Night: night})

	g.trackCombo(p.Ident.ID, now)
	g.CheckWishFulfillment(systems.WishContext{JustWatered: true, IsNight: night}, now)
	return true
}

// trackCombo records a watering and fires a combo once enough distinct
// plants were watered inside the window.
func (g *Garden) trackCombo(id string, now time.Time) {
	eco := g.cfg.Economy
	kept := g.recentWaters[:0]
	for _, m := range g.recentWaters {
		if now.Sub(m.at) <= eco.ComboWindow && m.id != id {
			kept = append(kept, m)
		}
	}
	g.recentWaters = append(kept, waterMark{id: id, at: now})
	if len(g.recentWaters) < eco.ComboMinSize {
		return
	}

	ids := make([]string, 0, len(g.recentWaters))
	for _, m := range g.recentWaters {
		p, ok := g.plot.ByID(m.id)
		if !ok {
			continue
		}
		p.Growth.Boost = max(p.Growth.Boost, eco.ComboGrowthBoost)
		p.Stats.ComboWaters++
		ids = append(ids, m.id)
	}
	g.recentWaters = g.recentWaters[:0]

	state, _ := g.Plant(id)
	g.emit(Event{Type: EventComboWatered, At: now, Plant: state, PlantIDs: ids})
}

// CanMerge reports whether the plant at src can be merged into dst.
func (g *Garden) CanMerge(src, dst components.Position) bool {
	if src == dst {
		return false
	}
	a, ok := g.plot.At(src)
	if !ok {
		return false
	}
	b, ok := g.plot.At(dst)
	if !ok {
		return false
	}
	if a.Ident.SeedID != b.Ident.SeedID || a.Growth.NodeID != b.Growth.NodeID {
		return false
	}
	if !a.Growth.Watered || !b.Growth.Watered {
		return false
	}
	_, ok = g.cat.DefaultNext(b.Growth.NodeID)
	return ok && !g.cat.IsTerminal(b.Growth.NodeID)
}

// Merge consumes the plant at src and pushes the plant at dst to its
// default next node. Conditional branches are never taken by a merge.
func (g *Garden) Merge(src, dst components.Position, now time.Time) bool {
	if !g.CanMerge(src, dst) {
		return false
	}
	source, _ := g.plot.At(src)
	target, _ := g.plot.At(dst)
	removed := stateOf(source)
	targetID := target.Ident.ID
	from := target.Growth.NodeID
	to, _ := g.cat.DefaultNext(from)

	g.bonds.Forget(g.plot, removed.ID)
	g.plot.Remove(removed.ID)

	t, ok := g.plot.ByID(targetID)
	if !ok {
		return false
	}
	t.Growth.NodeID = to
	t.Growth.Watered = false
	t.Growth.WaterCount = 0
	t.Growth.Progress = 0
	t.Growth.Boost = 1
	t.Growth.LastUpdate = now
	t.Growth.Golden = t.Growth.Golden || removed.Golden
	g.merges++

	g.emit(Event{
		Type:      EventMerged,
		At:        now,
		Plant:     stateOf(t),
		OtherID:   removed.ID,
		Removed:   &removed,
		From:      from,
		To:        to,
		Legendary: g.cat.IsLegendary(to),
	})
	return true
}

// Harvest removes the terminal plant at pos and returns the points earned.
func (g *Garden) Harvest(pos components.Position, now time.Time) (int, bool) {
	return g.harvest(pos, now, false)
}

// Retire removes an ancient or legendary elder at pos with the retirement
// bonus on top of its harvest value.
func (g *Garden) Retire(pos components.Position, now time.Time) (int, bool) {
	return g.harvest(pos, now, true)
}

// CanRetire reports whether the plant at pos may be retired at now.
func (g *Garden) CanRetire(pos components.Position, now time.Time) bool {
	p, ok := g.plot.At(pos)
	return ok && g.cat.IsTerminal(p.Growth.NodeID) && g.elders.TierAt(p, now) >= components.Ancient
}

// HarvestValue returns the points a harvest (or retirement) at pos would
// earn at now, without performing it.
func (g *Garden) HarvestValue(pos components.Position, now time.Time, retiring bool) (int, bool) {
	p, ok := g.plot.At(pos)
	if !ok || !g.cat.IsTerminal(p.Growth.NodeID) {
		return 0, false
	}
	return g.points(p, g.elders.TierAt(p, now), retiring), true
}

func (g *Garden) points(p systems.Plant, tier components.ElderTier, retiring bool) int {
	eco := g.cfg.Economy
	points := float64(g.cat.Points(p.Growth.NodeID))
	if p.Growth.Golden {
		points *= eco.GoldenMultiplier
	}

	same := 0
	for _, off := range components.Offsets4 {
		n, ok := g.plot.At(components.Position{X: p.Pos.X + off.X, Y: p.Pos.Y + off.Y})
		if ok && n.Ident.SeedID == p.Ident.SeedID {
			same++
		}
	}
	points = math.Round(points * (1 + float64(same)*eco.NeighborBonus))
	points = math.Round(points * g.elders.HarvestMultiplier(tier))
	if retiring {
		points = math.Round(points * eco.RetireMultiplier)
	}
	return int(points)
}

func (g *Garden) harvest(pos components.Position, now time.Time, retiring bool) (int, bool) {
	p, ok := g.plot.At(pos)
	if !ok || !g.cat.IsTerminal(p.Growth.NodeID) {
		return 0, false
	}
	tier := g.elders.TierAt(p, now)
	if retiring && tier < components.Ancient {
		return 0, false
	}

	points := g.points(p, tier, retiring)
	state := stateOf(p)
	reaction := ""
	if t, ok := traits.Parse(state.Personality); ok {
		reaction = traits.Reaction(t, g.rng)
	}

	for _, m := range g.bonds.Grieve(g.plot, state.ID, state.Name, now) {
		mourner, _ := g.Plant(m.PlantID)
		g.emit(Event{
			Type:     EventGrieving,
			At:       now,
			Plant:    mourner,
			OtherID:  state.ID,
			Level:    m.Level,
			Mourning: m.Mourning,
		})
	}

	g.plot.Remove(state.ID)
	g.spotHarvests[pos.Key()]++

	if retiring {
		g.emit(Event{Type: EventRetired, At: now, Plant: state, Points: points, Tier: tier})
	}
	g.emit(Event{
		Type:      EventHarvested,
		At:        now,
		Plant:     state,
		Points:    points,
		Tier:      tier,
		Legendary: g.cat.IsLegendary(state.NodeID),
		Reaction:  reaction,
	})
	return points, true
}

// NeedsConfirm returns a reason when harvesting the plant at pos would
// lose something the player may want to keep.
func (g *Garden) NeedsConfirm(pos components.Position, now time.Time) (string, bool) {
	p, ok := g.plot.At(pos)
	if !ok {
		return "", false
	}
	name := p.Ident.Name
	if name == "" {
		name = "This plant"
	}

	if p.Social.Strongest() == components.Soulmate {
		var names []string
		for _, b := range p.Social.Bonds {
			if b.Level == components.Acquaintance {
				continue
			}
			other := "Unknown"
			if n, ok := g.plot.ByID(b.PlantID); ok && n.Ident.Name != "" {
				other = n.Ident.Name
			}
			names = append(names, other)
		}
		return fmt.Sprintf("%s is soulmates with %s. They will grieve for a long time.", name, strings.Join(names, ", ")), true
	}

	switch g.elders.TierAt(p, now) {
	case components.LegendaryElder:
		return fmt.Sprintf("%s is a legendary elder! Its wisdom benefits the entire garden.", name), true
	case components.Ancient:
		return fmt.Sprintf("%s is an ancient elder. Are you sure you want to harvest it?", name), true
	}
	return "", false
}

// MarkVisitorTouch records that a visitor kind touched the plant. Each
// kind is recorded once per plant. It reports whether the touch was new.
func (g *Garden) MarkVisitorTouch(id, kind string, now time.Time) bool {
	p, ok := g.plot.ByID(id)
	if !ok || kind == "" || p.Stats.Touched(kind) {
		return false
	}
	p.Stats.Visitors = append(p.Stats.Visitors, kind)
	g.emit(Event{Type: EventVisitorTouched, At: now, Plant: stateOf(p), Visitor: kind})
	g.CheckWishFulfillment(systems.WishContext{VisitorJustTouched: kind}, now)
	return true
}

// Pollinate boosts every plant within one cell of center and records a
// touch by kind on each. It returns the ids of the plants reached.
func (g *Garden) Pollinate(center components.Position, kind string, now time.Time) []string {
	var ids []string
	for _, p := range g.plot.Plants() {
		if !p.Pos.Near(center) {
			continue
		}
		p.Growth.Boost = max(p.Growth.Boost, g.cfg.Visitors.PollinateBoost)
		ids = append(ids, p.Ident.ID)
	}
	for _, id := range ids {
		g.MarkVisitorTouch(id, kind, now)
	}
	return ids
}

// InstantGrow completes the current stage of a watered, growing plant.
func (g *Garden) InstantGrow(id string, now time.Time) bool {
	p, ok := g.plot.ByID(id)
	if !ok {
		return false
	}
	evo, ok := g.growth.Evolve(g.plot, p, g.env(now, 1))
	if !ok {
		return false
	}
	g.emitEvolution(evo, now)
	return true
}
