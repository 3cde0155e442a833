package systems

import (
	"time"

	"github.com/pthm-cable/garden/catalog"
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// ElderChange records a plant reaching a higher elder tier.
type ElderChange struct {
	PlantID string
	Tier    components.ElderTier
}

// Elders ages terminal plants into elder tiers.
type Elders struct {
	cfg *config.Config
	cat *catalog.Catalog
}

// NewElders creates the elder system.
func NewElders(cfg *config.Config, cat *catalog.Catalog) *Elders {
	return &Elders{cfg: cfg, cat: cat}
}

// TierFor maps time spent at a terminal node to a tier.
func (e *Elders) TierFor(atMax time.Duration) components.ElderTier {
	th := e.cfg.Derived.ElderThresholds
	for t := components.LegendaryElder; t > components.NotElder; t-- {
		if atMax >= th[t] {
			return t
		}
	}
	return components.NotElder
}

// TierAt returns the tier p holds at now.
func (e *Elders) TierAt(p Plant, now time.Time) components.ElderTier {
	if p.Aging.MaxedAt.IsZero() || !e.cat.IsTerminal(p.Growth.NodeID) {
		return components.NotElder
	}
	return e.TierFor(now.Sub(p.Aging.MaxedAt))
}

// AuraOf returns the growth bonus radiated by a plant of tier t.
func (e *Elders) AuraOf(t components.ElderTier) float64 {
	if int(t) < len(e.cfg.Derived.ElderAuras) {
		return e.cfg.Derived.ElderAuras[t]
	}
	return 0
}

// Aura sums the auras of elders adjacent to p, capped.
func (e *Elders) Aura(plot *Plot, p Plant, now time.Time) float64 {
	total := 0.0
	for _, n := range plot.Neighbors(*p.Pos) {
		total += e.AuraOf(e.TierAt(n, now))
	}
	return min(total, e.cfg.Elders.MaxAura)
}

// HarvestMultiplier returns the harvest bonus for tier t.
func (e *Elders) HarvestMultiplier(t components.ElderTier) float64 {
	if int(t) < len(e.cfg.Derived.ElderHarvest) {
		return e.cfg.Derived.ElderHarvest[t]
	}
	return 1
}

// Update stamps MaxedAt on newly terminal plants and reports tier
// promotions. A plant is never promoted on the check that stamps it.
func (e *Elders) Update(plot *Plot, now time.Time) []ElderChange {
	var out []ElderChange
	for _, p := range plot.Plants() {
		if !e.cat.IsTerminal(p.Growth.NodeID) {
			continue
		}
		if p.Aging.MaxedAt.IsZero() {
			p.Aging.MaxedAt = now
			continue
		}
		tier := e.TierFor(now.Sub(p.Aging.MaxedAt))
		if tier > p.Aging.Tier {
			p.Aging.Tier = tier
			out = append(out, ElderChange{PlantID: p.Ident.ID, Tier: tier})
		}
	}
	return out
}
