package systems

import (
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// BondChange records a bond reaching a higher level, seen from PlantID.
type BondChange struct {
	PlantID string
	OtherID string
	Level   components.BondLevel
}

// Mourner records grief started by a removal.
type Mourner struct {
	PlantID  string
	Mourning string
	Level    components.BondLevel
	Duration time.Duration
}

// Bonds maintains adjacency bonds and grief.
type Bonds struct {
	cfg *config.Config
}

// NewBonds creates the bond system.
func NewBonds(cfg *config.Config) *Bonds {
	return &Bonds{cfg: cfg}
}

// LevelFor maps continuous adjacency time to a bond level.
func (b *Bonds) LevelFor(together time.Duration) components.BondLevel {
	th := b.cfg.Derived.BondThresholds
	for l := components.Soulmate; l > components.Acquaintance; l-- {
		if together >= th[l] {
			return l
		}
	}
	return components.Acquaintance
}

// Boost sums the per-bond growth bonuses, capped.
func (b *Bonds) Boost(s *components.Social) float64 {
	total := 0.0
	for _, bond := range s.Bonds {
		if int(bond.Level) < len(b.cfg.Derived.BondBoosts) {
			total += b.cfg.Derived.BondBoosts[bond.Level]
		}
	}
	return min(total, b.cfg.Bonds.MaxBoost)
}

// GriefDuration returns how long losing a bond of level l is mourned.
func (b *Bonds) GriefDuration(l components.BondLevel) time.Duration {
	if int(l) < len(b.cfg.Derived.GriefDurations) {
		return b.cfg.Derived.GriefDurations[l]
	}
	return 0
}

// Update prunes bonds with plants that are no longer adjacent, opens new
// acquaintances, promotes existing bonds and ends expired grief.
// Promotions are reported from each member's side in plot order.
func (b *Bonds) Update(plot *Plot, now time.Time) []BondChange {
	var out []BondChange
	for _, p := range plot.Plants() {
		neighbors := plot.Neighbors(*p.Pos)
		adjacent := make(map[string]bool, len(neighbors))
		for _, n := range neighbors {
			adjacent[n.Ident.ID] = true
		}

		s := p.Social
		kept := s.Bonds[:0]
		for _, bond := range s.Bonds {
			if adjacent[bond.PlantID] {
				kept = append(kept, bond)
			}
		}
		s.Bonds = kept

		for _, n := range neighbors {
			bond, ok := s.Bond(n.Ident.ID)
			if !ok {
				s.Bonds = append(s.Bonds, components.Bond{
					PlantID: n.Ident.ID,
					Since:   now,
					Level:   components.Acquaintance,
				})
				continue
			}
			level := b.LevelFor(now.Sub(bond.Since))
			if level > bond.Level {
				bond.Level = level
				out = append(out, BondChange{PlantID: p.Ident.ID, OtherID: n.Ident.ID, Level: level})
			}
		}

		if s.Grief != nil && now.Sub(s.Grief.Since) >= s.Grief.Duration {
			s.Grief = nil
		}
	}
	return out
}

// Grieve starts grief on every plant bonded above acquaintance to the
// plant being removed, then drops all bonds pointing at it.
func (b *Bonds) Grieve(plot *Plot, removedID, removedName string, now time.Time) []Mourner {
	if removedName == "" {
		removedName = "a friend"
	}
	var out []Mourner
	for _, p := range plot.Plants() {
		if p.Ident.ID == removedID {
			continue
		}
		bond, ok := p.Social.Bond(removedID)
		if ok && bond.Level > components.Acquaintance {
			if d := b.GriefDuration(bond.Level); d > 0 {
				p.Social.Grief = &components.Grief{Mourning: removedName, Since: now, Duration: d}
				out = append(out, Mourner{PlantID: p.Ident.ID, Mourning: removedName, Level: bond.Level, Duration: d})
			}
		}
		b.forget(p.Social, removedID)
	}
	return out
}

// Forget drops every bond pointing at id without grief.
func (b *Bonds) Forget(plot *Plot, id string) {
	plot.Scan(func(p Plant) {
		b.forget(p.Social, id)
	})
}

func (b *Bonds) forget(s *components.Social, id string) {
	kept := s.Bonds[:0]
	for _, bond := range s.Bonds {
		if bond.PlantID != id {
			kept = append(kept, bond)
		}
	}
	s.Bonds = kept
}

// Deepen moves bond start times back by d, making them mature sooner.
// An empty otherID deepens every bond of s.
func (b *Bonds) Deepen(s *components.Social, otherID string, d time.Duration) {
	for i := range s.Bonds {
		if otherID == "" || s.Bonds[i].PlantID == otherID {
			s.Bonds[i].Since = s.Bonds[i].Since.Add(-d)
		}
	}
}
