package garden

import (
	"slices"
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/systems"
)

// PlantState is a flat copy of one plant. It is what events carry, what
// queries return and what snapshots store.
type PlantState struct {
	ID          string `json:"id"`
	SeedID      string `json:"seed_id"`
	NodeID      string `json:"node_id"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Name        string `json:"name"`
	Personality string `json:"personality"`

	Golden     bool      `json:"golden"`
	Watered    bool      `json:"watered"`
	WaterCount int       `json:"water_count"`
	Progress   float64   `json:"progress"`
	Boost      float64   `json:"boost"`
	LastUpdate time.Time `json:"last_update"`

	Bonds []BondState `json:"bonds,omitempty"`
	Grief *GriefState `json:"grief,omitempty"`

	MaxedAt   time.Time            `json:"maxed_at,omitzero"`
	ElderTier components.ElderTier `json:"elder_tier"`

	Wish          *WishState `json:"wish,omitempty"`
	LastWishTime  time.Time  `json:"last_wish_time,omitzero"`
	WishesGranted int        `json:"wishes_granted"`

	NightWaters int       `json:"night_waters"`
	ComboWaters int       `json:"combo_waters"`
	FarmerTicks int       `json:"farmer_ticks"`
	Visitors    []string  `json:"visitors,omitempty"`
	PlantedAt   time.Time `json:"planted_at"`
}

// BondState is a stored bond.
type BondState struct {
	PlantID string               `json:"plant_id"`
	Since   time.Time            `json:"since"`
	Level   components.BondLevel `json:"level"`
}

// GriefState is stored grief.
type GriefState struct {
	Mourning string        `json:"mourning"`
	Since    time.Time     `json:"since"`
	Duration time.Duration `json:"duration"`
}

// WishState is a stored wish.
type WishState struct {
	Type      components.WishType `json:"type"`
	Text      string              `json:"text"`
	Emoji     string              `json:"emoji"`
	TargetID  string              `json:"target_id,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// Pos returns the plant's cell.
func (s PlantState) Pos() components.Position {
	return components.Position{X: s.X, Y: s.Y}
}

// StrongestBond returns the highest bond level the plant holds.
func (s PlantState) StrongestBond() components.BondLevel {
	best := components.Acquaintance
	for _, b := range s.Bonds {
		best = max(best, b.Level)
	}
	return best
}

func stateOf(p systems.Plant) PlantState {
	s := PlantState{
		ID:            p.Ident.ID,
		SeedID:        p.Ident.SeedID,
		NodeID:        p.Growth.NodeID,
		X:             p.Pos.X,
		Y:             p.Pos.Y,
		Name:          p.Ident.Name,
		Personality:   p.Ident.Personality,
		Golden:        p.Growth.Golden,
		Watered:       p.Growth.Watered,
		WaterCount:    p.Growth.WaterCount,
		Progress:      p.Growth.Progress,
		Boost:         p.Growth.Boost,
		LastUpdate:    p.Growth.LastUpdate,
		MaxedAt:       p.Aging.MaxedAt,
		ElderTier:     p.Aging.Tier,
		LastWishTime:  p.Desire.LastWishTime,
		WishesGranted: p.Desire.Granted,
		NightWaters:   p.Stats.NightWaters,
		ComboWaters:   p.Stats.ComboWaters,
		FarmerTicks:   p.Stats.FarmerTicks,
		Visitors:      slices.Clone(p.Stats.Visitors),
		PlantedAt:     p.Stats.PlantedAt,
	}
	for _, b := range p.Social.Bonds {
		s.Bonds = append(s.Bonds, BondState{PlantID: b.PlantID, Since: b.Since, Level: b.Level})
	}
	if g := p.Social.Grief; g != nil {
		s.Grief = &GriefState{Mourning: g.Mourning, Since: g.Since, Duration: g.Duration}
	}
	if w := p.Desire.Wish; w != nil {
		s.Wish = &WishState{
			Type:      w.Type,
			Text:      w.Text,
			Emoji:     w.Emoji,
			TargetID:  w.TargetID,
			CreatedAt: w.CreatedAt,
			ExpiresAt: w.ExpiresAt,
		}
	}
	return s
}

// spawn recreates the plant described by s on plot.
func (s PlantState) spawn(plot *systems.Plot) (systems.Plant, bool) {
	social := components.Social{}
	for _, b := range s.Bonds {
		social.Bonds = append(social.Bonds, components.Bond{PlantID: b.PlantID, Since: b.Since, Level: b.Level})
	}
	if s.Grief != nil {
		social.Grief = &components.Grief{Mourning: s.Grief.Mourning, Since: s.Grief.Since, Duration: s.Grief.Duration}
	}
	desire := components.Desire{LastWishTime: s.LastWishTime, Granted: s.WishesGranted}
	if w := s.Wish; w != nil {
		desire.Wish = &components.Wish{
			Type:      w.Type,
			Text:      w.Text,
			Emoji:     w.Emoji,
			TargetID:  w.TargetID,
			CreatedAt: w.CreatedAt,
			ExpiresAt: w.ExpiresAt,
		}
	}
	boost := s.Boost
	if boost <= 0 {
		boost = 1
	}
	return plot.Spawn(
		components.Identity{ID: s.ID, SeedID: s.SeedID, Name: s.Name, Personality: s.Personality},
		s.Pos(),
		components.Growth{
			NodeID:     s.NodeID,
			Watered:    s.Watered,
			WaterCount: s.WaterCount,
			Progress:   s.Progress,
			LastUpdate: s.LastUpdate,
			Golden:     s.Golden,
			Boost:      boost,
		},
		social,
		components.Aging{MaxedAt: s.MaxedAt, Tier: s.ElderTier},
		desire,
		components.EvoStats{
			NightWaters: s.NightWaters,
			ComboWaters: s.ComboWaters,
			FarmerTicks: s.FarmerTicks,
			Visitors:    slices.Clone(s.Visitors),
			PlantedAt:   s.PlantedAt,
		},
	)
}
