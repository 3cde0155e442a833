package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/garden"
)

// HallEntry is a retired elder remembered by the garden.
type HallEntry struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Personality   string               `json:"personality"`
	SeedID        string               `json:"seed_id"`
	NodeID        string               `json:"node_id"`
	ElderTier     components.ElderTier `json:"elder_tier"`
	RetiredAt     time.Time            `json:"retired_at"`
	TimeAlive     time.Duration        `json:"time_alive"`
	TotalBonds    int                  `json:"total_bonds"`
	StrongestBond components.BondLevel `json:"strongest_bond"`
	WishesGranted int                  `json:"wishes_granted"`
	Golden        bool                 `json:"golden"`
	Points        int                  `json:"points"`
	Epitaph       string               `json:"epitaph"`
}

// NewHallEntry describes a plant retired at the given time and tier.
func NewHallEntry(p garden.PlantState, tier components.ElderTier, points int, at time.Time) HallEntry {
	name := p.Name
	if name == "" {
		name = "Unknown"
	}
	return HallEntry{
		ID:            p.ID,
		Name:          name,
		Personality:   p.Personality,
		SeedID:        p.SeedID,
		NodeID:        p.NodeID,
		ElderTier:     tier,
		RetiredAt:     at,
		TimeAlive:     at.Sub(p.PlantedAt),
		TotalBonds:    len(p.Bonds),
		StrongestBond: p.StrongestBond(),
		WishesGranted: p.WishesGranted,
		Golden:        p.Golden,
		Points:        points,
	}
}

var epitaphs = map[string][]string{
	"legendary_soulmate": {
		"A legendary heart who loved deeply.",
		"Forever remembered for their bonds.",
		"Their love echoes through the garden.",
	},
	"legendary": {
		"A wise elder who guided many.",
		"Their wisdom lives on in new growth.",
		"A legend in their own time.",
	},
	"ancient_soulmate": {
		"An ancient soul with a warm heart.",
		"Their friendships shaped the garden.",
	},
	"ancient": {
		"Watched over many generations.",
		"A pillar of the garden community.",
	},
	"wishmaker": {
		"Made dreams come true.",
		"A giver of wishes.",
	},
	"golden": {
		"Touched by golden light.",
		"Radiant until the end.",
	},
	"default": {
		"A beloved garden friend.",
		"Gone but not forgotten.",
		"Part of the garden forever.",
	},
}

// EpitaphPool names the pool an entry's epitaph is drawn from.
func EpitaphPool(e HallEntry) string {
	soulmate := e.StrongestBond == components.Soulmate
	switch {
	case e.ElderTier == components.LegendaryElder && soulmate:
		return "legendary_soulmate"
	case e.ElderTier == components.LegendaryElder:
		return "legendary"
	case e.ElderTier == components.Ancient && soulmate:
		return "ancient_soulmate"
	case e.ElderTier == components.Ancient:
		return "ancient"
	case e.WishesGranted >= 3:
		return "wishmaker"
	case e.Golden:
		return "golden"
	default:
		return "default"
	}
}

// Epitaph picks an epitaph for the entry.
func Epitaph(e HallEntry, rng *rand.Rand) string {
	pool := epitaphs[EpitaphPool(e)]
	return pool[rng.Intn(len(pool))]
}

// FormatTimeAlive renders a lifetime as "2h 5m", "2h" or "45m".
func FormatTimeAlive(d time.Duration) string {
	minutes := int(d / time.Minute)
	hours := minutes / 60
	if hours >= 1 {
		if rest := minutes % 60; rest > 0 {
			return fmt.Sprintf("%dh %dm", hours, rest)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

// HallOfFame keeps the most recent retirees, newest first.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
	rng     *rand.Rand
}

// NewHallOfFame creates an empty hall holding at most maxSize entries.
func NewHallOfFame(maxSize int, rng *rand.Rand) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
		rng:     rng,
	}
}

// Add inserts an entry at the front, writing its epitaph if it has none,
// and drops the oldest entries beyond capacity. It returns the stored entry.
func (hof *HallOfFame) Add(e HallEntry) HallEntry {
	if e.Epitaph == "" {
		e.Epitaph = Epitaph(e, hof.rng)
	}
	hof.entries = slices.Insert(hof.entries, 0, e)
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return e
}

// Entries returns a copy of the hall, newest first.
func (hof *HallOfFame) Entries() []HallEntry {
	return slices.Clone(hof.entries)
}

// SetEntries replaces the hall's content, keeping at most maxSize entries.
func (hof *HallOfFame) SetEntries(entries []HallEntry) {
	hof.entries = slices.Clone(entries)
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
}

// Len returns the number of entries.
func (hof *HallOfFame) Len() int {
	return len(hof.entries)
}

// MarshalJSON serializes the hall of fame as an indented list.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	entries := hof.entries
	if entries == nil {
		entries = []HallEntry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file.
func LoadHallOfFameFromFile(path string, maxSize int, rng *rand.Rand) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(maxSize, rng)
	hof.SetEntries(entries)
	return hof, nil
}
