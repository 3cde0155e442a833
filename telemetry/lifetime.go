package telemetry

import (
	"time"

	"github.com/pthm-cable/garden/garden"
)

// LifetimeStats tracks per-plant statistics over its lifetime.
type LifetimeStats struct {
	PlantID     string
	SeedID      string
	Name        string
	Personality string
	PlantedAt   time.Time
	Golden      bool

	Waterings     int
	Evolutions    int
	Specials      int
	Combos        int
	Touches       int
	WishesGranted int
	BondsFormed   int

	retiring bool
}

// LifetimeRecord is one row of lifetimes.csv, written when a plant leaves.
type LifetimeRecord struct {
	PlantID       string  `csv:"plant_id"`
	SeedID        string  `csv:"seed_id"`
	Name          string  `csv:"name"`
	Personality   string  `csv:"personality"`
	FinalNode     string  `csv:"final_node"`
	End           string  `csv:"end"`
	AgeMin        float64 `csv:"age_min"`
	Golden        bool    `csv:"golden"`
	Waterings     int     `csv:"waterings"`
	Evolutions    int     `csv:"evolutions"`
	Specials      int     `csv:"specials"`
	Combos        int     `csv:"combos"`
	Touches       int     `csv:"touches"`
	WishesGranted int     `csv:"wishes_granted"`
	BondsFormed   int     `csv:"bonds_formed"`
	Points        int     `csv:"points"`
}

// How a plant left the garden.
const (
	EndHarvested = "harvested"
	EndRetired   = "retired"
	EndMerged    = "merged"
)

// LifetimeTracker manages per-plant lifetime statistics.
type LifetimeTracker struct {
	stats map[string]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[string]*LifetimeStats),
	}
}

// Register creates lifetime stats for a plant. Plants first seen through a
// later event (for example after a restore) are registered on the fly.
func (lt *LifetimeTracker) Register(p garden.PlantState) *LifetimeStats {
	s := &LifetimeStats{
		PlantID:     p.ID,
		SeedID:      p.SeedID,
		Name:        p.Name,
		Personality: p.Personality,
		PlantedAt:   p.PlantedAt,
		Golden:      p.Golden,
	}
	lt.stats[p.ID] = s
	return s
}

func (lt *LifetimeTracker) get(p garden.PlantState) *LifetimeStats {
	if p.ID == "" {
		return nil
	}
	if s := lt.stats[p.ID]; s != nil {
		return s
	}
	return lt.Register(p)
}

// Get returns the lifetime stats for a plant, or nil if not found.
func (lt *LifetimeTracker) Get(plantID string) *LifetimeStats {
	return lt.stats[plantID]
}

// Observe folds a garden event into the tracked stats. It returns a record
// when the event removed a plant from the garden.
func (lt *LifetimeTracker) Observe(e garden.Event) *LifetimeRecord {
	switch e.Type {
	case garden.EventPlaced:
		lt.Register(e.Plant)
	case garden.EventWatered:
		if s := lt.get(e.Plant); s != nil {
			s.Waterings++
		}
	case garden.EventEvolved:
		if s := lt.get(e.Plant); s != nil {
			s.Evolutions++
			if e.Special {
				s.Specials++
			}
		}
	case garden.EventComboWatered:
		for _, id := range e.PlantIDs {
			if s := lt.stats[id]; s != nil {
				s.Combos++
			}
		}
	case garden.EventVisitorTouched:
		if s := lt.get(e.Plant); s != nil {
			s.Touches++
		}
	case garden.EventWishFulfilled:
		if s := lt.get(e.Plant); s != nil {
			s.WishesGranted++
		}
	case garden.EventBondFormed:
		if s := lt.get(e.Plant); s != nil {
			s.BondsFormed++
		}
	case garden.EventRetired:
		if s := lt.get(e.Plant); s != nil {
			s.retiring = true
		}
	case garden.EventMerged:
		if s := lt.get(e.Plant); s != nil {
			s.Evolutions++
			s.Golden = e.Plant.Golden
		}
		if e.Removed != nil {
			return lt.remove(*e.Removed, EndMerged, 0, e.At)
		}
	case garden.EventHarvested:
		end := EndHarvested
		if s := lt.stats[e.Plant.ID]; s != nil && s.retiring {
			end = EndRetired
		}
		return lt.remove(e.Plant, end, e.Points, e.At)
	}
	return nil
}

func (lt *LifetimeTracker) remove(p garden.PlantState, end string, points int, at time.Time) *LifetimeRecord {
	s := lt.get(p)
	if s == nil {
		return nil
	}
	delete(lt.stats, p.ID)
	return &LifetimeRecord{
		PlantID:       s.PlantID,
		SeedID:        s.SeedID,
		Name:          s.Name,
		Personality:   s.Personality,
		FinalNode:     p.NodeID,
		End:           end,
		AgeMin:        at.Sub(s.PlantedAt).Minutes(),
		Golden:        s.Golden || p.Golden,
		Waterings:     s.Waterings,
		Evolutions:    s.Evolutions,
		Specials:      s.Specials,
		Combos:        s.Combos,
		Touches:       s.Touches,
		WishesGranted: s.WishesGranted,
		BondsFormed:   s.BondsFormed,
		Points:        points,
	}
}

// Count returns the number of tracked plants.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// Reset forgets every tracked plant.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
}
