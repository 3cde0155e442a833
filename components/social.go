package components

import "time"

// BondLevel is an ordered relationship strength. Comparisons between
// levels rely on the numeric order of these constants.
type BondLevel uint8

const (
	Acquaintance BondLevel = iota
	Friend
	BestFriend
	Soulmate
)

// Bond links a plant to an adjacent plant.
type Bond struct {
	PlantID string
	Since   time.Time
	Level   BondLevel
}

// Grief is a temporary growth penalty after losing a bonded neighbor.
type Grief struct {
	Mourning string
	Since    time.Time
	Duration time.Duration
}

// Active reports whether grief is still in effect at now.
func (g *Grief) Active(now time.Time) bool {
	return g != nil && g.Since.Add(g.Duration).After(now)
}

// Social holds a plant's bonds and grief.
type Social struct {
	Bonds []Bond
	Grief *Grief
}

// Bond returns the bond with plantID, if any.
func (s *Social) Bond(plantID string) (*Bond, bool) {
	for i := range s.Bonds {
		if s.Bonds[i].PlantID == plantID {
			return &s.Bonds[i], true
		}
	}
	return nil, false
}

// Strongest returns the highest bond level held, Acquaintance when none.
func (s *Social) Strongest() BondLevel {
	best := Acquaintance
	for _, b := range s.Bonds {
		if b.Level > best {
			best = b.Level
		}
	}
	return best
}
