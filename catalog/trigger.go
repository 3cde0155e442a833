package catalog

import (
	"slices"
	"time"
)

// TriggerKind tags which predicate a Trigger evaluates.
type TriggerKind string

const (
	TriggerGolden            TriggerKind = "golden"
	TriggerNightWater        TriggerKind = "night_water"
	TriggerComboWater        TriggerKind = "combo_water"
	TriggerVisitorTouch      TriggerKind = "visitor_touch"
	TriggerFarmerBoosted     TriggerKind = "farmer_boosted"
	TriggerNeighborCount     TriggerKind = "neighbor_count"
	TriggerNeighborSame      TriggerKind = "neighbor_same"
	TriggerNeighborDiverse   TriggerKind = "neighbor_diverse"
	TriggerAge               TriggerKind = "age"
	TriggerHarvestSpot       TriggerKind = "harvest_spot"
	TriggerMergeCount        TriggerKind = "merge_count"
	TriggerSeason            TriggerKind = "season"
	TriggerMonth             TriggerKind = "month"
	TriggerNeighborEvolution TriggerKind = "neighbor_evolution"
	TriggerAllNeighborsMax   TriggerKind = "all_neighbors_max"
	TriggerRandom            TriggerKind = "random"
)

// Seasons accepted by the season trigger.
const (
	Spring = "spring"
	Summer = "summer"
	Fall   = "fall"
	Winter = "winter"
)

// Trigger is a conditional-branch predicate. Kind selects the variant;
// only the parameter fields that variant uses are read.
type Trigger struct {
	Kind    TriggerKind `yaml:"kind" json:"kind"`
	Count   int         `yaml:"count,omitempty" json:"count,omitempty"`
	Min     int         `yaml:"min,omitempty" json:"min,omitempty"`
	Visitor string      `yaml:"visitor,omitempty" json:"visitor,omitempty"`
	Hours   float64     `yaml:"hours,omitempty" json:"hours,omitempty"`
	Season  string      `yaml:"season,omitempty" json:"season,omitempty"`
	Month   int         `yaml:"month,omitempty" json:"month,omitempty"`
	Node    string      `yaml:"node,omitempty" json:"node,omitempty"`
	Chance  float64     `yaml:"chance,omitempty" json:"chance,omitempty"`
}

// Neighbor is the view of an adjacent plant a trigger can inspect.
type Neighbor struct {
	SeedID   string
	NodeID   string
	Terminal bool
}

// Input is everything a trigger may read. It is assembled by the caller
// for a single evaluation and never mutated by Eval.
type Input struct {
	Golden       bool
	SeedID       string
	NightWaters  int
	ComboWaters  int
	FarmerTicks  int
	Visitors     []string
	PlantedAt    time.Time
	SpotHarvests int
	TotalMerges  int
	Now          time.Time
	Neighbors    []Neighbor

	// Roll returns a uniform draw in [0,1). A nil Roll makes random triggers false.
	Roll func() float64
}

// Valid reports whether the trigger has a known kind and sane parameters.
func (t Trigger) Valid() bool {
	switch t.Kind {
	case TriggerGolden, TriggerAllNeighborsMax:
		return true
	case TriggerNightWater, TriggerComboWater, TriggerFarmerBoosted,
		TriggerHarvestSpot, TriggerMergeCount:
		return t.Count > 0
	case TriggerVisitorTouch:
		return true
	case TriggerNeighborCount, TriggerNeighborSame, TriggerNeighborDiverse:
		return t.Min > 0 && t.Min <= 8
	case TriggerAge:
		return t.Hours > 0
	case TriggerSeason:
		return t.Season == Spring || t.Season == Summer || t.Season == Fall || t.Season == Winter
	case TriggerMonth:
		return t.Month >= 1 && t.Month <= 12
	case TriggerNeighborEvolution:
		return t.Node != ""
	case TriggerRandom:
		return t.Chance > 0 && t.Chance <= 1
	default:
		return false
	}
}

// Eval reports whether the trigger is satisfied. Malformed or unknown
// triggers are never satisfied.
func (t Trigger) Eval(in *Input) bool {
	if in == nil || !t.Valid() {
		return false
	}

	switch t.Kind {
	case TriggerGolden:
		return in.Golden
	case TriggerNightWater:
		return in.NightWaters >= t.Count
	case TriggerComboWater:
		return in.ComboWaters >= t.Count
	case TriggerVisitorTouch:
		if t.Visitor != "" {
			return slices.Contains(in.Visitors, t.Visitor)
		}
		return len(in.Visitors) > 0
	case TriggerFarmerBoosted:
		return in.FarmerTicks >= t.Count
	case TriggerNeighborCount:
		return len(in.Neighbors) >= t.Min
	case TriggerNeighborSame:
		same := 0
		for _, n := range in.Neighbors {
			if n.SeedID == in.SeedID {
				same++
			}
		}
		return same >= t.Min
	case TriggerNeighborDiverse:
		distinct := make(map[string]struct{}, len(in.Neighbors))
		for _, n := range in.Neighbors {
			distinct[n.NodeID] = struct{}{}
		}
		return len(distinct) >= t.Min
	case TriggerAge:
		if in.PlantedAt.IsZero() {
			return false
		}
		return in.Now.Sub(in.PlantedAt).Hours() >= t.Hours
	case TriggerHarvestSpot:
		return in.SpotHarvests >= t.Count
	case TriggerMergeCount:
		return in.TotalMerges >= t.Count
	case TriggerSeason:
		return SeasonOf(in.Now.Month()) == t.Season
	case TriggerMonth:
		return int(in.Now.Month()) == t.Month
	case TriggerNeighborEvolution:
		for _, n := range in.Neighbors {
			if n.NodeID == t.Node {
				return true
			}
		}
		return false
	case TriggerAllNeighborsMax:
		if len(in.Neighbors) != 8 {
			return false
		}
		for _, n := range in.Neighbors {
			if !n.Terminal {
				return false
			}
		}
		return true
	case TriggerRandom:
		if in.Roll == nil {
			return false
		}
		return in.Roll() < t.Chance
	}
	return false
}

// SeasonOf maps a month to its northern-hemisphere season.
func SeasonOf(m time.Month) string {
	switch {
	case m >= time.March && m <= time.May:
		return Spring
	case m >= time.June && m <= time.August:
		return Summer
	case m >= time.September && m <= time.November:
		return Fall
	default:
		return Winter
	}
}
