package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerEval(t *testing.T) {
	now := time.Date(2025, 10, 15, 22, 0, 0, 0, time.UTC)
	eight := make([]Neighbor, 8)
	for i := range eight {
		eight[i] = Neighbor{SeedID: "bean", NodeID: "bean_beanstalk", Terminal: true}
	}
	eightMixed := append([]Neighbor(nil), eight...)
	eightMixed[3].Terminal = false

	base := Input{
		SeedID:       "sprout",
		NightWaters:  2,
		ComboWaters:  1,
		FarmerTicks:  10,
		Visitors:     []string{"bee"},
		PlantedAt:    now.Add(-90 * time.Minute),
		SpotHarvests: 3,
		TotalMerges:  4,
		Now:          now,
		Neighbors: []Neighbor{
			{SeedID: "sprout", NodeID: "sprout_bud"},
			{SeedID: "sprout", NodeID: "sprout_bud"},
			{SeedID: "bean", NodeID: "bean_vine"},
		},
	}

	tests := []struct {
		name    string
		trigger Trigger
		mutate  func(in *Input)
		want    bool
	}{
		{"golden false", Trigger{Kind: TriggerGolden}, nil, false},
		{"golden true", Trigger{Kind: TriggerGolden}, func(in *Input) { in.Golden = true }, true},
		{"night water met", Trigger{Kind: TriggerNightWater, Count: 2}, nil, true},
		{"night water short", Trigger{Kind: TriggerNightWater, Count: 3}, nil, false},
		{"combo water short", Trigger{Kind: TriggerComboWater, Count: 2}, nil, false},
		{"any visitor", Trigger{Kind: TriggerVisitorTouch}, nil, true},
		{"specific visitor missing", Trigger{Kind: TriggerVisitorTouch, Visitor: "butterfly"}, nil, false},
		{"specific visitor present", Trigger{Kind: TriggerVisitorTouch, Visitor: "bee"}, nil, true},
		{"no visitors", Trigger{Kind: TriggerVisitorTouch}, func(in *Input) { in.Visitors = nil }, false},
		{"farmer boosted", Trigger{Kind: TriggerFarmerBoosted, Count: 10}, nil, true},
		{"neighbor count", Trigger{Kind: TriggerNeighborCount, Min: 3}, nil, true},
		{"neighbor count short", Trigger{Kind: TriggerNeighborCount, Min: 4}, nil, false},
		{"neighbor same", Trigger{Kind: TriggerNeighborSame, Min: 2}, nil, true},
		{"neighbor same short", Trigger{Kind: TriggerNeighborSame, Min: 3}, nil, false},
		{"neighbor diverse counts distinct nodes", Trigger{Kind: TriggerNeighborDiverse, Min: 2}, nil, true},
		{"neighbor diverse short", Trigger{Kind: TriggerNeighborDiverse, Min: 3}, nil, false},
		{"age met", Trigger{Kind: TriggerAge, Hours: 1.5}, nil, true},
		{"age short", Trigger{Kind: TriggerAge, Hours: 2}, nil, false},
		{"age without planting time", Trigger{Kind: TriggerAge, Hours: 1}, func(in *Input) { in.PlantedAt = time.Time{} }, false},
		{"harvest spot", Trigger{Kind: TriggerHarvestSpot, Count: 3}, nil, true},
		{"merge count short", Trigger{Kind: TriggerMergeCount, Count: 5}, nil, false},
		{"season fall", Trigger{Kind: TriggerSeason, Season: Fall}, nil, true},
		{"season spring", Trigger{Kind: TriggerSeason, Season: Spring}, nil, false},
		{"month", Trigger{Kind: TriggerMonth, Month: 10}, nil, true},
		{"neighbor evolution", Trigger{Kind: TriggerNeighborEvolution, Node: "bean_vine"}, nil, true},
		{"neighbor evolution absent", Trigger{Kind: TriggerNeighborEvolution, Node: "bean_pumpkin"}, nil, false},
		{"all neighbors max short", Trigger{Kind: TriggerAllNeighborsMax}, nil, false},
		{"all neighbors max", Trigger{Kind: TriggerAllNeighborsMax}, func(in *Input) { in.Neighbors = eight }, true},
		{"all neighbors max one growing", Trigger{Kind: TriggerAllNeighborsMax}, func(in *Input) { in.Neighbors = eightMixed }, false},
		{"random without roll", Trigger{Kind: TriggerRandom, Chance: 0.5}, nil, false},
		{"random hit", Trigger{Kind: TriggerRandom, Chance: 0.5}, func(in *Input) { in.Roll = func() float64 { return 0.2 } }, true},
		{"random miss", Trigger{Kind: TriggerRandom, Chance: 0.5}, func(in *Input) { in.Roll = func() float64 { return 0.7 } }, false},
		{"unknown kind", Trigger{Kind: "teleport"}, nil, false},
		{"malformed count", Trigger{Kind: TriggerNightWater, Count: 0}, nil, false},
		{"malformed season", Trigger{Kind: TriggerSeason, Season: "monsoon"}, nil, false},
		{"malformed month", Trigger{Kind: TriggerMonth, Month: 13}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			assert.Equal(t, tt.want, tt.trigger.Eval(&in))
		})
	}
}

func TestTriggerEvalIsRepeatable(t *testing.T) {
	in := &Input{SeedID: "sprout", NightWaters: 3, Now: time.Now()}
	tr := Trigger{Kind: TriggerNightWater, Count: 3}
	for i := 0; i < 5; i++ {
		require.True(t, tr.Eval(in), "evaluation %d changed result", i)
	}
	assert.Equal(t, 3, in.NightWaters, "Eval mutated input")
}

func TestTriggerEvalNilInput(t *testing.T) {
	assert.False(t, Trigger{Kind: TriggerGolden}.Eval(nil))
}

func TestSeasonOf(t *testing.T) {
	tests := map[time.Month]string{
		time.January:   Winter,
		time.March:     Spring,
		time.May:       Spring,
		time.June:      Summer,
		time.August:    Summer,
		time.September: Fall,
		time.November:  Fall,
		time.December:  Winter,
	}
	for m, want := range tests {
		assert.Equal(t, want, SeasonOf(m), "SeasonOf(%v)", m)
	}
}
