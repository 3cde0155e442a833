package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMults = map[int]float64{0: 1, 1: 0.5, 2: 2, 3: 8, 4: 20, 5: 1, 6: 1}

func TestLoadEmbedded(t *testing.T) {
	c, err := Load(testMults)
	require.NoError(t, err)
	assert.Len(t, c.Seeds(), 6)
	for _, s := range c.Seeds() {
		start, ok := c.Start(s.ID)
		if !assert.True(t, ok, "seed %s has no start node", s.ID) {
			continue
		}
		assert.Zero(t, start.Tier, "seed %s start tier", s.ID)

		// Following default edges must end on a terminal node.
		id := start.ID
		for steps := 0; ; steps++ {
			next, ok := c.DefaultNext(id)
			if !ok {
				break
			}
			id = next
			require.LessOrEqual(t, steps, 10, "seed %s default path does not terminate", s.ID)
		}
		assert.True(t, c.IsTerminal(id), "seed %s default path ends on non-terminal %s", s.ID, id)
	}
}

func TestTerminal(t *testing.T) {
	c := MustLoad(testMults)
	tests := []struct {
		id   string
		want bool
	}{
		{"sprout_seed", false},
		{"sprout_blossom", false},
		{"sprout_flower", true},
		{"sprout_golden_lotus", true},
		{"no_such_node", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.IsTerminal(tt.id), "IsTerminal(%s)", tt.id)
	}
	assert.True(t, c.IsLegendary("sprout_golden_lotus"))
	assert.Zero(t, c.Points("no_such_node"), "unknown node should be worth 0")
}

func TestGrowthTimeScaling(t *testing.T) {
	c := MustLoad(testMults)
	tests := []struct {
		id   string
		want time.Duration
		ok   bool
	}{
		{"sprout_seed", 15 * time.Second, true},       // tier 1: 30s * 0.5
		{"sprout_shoot", 60 * time.Second, true},      // tier 2: 30s * 2
		{"sprout_seedling", 240 * time.Second, true},  // tier 3: 30s * 8
		{"sprout_bud", 600 * time.Second, true},       // tier 4: 30s * 20
		{"sprout_blossom", 30 * time.Second, true},    // tier 5: 30s * 1
		{"sprout_flower", 0, false},
		{"no_such_node", 0, false},
	}
	for _, tt := range tests {
		got, ok := c.GrowthTime(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.want, got, tt.id)
	}
}

func TestGrowthTimeDefaultMultiplier(t *testing.T) {
	c := MustLoad(map[int]float64{})
	got, ok := c.GrowthTime("bean_seed")
	require.True(t, ok)
	assert.Equal(t, 25*time.Second, got)
}

func TestNextBranchOrder(t *testing.T) {
	c := MustLoad(testMults)
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		in          Input
		wantTarget  string
		wantSpecial bool
	}{
		{
			name:       "no trigger falls back to default",
			in:         Input{SeedID: "sprout", Now: now},
			wantTarget: "sprout_flower",
		},
		{
			name:        "golden wins over later branches",
			in:          Input{SeedID: "sprout", Golden: true, Visitors: []string{"butterfly"}, Now: now},
			wantTarget:  "sprout_golden_lotus",
			wantSpecial: true,
		},
		{
			name:        "visitor branch",
			in:          Input{SeedID: "sprout", Visitors: []string{"butterfly"}, Now: now},
			wantTarget:  "sprout_butterfly_bush",
			wantSpecial: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, special, ok := c.Next("sprout_blossom", &tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.wantTarget, target)
			assert.Equal(t, tt.wantSpecial, special)
		})
	}

	_, _, ok := c.Next("sprout_flower", &Input{Now: now})
	assert.False(t, ok, "terminal node should have no next")
	_, _, ok = c.Next("missing", &Input{Now: now})
	assert.False(t, ok, "unknown node should have no next")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "seeds: ["},
		{"unknown seed", `
seeds: [{id: a, name: A}]
nodes: [{id: a0, seed: b, tier: 0}]`},
		{"missing start", `
seeds: [{id: a, name: A}]
nodes: [{id: a1, seed: a, tier: 1, points: 1}]`},
		{"unknown default", `
seeds: [{id: a, name: A}]
nodes: [{id: a0, seed: a, tier: 0, default: nope}]`},
		{"default does not climb", `
seeds: [{id: a, name: A}]
nodes:
  - {id: a0, seed: a, tier: 0, default: a1}
  - {id: a1, seed: a, tier: 0, points: 1}`},
		{"duplicate node", `
seeds: [{id: a, name: A}]
nodes:
  - {id: a0, seed: a, tier: 0}
  - {id: a0, seed: a, tier: 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), nil)
			assert.Error(t, err)
		})
	}
}

func TestParseKeepsInvalidTrigger(t *testing.T) {
	data := `
seeds: [{id: a, name: A}]
nodes:
  - id: a0
    seed: a
    tier: 0
    default: a1
    branches:
      - target: a2
        trigger: {kind: teleport}
  - {id: a1, seed: a, tier: 1, growth_time: 10s, points: 1}
  - {id: a2, seed: a, tier: 6, growth_time: 10s, points: 5}
`
	c, err := Parse([]byte(data), nil)
	require.NoError(t, err)
	target, special, ok := c.Next("a0", &Input{})
	require.True(t, ok)
	assert.Equal(t, "a1", target)
	assert.False(t, special)
}
