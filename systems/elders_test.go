package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/garden/components"
)

func TestElders_TierFor(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		d    time.Duration
		want components.ElderTier
	}{
		{0, components.NotElder},
		{9 * time.Minute, components.NotElder},
		{10 * time.Minute, components.Elder},
		{30 * time.Minute, components.Ancient},
		{65 * time.Minute, components.LegendaryElder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.elders.TierFor(tt.d), "TierFor(%v)", tt.d)
	}
}

func TestElders_FirstCheckOnlyStamps(t *testing.T) {
	f := newFixture(t)
	f.add(t, "old", "sprout", "sprout_flower", 0, 0)
	f.add(t, "young", "sprout", "sprout_seed", 2, 2)

	require.Empty(t, f.elders.Update(f.plot, t0), "stamping check")
	assert.True(t, f.get(t, "old").Aging.MaxedAt.Equal(t0))
	assert.True(t, f.get(t, "young").Aging.MaxedAt.IsZero(), "growing plant was stamped")

	// Later checks keep the original stamp.
	f.elders.Update(f.plot, t0.Add(time.Minute))
	assert.True(t, f.get(t, "old").Aging.MaxedAt.Equal(t0))
}

func TestElders_PromotionReportedOnce(t *testing.T) {
	f := newFixture(t)
	f.add(t, "old", "sprout", "sprout_flower", 0, 0)
	f.elders.Update(f.plot, t0)

	changes := f.elders.Update(f.plot, t0.Add(12*time.Minute))
	assert.Equal(t, []ElderChange{{PlantID: "old", Tier: components.Elder}}, changes)
	assert.Empty(t, f.elders.Update(f.plot, t0.Add(13*time.Minute)), "re-emitted")

	// A long gap jumps straight to the highest tier reached.
	changes = f.elders.Update(f.plot, t0.Add(65*time.Minute))
	require.Len(t, changes, 1)
	assert.Equal(t, components.LegendaryElder, changes[0].Tier)
	assert.Equal(t, components.LegendaryElder, f.get(t, "old").Aging.Tier)
}

func TestElders_TierAtAndHarvest(t *testing.T) {
	f := newFixture(t)
	old := f.add(t, "old", "sprout", "sprout_flower", 0, 0)
	old.Aging.MaxedAt = t0.Add(-35 * time.Minute)

	old = f.get(t, "old")
	assert.Equal(t, components.Ancient, f.elders.TierAt(old, t0))
	assert.Equal(t, components.NotElder, old.Aging.Tier, "the live tier does not wait for a check")
	assert.Equal(t, 2.0, f.elders.HarvestMultiplier(components.Ancient))
	assert.Equal(t, 1.0, f.elders.HarvestMultiplier(components.NotElder))

	growing := f.add(t, "growing", "sprout", "sprout_seed", 2, 2)
	growing.Aging.MaxedAt = t0.Add(-time.Hour)
	assert.Equal(t, components.NotElder, f.elders.TierAt(f.get(t, "growing"), t0))
}

func TestElders_AuraNeedsAdjacency(t *testing.T) {
	f := newFixture(t)
	old := f.add(t, "old", "sprout", "sprout_flower", 0, 0)
	old.Aging.MaxedAt = t0.Add(-15 * time.Minute)
	f.add(t, "near", "sprout", "sprout_seed", 1, 0)
	f.add(t, "far", "sprout", "sprout_seed", 2, 2)

	assert.InDelta(t, 0.10, f.elders.Aura(f.plot, f.get(t, "near"), t0), 1e-9)
	assert.Zero(t, f.elders.Aura(f.plot, f.get(t, "far"), t0))
}
