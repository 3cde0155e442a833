package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/garden/components"
)

// ---------- levels ----------

func TestBonds_LevelFor(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		d    time.Duration
		want components.BondLevel
	}{
		{0, components.Acquaintance},
		{119 * time.Second, components.Acquaintance},
		{2 * time.Minute, components.Friend},
		{3 * time.Minute, components.Friend},
		{6 * time.Minute, components.BestFriend},
		{15 * time.Minute, components.Soulmate},
		{10 * time.Hour, components.Soulmate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.bonds.LevelFor(tt.d), "LevelFor(%v)", tt.d)
	}
}

func TestBonds_GriefDuration(t *testing.T) {
	f := newFixture(t)
	assert.Zero(t, f.bonds.GriefDuration(components.Acquaintance))
	assert.Equal(t, 5*time.Minute, f.bonds.GriefDuration(components.Friend))
	assert.Equal(t, 30*time.Minute, f.bonds.GriefDuration(components.Soulmate))
}

// ---------- Update ----------

func TestBonds_FormAndPromote(t *testing.T) {
	f := newFixture(t)
	f.add(t, "a", "sprout", "sprout_seed", 0, 0)
	f.add(t, "b", "sprout", "sprout_seed", 1, 0)

	require.Empty(t, f.bonds.Update(f.plot, t0))
	bond, ok := f.get(t, "a").Social.Bond("b")
	require.True(t, ok)
	assert.Equal(t, components.Acquaintance, bond.Level)
	assert.True(t, bond.Since.Equal(t0))

	changes := f.bonds.Update(f.plot, t0.Add(3*time.Minute))
	assert.Equal(t, []BondChange{
		{PlantID: "a", OtherID: "b", Level: components.Friend},
		{PlantID: "b", OtherID: "a", Level: components.Friend},
	}, changes)
	assert.InDelta(t, 0.05, f.bonds.Boost(f.get(t, "a").Social), 1e-9)

	// Skipping levels reports one change per side, at the new level.
	changes = f.bonds.Update(f.plot, t0.Add(20*time.Minute))
	require.Len(t, changes, 2)
	assert.Equal(t, components.Soulmate, changes[0].Level)
	assert.Empty(t, f.bonds.Update(f.plot, t0.Add(30*time.Minute)), "repeat check")
}

func TestBonds_BoostCappedAtFullNeighborhood(t *testing.T) {
	f := newFixture(t)
	center := f.add(t, "center", "sprout", "sprout_seed", 1, 1)
	center.Growth.Watered = true
	center.Growth.WaterCount = 1
	for i, off := range components.Offsets8 {
		f.add(t, string(rune('a'+i)), "sprout", "sprout_seed", 1+off.X, 1+off.Y)
	}

	f.bonds.Update(f.plot, t0)
	now := t0.Add(20 * time.Minute)
	f.bonds.Update(f.plot, now)

	center = f.get(t, "center")
	require.Len(t, center.Social.Bonds, 8)
	for _, b := range center.Social.Bonds {
		assert.Equal(t, components.Soulmate, b.Level, "bond with %s", b.PlantID)
	}
	assert.InDelta(t, f.cfg.Bonds.MaxBoost, f.bonds.Boost(center.Social), 1e-9, "eight soulmates stop at the cap")
	assert.InDelta(t, 1.5, f.growth.Rate(f.plot, center, now, 1, false), 1e-9)
}

func TestBonds_PrunedWhenSeparated(t *testing.T) {
	f := newFixture(t)
	f.add(t, "a", "sprout", "sprout_seed", 0, 0)
	f.add(t, "b", "sprout", "sprout_seed", 1, 0)
	f.bonds.Update(f.plot, t0)

	f.plot.Remove("b")
	f.add(t, "b", "sprout", "sprout_seed", 2, 2)
	f.bonds.Update(f.plot, t0.Add(time.Minute))
	_, ok := f.get(t, "a").Social.Bond("b")
	require.False(t, ok, "bond survived separation")

	f.plot.Remove("b")
	f.add(t, "b", "sprout", "sprout_seed", 1, 1)
	later := t0.Add(10 * time.Minute)
	f.bonds.Update(f.plot, later)
	bond, ok := f.get(t, "a").Social.Bond("b")
	require.True(t, ok)
	assert.Equal(t, components.Acquaintance, bond.Level)
	assert.True(t, bond.Since.Equal(later))
}

func TestBonds_GriefExpires(t *testing.T) {
	f := newFixture(t)
	p := f.add(t, "a", "sprout", "sprout_seed", 0, 0)
	p.Social.Grief = &components.Grief{Mourning: "x", Since: t0, Duration: 5 * time.Minute}

	f.bonds.Update(f.plot, t0.Add(4*time.Minute))
	require.NotNil(t, f.get(t, "a").Social.Grief, "grief cleared early")
	f.bonds.Update(f.plot, t0.Add(5*time.Minute))
	assert.Nil(t, f.get(t, "a").Social.Grief)
}

// ---------- Grieve / Forget / Deepen ----------

func TestBonds_Grieve(t *testing.T) {
	f := newFixture(t)
	f.add(t, "a", "sprout", "sprout_seed", 0, 0)
	f.add(t, "b", "sprout", "sprout_seed", 1, 0)
	f.add(t, "c", "sprout", "sprout_seed", 1, 1)
	f.bonds.Update(f.plot, t0)
	// b and a become friends, c stays an acquaintance of a.
	f.bonds.Deepen(f.get(t, "b").Social, "a", 3*time.Minute)
	f.bonds.Update(f.plot, t0)

	now := t0.Add(time.Minute)
	mourners := f.bonds.Grieve(f.plot, "a", "Alice", now)
	assert.Equal(t, []Mourner{{PlantID: "b", Mourning: "Alice", Level: components.Friend, Duration: 5 * time.Minute}}, mourners)

	b := f.get(t, "b")
	assert.True(t, b.Social.Grief.Active(now))
	_, ok := b.Social.Bond("a")
	assert.False(t, ok, "b still bonded to removed plant")

	c := f.get(t, "c")
	assert.Nil(t, c.Social.Grief, "acquaintances do not grieve")
	_, ok = c.Social.Bond("a")
	assert.False(t, ok, "c still bonded to removed plant")
}

func TestBonds_GrieveDefaultName(t *testing.T) {
	f := newFixture(t)
	p := f.add(t, "b", "sprout", "sprout_seed", 0, 0)
	p.Social.Bonds = []components.Bond{{PlantID: "a", Since: t0, Level: components.Soulmate}}

	mourners := f.bonds.Grieve(f.plot, "a", "", t0)
	require.Len(t, mourners, 1)
	assert.Equal(t, "a friend", mourners[0].Mourning)
	assert.Equal(t, 30*time.Minute, mourners[0].Duration)
}

func TestBonds_ForgetHasNoGrief(t *testing.T) {
	f := newFixture(t)
	for i, id := range []string{"b", "d"} {
		p := f.add(t, id, "sprout", "sprout_seed", i, 0)
		p.Social.Bonds = []components.Bond{
			{PlantID: "a", Since: t0, Level: components.Soulmate},
			{PlantID: "c", Since: t0, Level: components.Friend},
		}
	}
	f.bonds.Forget(f.plot, "a")

	for _, id := range []string{"b", "d"} {
		got := f.get(t, id).Social
		assert.Nil(t, got.Grief, "%s grieving", id)
		require.Len(t, got.Bonds, 1, id)
		assert.Equal(t, "c", got.Bonds[0].PlantID)
	}
}

func TestBonds_Deepen(t *testing.T) {
	f := newFixture(t)
	s := &components.Social{Bonds: []components.Bond{
		{PlantID: "a", Since: t0},
		{PlantID: "b", Since: t0},
	}}
	f.bonds.Deepen(s, "a", 2*time.Minute)
	assert.True(t, s.Bonds[0].Since.Equal(t0.Add(-2*time.Minute)))
	assert.True(t, s.Bonds[1].Since.Equal(t0))

	f.bonds.Deepen(s, "", time.Minute)
	assert.True(t, s.Bonds[1].Since.Equal(t0.Add(-time.Minute)))
}
