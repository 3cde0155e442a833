package game

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/garden/clock"
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/garden"
	"github.com/pthm-cable/garden/telemetry"
)

var t0 = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestGame(t *testing.T, mods ...func(*Options)) (*Game, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(t0)
	n := 0
	opts := Options{
		Clock: clk,
		Seed:  42,
		NewID: func() string {
			n++
			return fmt.Sprintf("p%d", n)
		},
	}
	for _, mod := range mods {
		mod(&opts)
	}
	g, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g, clk
}

// withPlants restores g with the given plants and session water.
func withPlants(t *testing.T, g *Game, water int, plants ...garden.PlantState) {
	t.Helper()
	s := g.Snapshot()
	s.Water = water
	s.Garden.Plants = plants
	_, err := g.Restore(s)
	require.NoError(t, err)
}

func flower(id string, pos components.Position, maxedAt time.Time) garden.PlantState {
	return garden.PlantState{
		ID:         id,
		SeedID:     "sprout",
		NodeID:     "sprout_flower",
		X:          pos.X,
		Y:          pos.Y,
		Name:       "Fern",
		Boost:      1,
		LastUpdate: t0,
		PlantedAt:  t0.Add(-time.Hour),
		MaxedAt:    maxedAt,
	}
}

func fillGrid(t *testing.T, g *Game) {
	t.Helper()
	for _, pos := range g.Garden().EmptyCells() {
		_, ok := g.Plant(pos)
		require.True(t, ok)
	}
}

// ---------- session ----------

func TestNew_StartingState(t *testing.T) {
	g, _ := newTestGame(t)

	assert.Equal(t, g.Config().Resources.WaterMax, g.Water())
	assert.Zero(t, g.Points())
	assert.Equal(t, []string{"sprout"}, g.UnlockedSeeds())
	assert.Equal(t, "sprout", g.SelectedSeed())
	assert.Equal(t, components.Position{X: 1, Y: 1}, g.Farmer())
	assert.Equal(t, 1, g.Discovered())
	assert.True(t, g.IsDiscovered("sprout_seed"))

	pos, ok := g.Garden().Farmer()
	require.True(t, ok)
	assert.Equal(t, g.Farmer(), pos)
}

func TestNew_UnknownStartingSeed(t *testing.T) {
	clk := clock.NewFake(t0)
	g, _ := newTestGame(t)
	cfg := *g.Config()
	cfg.Garden.StartingSeed = "turnip"

	_, err := New(Options{Config: &cfg, Catalog: g.Catalog(), Clock: clk, Seed: 1})
	assert.ErrorIs(t, err, ErrUnknownSeed)
}

// ---------- water ----------

func TestWaterAt_SpendsWater(t *testing.T) {
	g, _ := newTestGame(t)
	pos := components.Position{X: 0, Y: 0}
	_, ok := g.Plant(pos)
	require.True(t, ok)

	require.True(t, g.WaterAt(pos))
	assert.Equal(t, 3, g.Water())

	assert.False(t, g.WaterAt(pos), "already watered")
	assert.Equal(t, 3, g.Water())
	assert.False(t, g.WaterAt(components.Position{X: 2, Y: 2}), "empty cell")
	assert.Equal(t, 3, g.Water())
}

func TestWaterAt_EmptyPool(t *testing.T) {
	g, clk := newTestGame(t)
	pos := components.Position{X: 0, Y: 0}
	_, ok := g.Plant(pos)
	require.True(t, ok)
	g.water = 0
	g.lastWaterRegen = clk.Now()

	assert.False(t, g.CanSpendWater())
	assert.False(t, g.WaterAt(pos))

	p, _ := g.Garden().At(pos)
	assert.False(t, p.Watered)
}

func TestWater_Regen(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		advance   time.Duration
		want      int
		wantRegen time.Duration // offset of lastWaterRegen from t0
	}{
		{"under one interval", 1, time.Second, 1, 0},
		{"one interval", 1, 1500 * time.Millisecond, 2, 1500 * time.Millisecond},
		{"keeps remainder", 1, 3200 * time.Millisecond, 3, 3 * time.Second},
		{"caps at max", 0, time.Minute, 4, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, clk := newTestGame(t)
			g.water = tt.start
			g.lastWaterRegen = t0
			clk.Advance(tt.advance)

			assert.Equal(t, tt.want, g.Water())
			assert.Equal(t, t0.Add(tt.wantRegen), g.lastWaterRegen)
		})
	}
}

func TestWater_RegenClockStartsOnSpend(t *testing.T) {
	g, clk := newTestGame(t)
	pos := components.Position{X: 0, Y: 0}
	_, ok := g.Plant(pos)
	require.True(t, ok)

	clk.Advance(time.Minute)
	require.True(t, g.WaterAt(pos))
	assert.Equal(t, 3, g.Water())

	clk.Advance(time.Second)
	assert.Equal(t, 3, g.Water(), "time spent full does not count")
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 4, g.Water())
}

// ---------- seeds ----------

func TestUnlockSeed(t *testing.T) {
	g, _ := newTestGame(t)

	assert.ErrorIs(t, g.UnlockSeed("turnip"), ErrUnknownSeed)
	assert.ErrorIs(t, g.UnlockSeed("acorn"), ErrInsufficientPoints)
	assert.ErrorIs(t, g.SelectSeed("acorn"), ErrSeedLocked)
	assert.ErrorIs(t, g.SelectSeed("turnip"), ErrUnknownSeed)

	g.points = 200
	require.NoError(t, g.UnlockSeed("acorn"))
	assert.Equal(t, 50, g.Points())
	assert.True(t, g.Unlocked("acorn"))
	assert.True(t, g.IsDiscovered("acorn_seed"))

	require.NoError(t, g.UnlockSeed("acorn"), "unlocking twice is free")
	assert.Equal(t, 50, g.Points())

	require.NoError(t, g.SelectSeed("acorn"))
	p, ok := g.Plant(components.Position{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, "acorn", p.SeedID)
	assert.Equal(t, "acorn_seed", p.NodeID)
}

func TestNextUnlock(t *testing.T) {
	g, _ := newTestGame(t)

	seed, ok := g.NextUnlock()
	require.True(t, ok)
	assert.Equal(t, "acorn", seed.ID)

	g.points = 150
	require.NoError(t, g.UnlockSeed("acorn"))
	seed, ok = g.NextUnlock()
	require.True(t, ok)
	assert.Equal(t, "bean", seed.ID)

	for _, s := range g.Catalog().Seeds() {
		g.unlocked[s.ID] = true
	}
	_, ok = g.NextUnlock()
	assert.False(t, ok)
}

// ---------- harvest ----------

func TestHarvest_CreditsPointsAndWater(t *testing.T) {
	g, _ := newTestGame(t)
	pos := components.Position{X: 0, Y: 0}
	withPlants(t, g, 0, flower("f1", pos, time.Time{}))

	points, ok := g.Harvest(pos)
	require.True(t, ok)
	assert.Equal(t, 10, points)
	assert.Equal(t, 10, g.Points())
	assert.Equal(t, 3, g.Water())
	assert.Zero(t, g.Garden().Len())

	_, ok = g.Harvest(pos)
	assert.False(t, ok, "nothing left to harvest")
}

func TestHarvest_BluebirdDoublesOnce(t *testing.T) {
	g, _ := newTestGame(t)
	a := components.Position{X: 0, Y: 0}
	b := components.Position{X: 2, Y: 2}
	withPlants(t, g, 1, flower("f1", a, time.Time{}), flower("f2", b, time.Time{}))

	require.True(t, g.SummonVisitor(Bluebird))
	assert.True(t, g.DoubleHarvest())

	points, ok := g.Harvest(a)
	require.True(t, ok)
	assert.Equal(t, 20, points)
	assert.False(t, g.DoubleHarvest())
	assert.Equal(t, 4, g.Water(), "harvest water is capped")

	points, ok = g.Harvest(b)
	require.True(t, ok)
	assert.Equal(t, 10, points)
	assert.Equal(t, 30, g.Points())
}

func TestRetire_AddsHallOfFameEntry(t *testing.T) {
	g, clk := newTestGame(t)
	pos := components.Position{X: 1, Y: 0}
	withPlants(t, g, 4, flower("old", pos, t0.Add(-40*time.Minute)))

	want, ok := g.Garden().HarvestValue(pos, clk.Now(), true)
	require.True(t, ok)

	points, ok := g.Retire(pos)
	require.True(t, ok)
	assert.Equal(t, want, points)

	hall := g.HallOfFame()
	require.Len(t, hall, 1)
	assert.Equal(t, "old", hall[0].ID)
	assert.Equal(t, components.Ancient, hall[0].ElderTier)
	assert.Equal(t, time.Hour, hall[0].TimeAlive)
	assert.NotEmpty(t, hall[0].Epitaph)
}

func TestRetire_RequiresAncient(t *testing.T) {
	g, _ := newTestGame(t)
	pos := components.Position{X: 1, Y: 0}
	withPlants(t, g, 4, flower("young", pos, t0.Add(-15*time.Minute)))

	_, ok := g.Retire(pos)
	assert.False(t, ok)
	assert.Zero(t, len(g.HallOfFame()))
	assert.Equal(t, 1, g.Garden().Len())
}

// ---------- merge ----------

func TestMerge_CountsAndDiscovers(t *testing.T) {
	g, _ := newTestGame(t)
	a := components.Position{X: 0, Y: 0}
	b := components.Position{X: 0, Y: 1}
	for _, pos := range []components.Position{a, b} {
		_, ok := g.Plant(pos)
		require.True(t, ok)
		require.True(t, g.WaterAt(pos))
	}

	require.True(t, g.Merge(a, b))
	assert.Equal(t, 1, g.TotalMerges())
	assert.True(t, g.IsDiscovered("sprout_shoot"))

	p, ok := g.Garden().At(b)
	require.True(t, ok)
	assert.Equal(t, "sprout_shoot", p.NodeID)
}

// ---------- farmer ----------

func TestFarmer_MovesOneCell(t *testing.T) {
	g, clk := newTestGame(t)
	start := g.Farmer()

	clk.Advance(time.Second)
	g.Step()

	moved := g.Farmer()
	dist := abs(moved.X-start.X) + abs(moved.Y-start.Y)
	assert.Equal(t, 1, dist, "center farmer always has an in-bounds step")
	pos, _ := g.Garden().Farmer()
	assert.Equal(t, moved, pos)
}

func TestFarmer_AutoWatersForFree(t *testing.T) {
	g, clk := newTestGame(t)
	fillGrid(t, g)

	for range 3 {
		clk.Advance(time.Second)
		g.Step()
	}

	watered := 0
	for _, p := range g.Garden().Plants() {
		if p.Watered {
			watered++
		}
	}
	assert.Equal(t, 1, watered)
	assert.Equal(t, 4, g.Water())
}

func TestTapFarmer_StopsWhenDry(t *testing.T) {
	g, _ := newTestGame(t)
	fillGrid(t, g)

	assert.Equal(t, 4, g.TapFarmer(), "five cells in the cross, four water")
	assert.Zero(t, g.Water())
	assert.Zero(t, g.TapFarmer())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ---------- visitors ----------

func TestVisitors_Schedule(t *testing.T) {
	g, clk := newTestGame(t)
	cfg := g.Config().Visitors

	next := g.NextVisitorAt()
	assert.False(t, next.Before(t0.Add(cfg.SpawnMin)))
	assert.False(t, next.After(t0.Add(cfg.SpawnMax)))

	clk.Set(next)
	g.Step()
	v, ok := g.CurrentVisitor()
	require.True(t, ok)
	assert.Equal(t, next.Add(cfg.VisitDuration), v.Leaves)

	clk.Set(v.Leaves)
	g.Step()
	_, ok = g.CurrentVisitor()
	assert.False(t, ok)
	assert.False(t, g.NextVisitorAt().Before(v.Leaves.Add(cfg.SpawnMin)))
}

func TestVisitors_TerminalsShortenWait(t *testing.T) {
	g, _ := newTestGame(t)
	var plants []garden.PlantState
	for i, pos := range g.Garden().EmptyCells() {
		plants = append(plants, flower(fmt.Sprintf("f%d", i), pos, time.Time{}))
	}
	withPlants(t, g, 4, plants...)

	// Nine terminals reduce the wait by the 0.45 they are worth.
	for range 20 {
		wait := g.visitors.interval(g)
		assert.LessOrEqual(t, wait, time.Duration(float64(g.Config().Visitors.SpawnMax)*0.55)+time.Millisecond)
	}
}

func TestSummonVisitor_OneAtATime(t *testing.T) {
	g, _ := newTestGame(t)

	assert.False(t, g.SummonVisitor("dragon"))
	require.True(t, g.SummonVisitor(Bluebird))
	assert.False(t, g.SummonVisitor(Bee))
}

func TestBee_RefillsWater(t *testing.T) {
	g, clk := newTestGame(t)
	g.water = 0
	g.lastWaterRegen = clk.Now()

	require.True(t, g.SummonVisitor(Bee))
	assert.Equal(t, g.Config().Resources.WaterMax, g.Water())
}

func TestRabbit_GrowsWateredPlant(t *testing.T) {
	g, _ := newTestGame(t)
	pos := components.Position{X: 0, Y: 0}
	_, ok := g.Plant(pos)
	require.True(t, ok)
	require.True(t, g.WaterAt(pos))

	require.True(t, g.SummonVisitor(Rabbit))
	v, _ := g.CurrentVisitor()
	assert.Equal(t, []string{"p1"}, v.Touched)

	p, _ := g.Garden().At(pos)
	assert.Equal(t, "sprout_shoot", p.NodeID)
	assert.Contains(t, p.Visitors, "rabbit")
}

func TestButterfly_PollinatesNeighbors(t *testing.T) {
	g, _ := newTestGame(t)
	fillGrid(t, g)

	require.True(t, g.SummonVisitor(Butterfly))
	v, _ := g.CurrentVisitor()
	assert.GreaterOrEqual(t, len(v.Touched), 4, "a full 3x3 puts at least four plants around any cell")
	for _, id := range v.Touched {
		p, ok := g.Garden().Plant(id)
		require.True(t, ok)
		assert.Contains(t, p.Visitors, "butterfly")
		assert.Equal(t, g.Config().Visitors.PollinateBoost, p.Boost)
	}
}

// ---------- telemetry ----------

func TestStep_FlushesTelemetryWindow(t *testing.T) {
	dir := t.TempDir()
	var windows []telemetry.WindowStats
	g, clk := newTestGame(t, func(o *Options) {
		o.OutputDir = dir
		o.StatsCallback = func(s telemetry.WindowStats) { windows = append(windows, s) }
	})
	pos := components.Position{X: 0, Y: 0}
	_, ok := g.Plant(pos)
	require.True(t, ok)
	require.True(t, g.WaterAt(pos))

	clk.Advance(30 * time.Second)
	g.Step()
	assert.Empty(t, windows)

	clk.Advance(30 * time.Second)
	g.Step()
	require.Len(t, windows, 1)
	assert.Equal(t, 1, windows[0].Placed)
	assert.GreaterOrEqual(t, windows[0].Waterings, 1, "the farmer may water it again")
	assert.Equal(t, 1, windows[0].Plants)

	require.NoError(t, g.Close())
	for _, name := range []string{"events.csv", "telemetry.csv", "perf.csv", "config.yaml", "hall_of_fame.json"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		if name != "hall_of_fame.json" {
			assert.NotZero(t, info.Size(), name)
		}
	}
}

func TestSubscribe_SeesEventsAfterSession(t *testing.T) {
	g, _ := newTestGame(t)
	var water []int
	g.Subscribe(func(e garden.Event) {
		if e.Type == garden.EventWatered {
			water = append(water, g.water)
		}
	})
	pos := components.Position{X: 0, Y: 0}
	_, ok := g.Plant(pos)
	require.True(t, ok)
	require.True(t, g.WaterAt(pos))

	assert.Equal(t, []int{3}, water)
}

func TestActionTimings(t *testing.T) {
	at := NewActionTimings()
	at.Record("fast", time.Millisecond)
	at.Record("slow", 3*time.Millisecond)
	at.Record("slow", 5*time.Millisecond)

	assert.Equal(t, 4*time.Millisecond, at.Avg("slow"))
	assert.Equal(t, []string{"slow", "fast"}, at.SortedNames())
	assert.Zero(t, at.Avg("missing"))

	for range 200 {
		at.Record("fast", time.Millisecond)
	}
	assert.Equal(t, 120, at.Count("fast"))
}

func TestActions_AreTimed(t *testing.T) {
	g, _ := newTestGame(t)
	_, ok := g.Plant(components.Position{X: 0, Y: 0})
	require.True(t, ok)
	g.WaterAt(components.Position{X: 0, Y: 0})

	assert.Equal(t, 1, g.ActionTimings().Count(ActionPlant))
	assert.Equal(t, 1, g.ActionTimings().Count(ActionWater))
}

func TestStep_TimesEveryPhase(t *testing.T) {
	g, clk := newTestGame(t)
	clk.Advance(time.Second)
	g.Step()

	stats := g.perfCollector.Stats()
	for _, phase := range telemetry.Phases {
		assert.Contains(t, stats.PhaseAvg, phase)
	}
}

func TestSubscribe_FansOutInOrder(t *testing.T) {
	g, _ := newTestGame(t)
	var got []string
	listen := func(name string) garden.Sink {
		return func(e garden.Event) {
			if e.Type == garden.EventPlaced {
				got = append(got, name)
			}
		}
	}
	g.Subscribe(listen("first"))
	g.Subscribe(nil)
	g.Subscribe(listen("second"))

	_, ok := g.Plant(components.Position{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestNew_SeedsHallOfFame(t *testing.T) {
	past := []telemetry.HallEntry{
		{ID: "old", Name: "Fern", Epitaph: "Remembered."},
		{ID: "older", Name: "Moss", Epitaph: "Remembered."},
	}
	g, _ := newTestGame(t, func(o *Options) { o.HallOfFame = past })
	require.Len(t, g.HallOfFame(), 2)
	assert.Equal(t, "old", g.HallOfFame()[0].ID)

	withPlants(t, g, 3, flower("a", components.Position{X: 0, Y: 0}, t0.Add(-35*time.Minute)))
	_, ok := g.Retire(components.Position{X: 0, Y: 0})
	require.True(t, ok)
	ids := []string{}
	for _, e := range g.HallOfFame() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "old", "older"}, ids)
}
