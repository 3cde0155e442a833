package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/garden/catalog"
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

var t0 = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	cfg    *config.Config
	cat    *catalog.Catalog
	plot   *Plot
	bonds  *Bonds
	elders *Elders
	growth *Growth
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Defaults()
	cat := catalog.MustLoad(cfg.Growth.TierMultipliers)
	bonds := NewBonds(cfg)
	elders := NewElders(cfg, cat)
	return &fixture{
		cfg:    cfg,
		cat:    cat,
		plot:   NewPlot(cfg.Garden.GridSize),
		bonds:  bonds,
		elders: elders,
		growth: NewGrowth(cfg, cat, bonds, elders),
	}
}

// add spawns a plant at (x,y) on the given node and fails the test if the cell is taken.
func (f *fixture) add(t *testing.T, id, seed, node string, x, y int) Plant {
	t.Helper()
	p, ok := f.plot.Spawn(
		components.Identity{ID: id, SeedID: seed, Name: id},
		components.Position{X: x, Y: y},
		components.Growth{NodeID: node, LastUpdate: t0, Boost: 1},
		components.Social{},
		components.Aging{},
		components.Desire{},
		components.EvoStats{PlantedAt: t0},
	)
	require.True(t, ok, "spawn %s at %d,%d", id, x, y)
	return p
}

func (f *fixture) get(t *testing.T, id string) Plant {
	t.Helper()
	p, ok := f.plot.ByID(id)
	require.True(t, ok, "plant %s not found", id)
	return p
}

func ids(plants []Plant) []string {
	out := make([]string, len(plants))
	for i, p := range plants {
		out[i] = p.Ident.ID
	}
	return out
}
