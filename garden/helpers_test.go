package garden

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/systems"
)

var t0 = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type recorder struct {
	events []Event
}

func (r *recorder) sink(e Event) { r.events = append(r.events, e) }

func (r *recorder) reset() { r.events = nil }

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) of(t EventType) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type stubSession struct {
	noWater    bool
	merges     int
	discovered map[string]bool
}

func (s *stubSession) CanSpendWater() bool  { return !s.noWater }
func (s *stubSession) SelectedSeed() string { return "sprout" }
func (s *stubSession) TotalMerges() int     { return s.merges }

func (s *stubSession) IsDiscovered(nodeID string) bool {
	seen := s.discovered[nodeID]
	s.discovered[nodeID] = true
	return seen
}

type harness struct {
	g       *Garden
	rec     *recorder
	session *stubSession
}

func newHarness(t *testing.T, tweak ...func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Defaults()
	cfg.Economy.GoldenChance = 0
	for _, fn := range tweak {
		fn(cfg)
	}
	rec := &recorder{}
	session := &stubSession{discovered: make(map[string]bool)}
	n := 0
	g := New(Options{
		Config:  cfg,
		Session: session,
		Sink:    rec.sink,
		Rand:    rand.New(rand.NewSource(1)),
		NewID: func() string {
			n++
			return fmt.Sprintf("p%d", n)
		},
	})
	return &harness{g: g, rec: rec, session: session}
}

func pos(x, y int) components.Position { return components.Position{X: x, Y: y} }

// plant places seed at (x,y) and moves it to node.
func (h *harness) plant(t *testing.T, seed, node string, x, y int, now time.Time) string {
	t.Helper()
	s, ok := h.g.PlaceSeed(pos(x, y), seed, now)
	require.True(t, ok, "placing %s at %d,%d failed", seed, x, y)
	if node != "" {
		h.edit(t, s.ID, func(p systems.Plant) { p.Growth.NodeID = node })
	}
	return s.ID
}

func (h *harness) edit(t *testing.T, id string, fn func(systems.Plant)) {
	t.Helper()
	p, ok := h.g.plot.ByID(id)
	require.True(t, ok, "plant %s not found", id)
	fn(p)
}

func (h *harness) state(t *testing.T, id string) PlantState {
	t.Helper()
	s, ok := h.g.Plant(id)
	require.True(t, ok, "plant %s not found", id)
	return s
}
