package garden

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"
)

// SnapshotVersion is the current snapshot layout.
const SnapshotVersion = 1

var (
	// ErrSnapshotVersion is returned for snapshots of another layout.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
	// ErrInvalidSnapshot is returned for snapshots describing impossible state.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Snapshot is the serializable state of a garden.
type Snapshot struct {
	Version      int            `json:"version"`
	Plants       []PlantState   `json:"plants"`
	SpotHarvests map[string]int `json:"spot_harvests,omitempty"`
	Merges       int            `json:"merges"`
	LastTick     time.Time      `json:"last_tick,omitzero"`
}

// Snapshot captures the garden.
func (g *Garden) Snapshot() Snapshot {
	return Snapshot{
		Version:      SnapshotVersion,
		Plants:       g.Plants(),
		SpotHarvests: maps.Clone(g.spotHarvests),
		Merges:       g.merges,
		LastTick:     g.lastTick,
	}
}

// DecodeSnapshot parses a JSON snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return s, nil
}

// Validate checks s against the garden's grid and catalog.
func (g *Garden) Validate(s Snapshot) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, s.Version)
	}
	ids := make(map[string]bool, len(s.Plants))
	cells := make(map[string]bool, len(s.Plants))
	for i, p := range s.Plants {
		if p.ID == "" {
			return fmt.Errorf("%w: plant %d has no id", ErrInvalidSnapshot, i)
		}
		if ids[p.ID] {
			return fmt.Errorf("%w: duplicate plant id %q", ErrInvalidSnapshot, p.ID)
		}
		ids[p.ID] = true
		if !g.plot.InBounds(p.Pos()) {
			return fmt.Errorf("%w: plant %q off grid at %s", ErrInvalidSnapshot, p.ID, p.Pos().Key())
		}
		if cells[p.Pos().Key()] {
			return fmt.Errorf("%w: two plants at %s", ErrInvalidSnapshot, p.Pos().Key())
		}
		cells[p.Pos().Key()] = true
		if _, ok := g.cat.Seed(p.SeedID); !ok {
			return fmt.Errorf("%w: plant %q has unknown seed %q", ErrInvalidSnapshot, p.ID, p.SeedID)
		}
		node, ok := g.cat.Node(p.NodeID)
		if !ok || node.SeedID != p.SeedID {
			return fmt.Errorf("%w: plant %q has unknown node %q", ErrInvalidSnapshot, p.ID, p.NodeID)
		}
		if p.Progress < 0 || p.Progress >= 1 || p.WaterCount < 0 {
			return fmt.Errorf("%w: plant %q has growth out of range", ErrInvalidSnapshot, p.ID)
		}
	}
	return nil
}

// Restore replaces the garden's state with s. Nothing changes when s is
// rejected.
func (g *Garden) Restore(s Snapshot) error {
	if err := g.Validate(s); err != nil {
		slog.Warn("snapshot rejected", "error", err)
		return err
	}
	g.Reset()
	for _, p := range s.Plants {
		if _, ok := p.spawn(g.plot); !ok {
			// Validate guarantees free, in-bounds cells and unique ids.
			panic(fmt.Sprintf("garden: restoring plant %q failed", p.ID))
		}
	}
	maps.Copy(g.spotHarvests, s.SpotHarvests)
	g.merges = s.Merges
	g.lastTick = s.LastTick
	return nil
}
