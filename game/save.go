package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/garden"
	"github.com/pthm-cable/garden/telemetry"
)

// SaveVersion is the current save file layout.
const SaveVersion = 1

// SaveFile is a persisted session.
type SaveFile struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`

	Garden garden.Snapshot     `json:"garden"`
	Farmer components.Position `json:"farmer"`

	Water          int       `json:"water"`
	LastWaterRegen time.Time `json:"last_water_regen"`
	Points         int       `json:"points"`
	TotalMaxed     int       `json:"total_maxed"`
	TotalMerges    int       `json:"total_merges"`
	UnlockedSeeds  []string  `json:"unlocked_seeds"`
	SelectedSeed   string    `json:"selected_seed"`
	Discovered     []string  `json:"discovered"`
	DoubleHarvest  bool      `json:"double_harvest"`

	HallOfFame []telemetry.HallEntry `json:"hall_of_fame"`
}

// OfflineReport describes what happened while the session was away.
type OfflineReport struct {
	Away          time.Duration
	CaughtUp      bool
	WaterRegained int
	Evolutions    int
}

// Snapshot captures the session.
func (g *Game) Snapshot() SaveFile {
	now := g.clock.Now()
	g.regenWater(now)
	discovered := make([]string, 0, len(g.discovered))
	for id := range g.discovered {
		discovered = append(discovered, id)
	}
	slices.Sort(discovered)
	return SaveFile{
		Version:        SaveVersion,
		SavedAt:        now,
		Garden:         g.garden.Snapshot(),
		Farmer:         g.farmer.pos,
		Water:          g.water,
		LastWaterRegen: g.lastWaterRegen,
		Points:         g.points,
		TotalMaxed:     g.totalMaxed,
		TotalMerges:    g.totalMerges,
		UnlockedSeeds:  g.UnlockedSeeds(),
		SelectedSeed:   g.selected,
		Discovered:     discovered,
		DoubleHarvest:  g.doubleHarvest,
		HallOfFame:     g.hall.Entries(),
	}
}

// Save writes the session to path, replacing any previous file.
func (g *Game) Save(path string) error {
	data, err := json.MarshalIndent(g.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create save dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}
	slog.Info("session saved", "path", path, "plants", g.garden.Len(), "points", g.points)
	return nil
}

// DecodeSave parses a JSON save file. The garden section goes through
// garden.DecodeSnapshot, so a save without one is invalid.
func DecodeSave(data []byte) (SaveFile, error) {
	var raw struct {
		SaveFile
		Garden json.RawMessage `json:"garden"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return SaveFile{}, fmt.Errorf("%w: %w", garden.ErrInvalidSnapshot, err)
	}
	snap, err := garden.DecodeSnapshot(raw.Garden)
	if err != nil {
		return SaveFile{}, err
	}
	s := raw.SaveFile
	s.Garden = snap
	return s, nil
}

// Validate checks a save file against this session's grid, catalog and
// config without changing anything.
func (g *Game) Validate(s SaveFile) error {
	if s.Version != SaveVersion {
		return fmt.Errorf("%w: save version %d", garden.ErrSnapshotVersion, s.Version)
	}
	if err := g.garden.Validate(s.Garden); err != nil {
		return err
	}
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", garden.ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}
	if s.Water < 0 || s.Water > g.cfg.Resources.WaterMax {
		return invalid("water %d outside [0, %d]", s.Water, g.cfg.Resources.WaterMax)
	}
	if s.Points < 0 || s.TotalMaxed < 0 || s.TotalMerges < 0 {
		return invalid("negative counter")
	}
	if !inBounds(s.Farmer, g.garden.Size()) {
		return invalid("farmer at %d,%d is off the grid", s.Farmer.X, s.Farmer.Y)
	}
	unlocked := make(map[string]bool, len(s.UnlockedSeeds))
	for _, id := range s.UnlockedSeeds {
		if _, ok := g.cat.Seed(id); !ok {
			return invalid("unknown unlocked seed %q", id)
		}
		unlocked[id] = true
	}
	if !unlocked[s.SelectedSeed] {
		return invalid("selected seed %q is not unlocked", s.SelectedSeed)
	}
	for _, id := range s.Discovered {
		if _, ok := g.cat.Node(id); !ok {
			return invalid("unknown discovered node %q", id)
		}
	}
	return nil
}

// Restore replaces the session with s and catches the garden up to the
// clock. A rejected save leaves the session untouched.
func (g *Game) Restore(s SaveFile) (OfflineReport, error) {
	if err := g.Validate(s); err != nil {
		return OfflineReport{}, err
	}
	if err := g.garden.Restore(s.Garden); err != nil {
		return OfflineReport{}, err
	}

	g.farmer.pos = s.Farmer
	g.garden.SetFarmer(&g.farmer.pos)
	g.water = s.Water
	g.lastWaterRegen = s.LastWaterRegen
	g.points = s.Points
	g.totalMaxed = s.TotalMaxed
	g.totalMerges = s.TotalMerges
	g.unlocked = make(map[string]bool, len(s.UnlockedSeeds))
	for _, id := range s.UnlockedSeeds {
		g.unlocked[id] = true
	}
	g.selected = s.SelectedSeed
	g.discovered = make(map[string]bool, len(s.Discovered))
	for _, id := range s.Discovered {
		g.discovered[id] = true
	}
	g.doubleHarvest = s.DoubleHarvest
	g.hall.SetEntries(s.HallOfFame)
	g.lifetimes.Reset()
	g.visitors = visitorSchedule{}

	now := g.clock.Now()
	g.farmer.lastMove = now
	g.farmer.lastAutoWater = now
	g.visitors.scheduleNext(g, now)
	return g.catchUp(s.SavedAt, now), nil
}

// catchUp applies time spent away. Short absences are left to the next
// step at full rate. Longer ones regenerate water and replay growth at the
// offline rate, up to timing.max_offline.
func (g *Game) catchUp(savedAt, now time.Time) OfflineReport {
	t := g.cfg.Timing
	report := OfflineReport{Away: now.Sub(savedAt)}
	if report.Away < t.MinOffline {
		return report
	}

	away := min(report.Away, t.MaxOffline)
	before := g.water
	g.water = min(g.cfg.Resources.WaterMax, g.water+int(away/t.WaterRegen))
	g.lastWaterRegen = now
	report.WaterRegained = g.water - before

	report.Evolutions = g.garden.CatchUp(now, t.OfflineMultiplier)
	report.CaughtUp = true
	slog.Info("caught up",
		"away", report.Away.Round(time.Second),
		"water", report.WaterRegained,
		"evolutions", report.Evolutions,
	)
	return report
}

// Load reads and restores a save file. Missing, corrupt, outdated or
// inconsistent files are rejected whole.
func (g *Game) Load(path string) (OfflineReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return OfflineReport{}, fmt.Errorf("read save: %w", err)
	}
	s, err := DecodeSave(data)
	if err != nil {
		return OfflineReport{}, err
	}
	return g.Restore(s)
}

// IsRejected reports whether err means a save file was refused rather
// than unreadable.
func IsRejected(err error) bool {
	return errors.Is(err, garden.ErrInvalidSnapshot) || errors.Is(err, garden.ErrSnapshotVersion)
}
