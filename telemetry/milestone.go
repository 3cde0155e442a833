package telemetry

import (
	"fmt"
	"log/slog"
)

// MilestoneType identifies the type of milestone.
type MilestoneType string

const (
	MilestoneFirstTerminal  MilestoneType = "first_terminal"
	MilestoneLegendaryBloom MilestoneType = "legendary_bloom"
	MilestoneEvolutionSurge MilestoneType = "evolution_surge"
	MilestoneGriefWave      MilestoneType = "grief_wave"
	MilestoneWishStreak     MilestoneType = "wish_streak"
	MilestoneFullGarden     MilestoneType = "full_garden"
)

// Window counts at or above which a burst of one kind of event is notable.
const (
	surgeMinEvolutions = 3
	griefWaveSize      = 3
	wishStreakSize     = 3
)

// Milestone represents an automatically detected moment worth keeping.
type Milestone struct {
	Type        MilestoneType `csv:"type" json:"type"`
	SimTimeSec  float64       `csv:"sim_time" json:"sim_time"`
	At          string        `csv:"at" json:"at"`
	Description string        `csv:"description" json:"description"`
}

// LogMilestone logs the milestone using slog.
func (m Milestone) LogMilestone() {
	slog.Info("milestone",
		"type", string(m.Type),
		"sim_time", m.SimTimeSec,
		"description", m.Description,
	)
}

// MilestoneDetector detects notable moments from successive window stats.
type MilestoneDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	seenTerminal bool
	wasFull      bool
}

// NewMilestoneDetector creates a detector with the given history size.
func NewMilestoneDetector(historySize int) *MilestoneDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful rolling mean
	}
	return &MilestoneDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered milestones.
func (md *MilestoneDetector) Check(stats WindowStats) []Milestone {
	var out []Milestone
	add := func(t MilestoneType, desc string) {
		out = append(out, Milestone{Type: t, SimTimeSec: stats.SimTimeSec, At: stats.At, Description: desc})
	}

	if !md.seenTerminal && stats.Terminals > 0 {
		md.seenTerminal = true
		add(MilestoneFirstTerminal, fmt.Sprintf("First fully grown plant after %.0fs", stats.SimTimeSec))
	}

	if stats.Legendaries > 0 {
		add(MilestoneLegendaryBloom, fmt.Sprintf("%d legendary form(s) bloomed", stats.Legendaries))
	}

	if avg, ok := md.meanEvolutions(); ok && avg > 0 &&
		float64(stats.Evolutions) > avg*2 && stats.Evolutions >= surgeMinEvolutions {
		add(MilestoneEvolutionSurge, fmt.Sprintf("%d evolutions is %.1fx average (%.2f)", stats.Evolutions, float64(stats.Evolutions)/avg, avg))
	}

	if stats.Griefs >= griefWaveSize {
		add(MilestoneGriefWave, fmt.Sprintf("%d plants began grieving", stats.Griefs))
	}

	if stats.WishesFulfilled >= wishStreakSize {
		add(MilestoneWishStreak, fmt.Sprintf("%d wishes came true", stats.WishesFulfilled))
	}

	full := stats.Cells > 0 && stats.Plants >= stats.Cells
	if full && !md.wasFull {
		add(MilestoneFullGarden, fmt.Sprintf("All %d cells are planted", stats.Cells))
	}
	md.wasFull = full

	md.addToHistory(stats)
	return out
}

func (md *MilestoneDetector) addToHistory(stats WindowStats) {
	md.history[md.historyIdx] = stats
	md.historyIdx = (md.historyIdx + 1) % md.historySize
	if md.historyIdx == 0 {
		md.historyFull = true
	}
}

func (md *MilestoneDetector) getHistory() []WindowStats {
	if md.historyFull {
		return md.history
	}
	return md.history[:md.historyIdx]
}

// meanEvolutions returns the rolling mean once three windows are known.
func (md *MilestoneDetector) meanEvolutions() (float64, bool) {
	history := md.getHistory()
	if len(history) < 3 {
		return 0, false
	}
	var total int
	for _, h := range history {
		total += h.Evolutions
	}
	return float64(total) / float64(len(history)), true
}
