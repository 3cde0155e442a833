package telemetry

import (
	"time"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/garden"
)

// Sample is the garden state a window closes over.
type Sample struct {
	Plants    int
	Cells     int
	Terminals int
	Water     int
	Points    int

	Progress []float64 // growth progress per plant
	AgesMin  []float64 // minutes since planting per plant
	Bonds    []float64 // bond count per plant

	Elders map[components.ElderTier]int
}

// SampleGarden reads the distributions of g at now. Water and Points
// belong to the session and are left for the caller.
func SampleGarden(g *garden.Garden, now time.Time) Sample {
	n := g.Len()
	s := Sample{
		Plants:    n,
		Cells:     g.Size() * g.Size(),
		Terminals: g.TerminalCount(),
		Progress:  make([]float64, 0, n),
		AgesMin:   make([]float64, 0, n),
		Bonds:     make([]float64, 0, n),
		Elders:    g.ElderCounts(now),
	}
	g.Scan(func(p garden.PlantState) {
		s.Progress = append(s.Progress, p.Progress)
		s.AgesMin = append(s.AgesMin, now.Sub(p.PlantedAt).Minutes())
		s.Bonds = append(s.Bonds, float64(len(p.Bonds)))
	})
	return s
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	window      time.Duration
	start       time.Time
	windowStart time.Time

	// Event counters for current window
	counts WindowStats
}

// NewCollector creates a collector whose first window opens at start.
func NewCollector(window time.Duration, start time.Time) *Collector {
	if window <= 0 {
		window = time.Minute
	}
	return &Collector{
		window:      window,
		start:       start,
		windowStart: start,
	}
}

// Record counts one garden event.
func (c *Collector) Record(e garden.Event) {
	n := &c.counts
	switch e.Type {
	case garden.EventPlaced:
		n.Placed++
	case garden.EventWatered:
		n.Waterings++
	case garden.EventEvolved:
		n.Evolutions++
		if e.Special {
			n.Specials++
		}
		if e.Legendary {
			n.Legendaries++
		}
	case garden.EventDiscovered:
		n.Discoveries++
	case garden.EventMerged:
		n.Merges++
		if e.Legendary {
			n.Legendaries++
		}
	case garden.EventHarvested:
		n.Harvests++
		n.HarvestPoints += e.Points
	case garden.EventComboWatered:
		n.Combos++
	case garden.EventBondFormed:
		n.BondsFormed++
	case garden.EventGrieving:
		n.Griefs++
	case garden.EventElderReached:
		n.EldersReached++
	case garden.EventWishAppeared:
		n.WishesAppeared++
	case garden.EventWishFulfilled:
		n.WishesFulfilled++
	case garden.EventRetired:
		n.Retirements++
	case garden.EventVisitorTouched:
		n.VisitorTouches++
	}
}

// ShouldFlush returns true once the current window has elapsed.
func (c *Collector) ShouldFlush(now time.Time) bool {
	return now.Sub(c.windowStart) >= c.window
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(now time.Time, sample Sample) WindowStats {
	stats := c.counts
	stats.WindowStartSec = c.windowStart.Sub(c.start).Seconds()
	stats.SimTimeSec = now.Sub(c.start).Seconds()
	stats.At = now.UTC().Format(time.RFC3339)

	stats.Plants = sample.Plants
	stats.Cells = sample.Cells
	stats.Terminals = sample.Terminals
	stats.Water = sample.Water
	stats.Points = sample.Points
	stats.FillFrom(sample)

	stats.Elders = sample.Elders[components.Elder]
	stats.Ancients = sample.Elders[components.Ancient]
	stats.LegendaryElders = sample.Elders[components.LegendaryElder]

	// Reset for next window
	c.windowStart = now
	c.counts = WindowStats{}

	return stats
}

// Window returns the window length.
func (c *Collector) Window() time.Duration {
	return c.window
}
