package game

import (
	"github.com/pthm-cable/garden/catalog"
	"github.com/pthm-cable/garden/clock"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/metrics"
	"github.com/pthm-cable/garden/telemetry"
)

// Options configures a Game. Zero fields get defaults.
type Options struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Clock   clock.Clock

	// Seed seeds the session RNG. Zero picks one from the clock.
	Seed int64
	// NewID overrides plant id generation.
	NewID func() string

	OutputDir   string // CSV and JSON output, empty disables
	SnapshotDir string // milestone snapshots, empty disables
	LogStats    bool   // log each telemetry window

	// HallOfFame seeds the hall with retirees from earlier runs, newest first.
	HallOfFame []telemetry.HallEntry

	Metrics       *metrics.Recorder
	StatsCallback func(telemetry.WindowStats)
}

func (o Options) withDefaults() Options {
	if o.Config == nil {
		o.Config = config.Defaults()
	}
	if o.Catalog == nil {
		o.Catalog = catalog.MustLoad(o.Config.Growth.TierMultipliers)
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.Seed == 0 {
		o.Seed = o.Clock.Now().UnixNano()
	}
	return o
}
