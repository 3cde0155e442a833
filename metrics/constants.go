package metrics

// Metric names
const (
	MetricNameEvents      = "garden_events_total"
	MetricNamePoints      = "garden_points_total"
	MetricNamePlants      = "garden_plants"
	MetricNameWater       = "garden_water"
	MetricNameElders      = "garden_elders"
	MetricNameTickSeconds = "garden_tick_seconds"
)

// Metric help text
const (
	HelpTextEvents      = "Garden events emitted, by type"
	HelpTextPoints      = "Garden points earned by the session"
	HelpTextPlants      = "Plants currently in the garden"
	HelpTextWater       = "Water units currently in the pool"
	HelpTextElders      = "Plants currently holding each elder tier"
	HelpTextTickSeconds = "Wall time spent in one session step"
)

// Labels
const (
	LabelType = "type"
	LabelTier = "tier"
)

// TickBuckets spans microsecond steps up to slow, crowded ticks.
var TickBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05}
