// Package metrics exposes garden activity as Prometheus metrics on a
// private registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/garden"
)

// Recorder holds the garden metrics. A nil *Recorder records nothing.
type Recorder struct {
	reg *prometheus.Registry

	events *prometheus.CounterVec
	points prometheus.Counter
	plants prometheus.Gauge
	water  prometheus.Gauge
	elders *prometheus.GaugeVec
	tick   prometheus.Histogram
}

// New creates a recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Recorder{
		reg: reg,
		events: factory.NewCounterVec(
			prometheus.CounterOpts{Name: MetricNameEvents, Help: HelpTextEvents},
			[]string{LabelType},
		),
		points: factory.NewCounter(
			prometheus.CounterOpts{Name: MetricNamePoints, Help: HelpTextPoints},
		),
		plants: factory.NewGauge(
			prometheus.GaugeOpts{Name: MetricNamePlants, Help: HelpTextPlants},
		),
		water: factory.NewGauge(
			prometheus.GaugeOpts{Name: MetricNameWater, Help: HelpTextWater},
		),
		elders: factory.NewGaugeVec(
			prometheus.GaugeOpts{Name: MetricNameElders, Help: HelpTextElders},
			[]string{LabelTier},
		),
		tick: factory.NewHistogram(
			prometheus.HistogramOpts{Name: MetricNameTickSeconds, Help: HelpTextTickSeconds, Buckets: TickBuckets},
		),
	}

	// Pre-create every series so exports list zeros instead of gaps.
	for _, t := range garden.EventTypes() {
		r.events.WithLabelValues(string(t))
	}
	for _, name := range components.ElderTierNames()[1:] {
		r.elders.WithLabelValues(name)
	}
	return r
}

// Registry returns the registry the metrics live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Observe counts a garden event.
func (r *Recorder) Observe(e garden.Event) {
	if r == nil {
		return
	}
	r.events.WithLabelValues(string(e.Type)).Inc()
}

// AddPoints adds points earned by the session.
func (r *Recorder) AddPoints(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.points.Add(float64(n))
}

// SetGarden records the current plant count, water and elder census.
func (r *Recorder) SetGarden(plants, water int, elders map[components.ElderTier]int) {
	if r == nil {
		return
	}
	r.plants.Set(float64(plants))
	r.water.Set(float64(water))
	for _, tier := range []components.ElderTier{components.Elder, components.Ancient, components.LegendaryElder} {
		r.elders.WithLabelValues(tier.String()).Set(float64(elders[tier]))
	}
}

// ObserveTick records the duration of one session step.
func (r *Recorder) ObserveTick(d time.Duration) {
	if r == nil {
		return
	}
	r.tick.Observe(d.Seconds())
}

// WriteTextfile writes the current metrics in the text exposition format,
// for the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
