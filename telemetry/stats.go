package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartSec float64 `csv:"-"`
	SimTimeSec     float64 `csv:"sim_time"`
	At             string  `csv:"at"`

	// Garden state at window end
	Plants    int `csv:"plants"`
	Cells     int `csv:"cells"`
	Terminals int `csv:"terminals"`
	Water     int `csv:"water"`
	Points    int `csv:"points"`

	// Events during window
	Placed          int `csv:"placed"`
	Waterings       int `csv:"waterings"`
	Evolutions      int `csv:"evolutions"`
	Specials        int `csv:"specials"`
	Legendaries     int `csv:"legendaries"`
	Discoveries     int `csv:"discoveries"`
	Merges          int `csv:"merges"`
	Harvests        int `csv:"harvests"`
	HarvestPoints   int `csv:"harvest_points"`
	Combos          int `csv:"combos"`
	BondsFormed     int `csv:"bonds_formed"`
	Griefs          int `csv:"griefs"`
	EldersReached   int `csv:"elders_reached"`
	WishesAppeared  int `csv:"wishes_appeared"`
	WishesFulfilled int `csv:"wishes_fulfilled"`
	Retirements     int `csv:"retirements"`
	VisitorTouches  int `csv:"visitor_touches"`

	// Distributions (sampled at window end)
	ProgressMean float64 `csv:"progress_mean"`
	ProgressStd  float64 `csv:"progress_std"`
	AgeP50Min    float64 `csv:"age_p50_min"`
	AgeP90Min    float64 `csv:"age_p90_min"`
	BondsMean    float64 `csv:"bonds_mean"`
	BondsP90     float64 `csv:"bonds_p90"`

	// Elder census
	Elders          int `csv:"elders"`
	Ancients        int `csv:"ancients"`
	LegendaryElders int `csv:"legendary_elders"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean float64
	Std  float64
	P50  float64
	P90  float64
}

// Summarize computes mean, standard deviation and empirical quantiles.
// An empty sample yields zeros; a single value has no spread.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var d Distribution
	if n == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return d
}

// FillFrom copies a garden sample's distributions into the stats.
func (s *WindowStats) FillFrom(sample Sample) {
	progress := Summarize(sample.Progress)
	s.ProgressMean = progress.Mean
	s.ProgressStd = progress.Std

	ages := Summarize(sample.AgesMin)
	s.AgeP50Min = ages.P50
	s.AgeP90Min = ages.P90

	bonds := Summarize(sample.Bonds)
	s.BondsMean = bonds.Mean
	s.BondsP90 = bonds.P90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("plants", s.Plants),
		slog.Int("terminals", s.Terminals),
		slog.Int("water", s.Water),
		slog.Int("points", s.Points),
		slog.Int("evolutions", s.Evolutions),
		slog.Int("specials", s.Specials),
		slog.Int("harvests", s.Harvests),
		slog.Int("merges", s.Merges),
		slog.Int("bonds_formed", s.BondsFormed),
		slog.Int("griefs", s.Griefs),
		slog.Int("wishes_fulfilled", s.WishesFulfilled),
		slog.Float64("progress_mean", s.ProgressMean),
		slog.Float64("age_p90_min", s.AgeP90Min),
		slog.Int("elders", s.Elders+s.Ancients+s.LegendaryElders),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"sim_time", s.SimTimeSec,
		"plants", s.Plants,
		"terminals", s.Terminals,
		"water", s.Water,
		"points", s.Points,
		"placed", s.Placed,
		"waterings", s.Waterings,
		"evolutions", s.Evolutions,
		"specials", s.Specials,
		"legendaries", s.Legendaries,
		"discoveries", s.Discoveries,
		"merges", s.Merges,
		"harvests", s.Harvests,
		"harvest_points", s.HarvestPoints,
		"combos", s.Combos,
		"bonds_formed", s.BondsFormed,
		"griefs", s.Griefs,
		"elders_reached", s.EldersReached,
		"wishes_appeared", s.WishesAppeared,
		"wishes_fulfilled", s.WishesFulfilled,
		"retirements", s.Retirements,
		"visitor_touches", s.VisitorTouches,
		"progress_mean", s.ProgressMean,
		"progress_std", s.ProgressStd,
		"age_p50_min", s.AgeP50Min,
		"age_p90_min", s.AgeP90Min,
		"bonds_mean", s.BondsMean,
		"bonds_p90", s.BondsP90,
		"elders", s.Elders,
		"ancients", s.Ancients,
		"legendary_elders", s.LegendaryElders,
	)
}
