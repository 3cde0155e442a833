package main

import (
	"fmt"
	"maps"

	"github.com/pthm-cable/garden/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Tier    int     // Tier whose growth multiplier this sets
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the growth multipliers of tiers 1 to 4.
func NewParamVector() *ParamVector {
	spec := func(tier int, lo, hi, def float64) ParamSpec {
		return ParamSpec{
			Name:    fmt.Sprintf("tier_%d", tier),
			Path:    fmt.Sprintf("growth.tier_multipliers.%d", tier),
			Tier:    tier,
			Min:     lo,
			Max:     hi,
			Default: def,
		}
	}
	return &ParamVector{
		Specs: []ParamSpec{
			spec(1, 0.1, 2, 0.5),
			spec(2, 0.5, 6, 2),
			spec(3, 2, 20, 8),
			spec(4, 5, 40, 20),
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into cfg's tier multipliers. The
// multiplier map is replaced, so configs sharing it are unaffected.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	mults := maps.Clone(cfg.Growth.TierMultipliers)
	if mults == nil {
		mults = make(map[int]float64, len(pv.Specs))
	}
	for i, spec := range pv.Specs {
		mults[spec.Tier] = clamped[i]
	}
	cfg.Growth.TierMultipliers = mults
	cfg.Refresh()
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = cfg.TierMultiplier(spec.Tier)
	}
	return v
}
