package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/garden/config"
)

// ---------- params ----------

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	norm := pv.Normalize(raw)
	for i, v := range norm {
		assert.GreaterOrEqual(t, v, 0.0, pv.Specs[i].Name)
		assert.LessOrEqual(t, v, 1.0, pv.Specs[i].Name)
	}
	assert.InDeltaSlice(t, raw, pv.Denormalize(norm), 1e-9)
}

func TestParamVector_Clamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-1, 100, 8, 21})
	assert.Equal(t, []float64{0.1, 6, 8, 21}, got)
}

func TestParamVector_ApplyLeavesBaseAlone(t *testing.T) {
	pv := NewParamVector()
	base := config.Defaults()
	before := pv.ExtractFromConfig(base)

	cfg := *base
	pv.ApplyToConfig(&cfg, []float64{1, 3, 10, 30})

	assert.Equal(t, []float64{1, 3, 10, 30}, pv.ExtractFromConfig(&cfg))
	assert.Equal(t, before, pv.ExtractFromConfig(base))
	assert.Equal(t, base.TierMultiplier(0), cfg.TierMultiplier(0), "untuned tiers are kept")
}

// ---------- fitness ----------

func TestComputeFitness(t *testing.T) {
	target := 30 * time.Minute
	tests := []struct {
		name  string
		stage []float64
		want  float64
	}{
		{"nothing bloomed", nil, missPenalty},
		{"single on target", []float64{30}, 0},
		{"single twice as slow", []float64{60}, 1},
		{"even spread on target", []float64{30, 30, 30}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, computeFitness(tt.stage, target), 1e-9)
		})
	}
}

func TestComputeFitness_SpreadCosts(t *testing.T) {
	target := 30 * time.Minute
	tight := computeFitness([]float64{29, 31}, target)
	loose := computeFitness([]float64{10, 50}, target)
	assert.Less(t, tight, loose)
}

func TestFitnessEvaluator_Evaluate(t *testing.T) {
	pv := NewParamVector()
	base := config.Defaults()
	fe := NewFitnessEvaluator(pv, 120, []int64{42, 1042}, base, 30*time.Minute)

	fitness := fe.Evaluate(pv.DefaultVector())
	require.False(t, fitness < 0)
	assert.LessOrEqual(t, fitness, missPenalty)
	assert.Equal(t, pv.DefaultVector(), pv.ExtractFromConfig(base), "runs work on copies")
	for _, m := range fe.Last().stageMinutes {
		assert.Positive(t, m)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2m05s", formatDuration(125*time.Second))
	assert.Equal(t, "1h01m01s", formatDuration(time.Hour+time.Minute+time.Second))
}
