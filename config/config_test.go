package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Garden.GridSize)
	assert.Equal(t, "sprout", cfg.Garden.StartingSeed)
	assert.Equal(t, time.Second, cfg.Timing.GrowthTick)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timing.WaterRegen)
	assert.Equal(t, 8*time.Hour, cfg.Timing.MaxOffline)
	assert.Equal(t, []float64{1, 0.5, 0.25, 0.1}, cfg.Watering.DiminishingReturns)
	assert.Equal(t, 20.0, cfg.Growth.TierMultipliers[4])
}

func TestDerivedTables(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, [4]time.Duration{0, 2 * time.Minute, 5 * time.Minute, 15 * time.Minute}, cfg.Derived.BondThresholds)
	assert.Equal(t, [4]time.Duration{0, 5 * time.Minute, 15 * time.Minute, 30 * time.Minute}, cfg.Derived.GriefDurations)
	assert.Equal(t, [4]float64{1, 1.5, 2, 3}, cfg.Derived.ElderHarvest)
	assert.Equal(t, 0.20, cfg.Derived.ElderAuras[3], "legendary aura")
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garden.yaml")
	content := "garden:\n  grid_size: 5\nbonds:\n  friend_time: 1m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Garden.GridSize)
	assert.Equal(t, time.Minute, cfg.Bonds.FriendTime)
	assert.Equal(t, time.Minute, cfg.Derived.BondThresholds[1])
	// Untouched keys keep their defaults.
	assert.Equal(t, "sprout", cfg.Garden.StartingSeed)
	assert.Equal(t, 5*time.Minute, cfg.Bonds.BestFriendTime)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "zero grid",
			mutate:  func(c *Config) { c.Garden.GridSize = 0 },
			wantErr: "garden.grid_size",
		},
		{
			name:    "bond thresholds out of order",
			mutate:  func(c *Config) { c.Bonds.SoulmateTime = time.Minute },
			wantErr: "bonds.soulmate_time",
		},
		{
			name:    "elder thresholds out of order",
			mutate:  func(c *Config) { c.Elders.AncientTime = c.Elders.ElderTime },
			wantErr: "elders.ancient_time",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "effectiveness above one",
			mutate:  func(c *Config) { c.Watering.DiminishingReturns = []float64{1.5} },
			wantErr: "watering.diminishing_returns",
		},
		{
			name:    "night hour out of range",
			mutate:  func(c *Config) { c.Night.StartHour = 24 },
			wantErr: "night.start_hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsNight(t *testing.T) {
	cfg := Defaults()
	cases := map[int]bool{0: true, 5: true, 6: false, 12: false, 19: false, 20: true, 23: true}
	for hour, want := range cases {
		assert.Equal(t, want, cfg.IsNight(hour), "IsNight(%d)", hour)
	}
}

func TestTierMultiplierFallback(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 8.0, cfg.TierMultiplier(3))
	assert.Equal(t, 1.0, cfg.TierMultiplier(42))
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Garden.GridSize = 4
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Garden.GridSize)
	assert.Equal(t, cfg.Bonds, loaded.Bonds)
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	assert.Panics(t, func() { Cfg() })
	MustInit("")
	assert.NotNil(t, Cfg())
}
