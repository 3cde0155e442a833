// Package config provides configuration loading and access for the garden simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Garden    GardenConfig    `yaml:"garden"`
	Timing    TimingConfig    `yaml:"timing"`
	Resources ResourcesConfig `yaml:"resources"`
	Economy   EconomyConfig   `yaml:"economy"`
	Watering  WateringConfig  `yaml:"watering"`
	Growth    GrowthConfig    `yaml:"growth"`
	Bonds     BondsConfig     `yaml:"bonds"`
	Elders    EldersConfig    `yaml:"elders"`
	Wishes    WishesConfig    `yaml:"wishes"`
	Visitors  VisitorsConfig  `yaml:"visitors"`
	Night     NightConfig     `yaml:"night"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GardenConfig holds grid settings.
type GardenConfig struct {
	GridSize     int    `yaml:"grid_size" validate:"min=1,max=16"`
	StartingSeed string `yaml:"starting_seed" validate:"required"`
}

// TimingConfig holds tick cadences and offline handling.
type TimingConfig struct {
	GrowthTick         time.Duration `yaml:"growth_tick" validate:"gt=0"`
	BondCheckInterval  time.Duration `yaml:"bond_check_interval" validate:"gte=0"`
	WishCheckInterval  time.Duration `yaml:"wish_check_interval" validate:"gte=0"`
	ElderCheckInterval time.Duration `yaml:"elder_check_interval" validate:"gte=0"`
	OfflineMultiplier  float64       `yaml:"offline_multiplier" validate:"gte=0"`
	MinOffline         time.Duration `yaml:"min_offline" validate:"gte=0"`
	MaxOffline         time.Duration `yaml:"max_offline" validate:"gtfield=MinOffline"`
	WaterRegen         time.Duration `yaml:"water_regen" validate:"gt=0"`
	FarmerMoveInterval time.Duration `yaml:"farmer_move_interval" validate:"gt=0"`
}

// ResourcesConfig holds the water pool.
type ResourcesConfig struct {
	WaterMax int `yaml:"water_max" validate:"min=1"`
}

// EconomyConfig holds points, golden and combo parameters.
type EconomyConfig struct {
	GoldenChance         float64       `yaml:"golden_chance" validate:"gte=0,lte=1"`
	GoldenMultiplier     float64       `yaml:"golden_multiplier" validate:"gte=1"`
	GoldenGrowthBoost    float64       `yaml:"golden_growth_boost" validate:"gte=1"`
	ComboWindow          time.Duration `yaml:"combo_window" validate:"gt=0"`
	ComboMinSize         int           `yaml:"combo_min_size" validate:"min=2"`
	ComboGrowthBoost     float64       `yaml:"combo_growth_boost" validate:"gte=1"`
	NeighborBonus        float64       `yaml:"neighbor_bonus" validate:"gte=0"`
	FarmerProximityBonus float64       `yaml:"farmer_proximity_bonus" validate:"gte=0"`
	FarmerAutoWater      time.Duration `yaml:"farmer_auto_water" validate:"gt=0"`
	HarvestWaterReturn   int           `yaml:"harvest_water_return" validate:"min=0"`
	WishReward           int           `yaml:"wish_reward" validate:"min=0"`
	RetireMultiplier     float64       `yaml:"retire_multiplier" validate:"gte=1"`
}

// WateringConfig holds the diminishing-returns table.
type WateringConfig struct {
	DiminishingReturns []float64 `yaml:"diminishing_returns" validate:"min=1,dive,gt=0,lte=1"`
	MinEffectiveness   float64   `yaml:"min_effectiveness" validate:"gt=0,lte=1"`
}

// GrowthConfig holds growth-time scaling.
type GrowthConfig struct {
	// TierMultipliers scales a node's base growth time, keyed by that node's tier.
	TierMultipliers map[int]float64 `yaml:"tier_multipliers" validate:"required,dive,keys,min=0,max=16,endkeys,gt=0"`
}

// BondsConfig holds neighbor bond thresholds, boosts and grief.
type BondsConfig struct {
	FriendTime      time.Duration `yaml:"friend_time" validate:"gt=0"`
	BestFriendTime  time.Duration `yaml:"best_friend_time" validate:"gtfield=FriendTime"`
	SoulmateTime    time.Duration `yaml:"soulmate_time" validate:"gtfield=BestFriendTime"`
	FriendBoost     float64       `yaml:"friend_boost" validate:"gte=0"`
	BestFriendBoost float64       `yaml:"best_friend_boost" validate:"gtefield=FriendBoost"`
	SoulmateBoost   float64       `yaml:"soulmate_boost" validate:"gtefield=BestFriendBoost"`
	MaxBoost        float64       `yaml:"max_boost" validate:"gte=0"`
	FriendGrief     time.Duration `yaml:"friend_grief" validate:"gte=0"`
	BestFriendGrief time.Duration `yaml:"best_friend_grief" validate:"gtefield=FriendGrief"`
	SoulmateGrief   time.Duration `yaml:"soulmate_grief" validate:"gtefield=BestFriendGrief"`
	GriefPenalty    float64       `yaml:"grief_penalty" validate:"gt=0,lte=1"`
}

// EldersConfig holds elder thresholds, auras and harvest multipliers.
type EldersConfig struct {
	ElderTime        time.Duration `yaml:"elder_time" validate:"gt=0"`
	AncientTime      time.Duration `yaml:"ancient_time" validate:"gtfield=ElderTime"`
	LegendaryTime    time.Duration `yaml:"legendary_time" validate:"gtfield=AncientTime"`
	ElderAura        float64       `yaml:"elder_aura" validate:"gte=0"`
	AncientAura      float64       `yaml:"ancient_aura" validate:"gtefield=ElderAura"`
	LegendaryAura    float64       `yaml:"legendary_aura" validate:"gtefield=AncientAura"`
	MaxAura          float64       `yaml:"max_aura" validate:"gte=0"`
	ElderHarvest     float64       `yaml:"elder_harvest" validate:"gte=1"`
	AncientHarvest   float64       `yaml:"ancient_harvest" validate:"gtefield=ElderHarvest"`
	LegendaryHarvest float64       `yaml:"legendary_harvest" validate:"gtefield=AncientHarvest"`
	HallOfFameSize   int           `yaml:"hall_of_fame_size" validate:"min=1"`
}

// WishesConfig holds wish cadence and fulfillment rewards.
type WishesConfig struct {
	MinInterval     time.Duration `yaml:"min_interval" validate:"gte=0"`
	MaxInterval     time.Duration `yaml:"max_interval" validate:"gtfield=MinInterval"`
	Duration        time.Duration `yaml:"duration" validate:"gt=0"`
	MaxChance       float64       `yaml:"max_chance" validate:"gte=0,lte=1"`
	HelpFriendBonus time.Duration `yaml:"help_friend_bonus" validate:"gte=0"`
	MakeFriendBonus time.Duration `yaml:"make_friend_bonus" validate:"gte=0"`
	LonelyBonus     time.Duration `yaml:"lonely_bonus" validate:"gte=0"`
	DefaultBonus    time.Duration `yaml:"default_bonus" validate:"gte=0"`
}

// VisitorsConfig holds visitor scheduling.
type VisitorsConfig struct {
	SpawnMin           time.Duration `yaml:"spawn_min" validate:"gt=0"`
	SpawnMax           time.Duration `yaml:"spawn_max" validate:"gtefield=SpawnMin"`
	VisitDuration      time.Duration `yaml:"visit_duration" validate:"gt=0"`
	TerminalPlantBonus float64       `yaml:"terminal_plant_bonus" validate:"gte=0"`
	MaxReduction       float64       `yaml:"max_reduction" validate:"gte=0,lt=1"`
	PollinateBoost     float64       `yaml:"pollinate_boost" validate:"gte=1"`
}

// NightConfig defines the night window in local hours. Night is
// hour >= StartHour or hour < EndHour.
type NightConfig struct {
	StartHour int `yaml:"start_hour" validate:"min=0,max=23"`
	EndHour   int `yaml:"end_hour" validate:"min=0,max=23"`
}

// TelemetryConfig holds stats and milestone settings.
type TelemetryConfig struct {
	StatsWindow      time.Duration `yaml:"stats_window" validate:"gt=0"`
	MilestoneHistory int           `yaml:"milestone_history" validate:"min=1"`
	PerfWindow       int           `yaml:"perf_window" validate:"min=1"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// DerivedConfig holds level-indexed lookup tables.
// Bond tables are indexed acquaintance, friend, best friend, soulmate.
// Elder tables are indexed none, elder, ancient, legendary.
type DerivedConfig struct {
	BondThresholds  [4]time.Duration
	BondBoosts      [4]float64
	GriefDurations  [4]time.Duration
	ElderThresholds [4]time.Duration
	ElderAuras      [4]float64
	ElderHarvest    [4]float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks value ranges and threshold ordering.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// formatFieldError renders one validation failure with its YAML path.
func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "gtfield", "gtefield":
		return fmt.Sprintf("%s must not be below %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	b := c.Bonds
	c.Derived.BondThresholds = [4]time.Duration{0, b.FriendTime, b.BestFriendTime, b.SoulmateTime}
	c.Derived.BondBoosts = [4]float64{0, b.FriendBoost, b.BestFriendBoost, b.SoulmateBoost}
	c.Derived.GriefDurations = [4]time.Duration{0, b.FriendGrief, b.BestFriendGrief, b.SoulmateGrief}

	e := c.Elders
	c.Derived.ElderThresholds = [4]time.Duration{0, e.ElderTime, e.AncientTime, e.LegendaryTime}
	c.Derived.ElderAuras = [4]float64{0, e.ElderAura, e.AncientAura, e.LegendaryAura}
	c.Derived.ElderHarvest = [4]float64{1, e.ElderHarvest, e.AncientHarvest, e.LegendaryHarvest}
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() {
	c.computeDerived()
}

// IsNight reports whether the given local hour falls in the night window.
func (c *Config) IsNight(hour int) bool {
	if c.Night.StartHour <= c.Night.EndHour {
		return hour >= c.Night.StartHour && hour < c.Night.EndHour
	}
	return hour >= c.Night.StartHour || hour < c.Night.EndHour
}

// TierMultiplier returns the growth-time multiplier for a tier, 1 when unset.
func (c *Config) TierMultiplier(tier int) float64 {
	if m, ok := c.Growth.TierMultipliers[tier]; ok {
		return m
	}
	return 1
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
