package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/validation"
)

// RarityTable holds one value per rarity tier
type RarityTable[T any] struct {
	Common    T `yaml:"common"`
	Rare      T `yaml:"rare"`
	Epic      T `yaml:"epic"`
	Legendary T `yaml:"legendary"`
}

// Get returns the value for r. Unknown tiers fall back to Common.
func (t RarityTable[T]) Get(r domain.Rarity) T {
	switch r {
	case domain.RarityRare:
		return t.Rare
	case domain.RarityEpic:
		return t.Epic
	case domain.RarityLegendary:
		return t.Legendary
	default:
		return t.Common
	}
}

// QualityTable holds one value per catch quality
type QualityTable[T any] struct {
	Perfect T `yaml:"perfect"`
	Great   T `yaml:"great"`
	Good    T `yaml:"good"`
	Miss    T `yaml:"miss"`
}

// Get returns the value for q. Unknown qualities fall back to Miss.
func (t QualityTable[T]) Get(q domain.CatchQuality) T {
	switch q {
	case domain.QualityPerfect:
		return t.Perfect
	case domain.QualityGreat:
		return t.Great
	case domain.QualityGood:
		return t.Good
	default:
		return t.Miss
	}
}

// LevelStep sets Value from Level upward until the next step
type LevelStep struct {
	Level int `yaml:"level"`
	Value int `yaml:"value"`
}

// FeatureConfig describes a warmth-shop feature
type FeatureConfig struct {
	ID          domain.Feature `yaml:"id"`
	UnlockLevel int            `yaml:"unlock_level"`
	Cost        int            `yaml:"cost"`
}

// PityThresholds are the guaranteed-drop attempt counts per tier
type PityThresholds struct {
	Rare      int `yaml:"rare"`
	Epic      int `yaml:"epic"`
	Legendary int `yaml:"legendary"`
}

// RarityConfig tunes the rarity roller
type RarityConfig struct {
	Weights RarityTable[float64] `yaml:"weights"`
	Pity    PityThresholds       `yaml:"pity"`
}

// ProgressionConfig tunes levels, caps, streaks and warmth
type ProgressionConfig struct {
	// LevelThresholds[i] is the cumulative XP required for level i+1
	LevelThresholds  []int64           `yaml:"level_thresholds"`
	DailyCapSteps    []LevelStep       `yaml:"daily_cap_steps"`
	WarmthCapSteps   []LevelStep       `yaml:"warmth_cap_steps"`
	StreakBonusEvery int               `yaml:"streak_bonus_every"`
	StreakBonusMax   int               `yaml:"streak_bonus_max"`
	WarmthByQuality  QualityTable[int] `yaml:"warmth_by_quality"`
	Features         []FeatureConfig   `yaml:"features"`
	HeatModeDuration time.Duration     `yaml:"heat_mode_duration"`
	HeatModeBonus    float64           `yaml:"heat_mode_bonus"`
	MaxSecondCharges int               `yaml:"max_second_attempt_charges"`
	TrackerRadius    float64           `yaml:"tracker_ping_radius_meters"`
}

// SpawnConfig tunes the spawn registry
type SpawnConfig struct {
	ReservationWindow   time.Duration        `yaml:"reservation_window"`
	CatchRadiusMeters   float64              `yaml:"catch_radius_meters"`
	DefaultMaxAttempts  int                  `yaml:"default_max_attempts"`
	DefaultTTL          time.Duration        `yaml:"default_ttl"`
	NearbyDefaultRadius float64              `yaml:"nearby_default_radius_meters"`
	NearbyMaxRadius     float64              `yaml:"nearby_max_radius_meters"`
	NearbyMaxResults    int                  `yaml:"nearby_max_results"`
	TargetHalfWidth     RarityTable[float64] `yaml:"target_half_width"`
	EggTargetHalfWidth  float64              `yaml:"egg_target_half_width"`
}

// CatchConfig tunes the catch resolver
type CatchConfig struct {
	BaseChance     RarityTable[float64]  `yaml:"base_chance"`
	QualityBonus   QualityTable[float64] `yaml:"quality_bonus"`
	Ceiling        float64               `yaml:"ceiling"`
	PerfectFactor  float64               `yaml:"perfect_factor"`
	GoodFactor     float64               `yaml:"good_factor"`
	XPByQuality    QualityTable[int64]   `yaml:"xp_by_quality"`
	PointsByRarity RarityTable[int64]    `yaml:"points_by_rarity"`
	EggBaseRarity  domain.Rarity         `yaml:"egg_base_rarity"`
}

// Economy is the single versioned game-economy configuration injected into
// the roller, ledger, registry and resolver at startup.
type Economy struct {
	Version     string            `yaml:"version"`
	Rarity      RarityConfig      `yaml:"rarity"`
	Progression ProgressionConfig `yaml:"progression"`
	Spawn       SpawnConfig       `yaml:"spawn"`
	Catch       CatchConfig       `yaml:"catch"`
}

// DefaultEconomy returns the shipped game-economy tuning
func DefaultEconomy() Economy {
	return Economy{
		Version: EconomySchemaVersion,
		Rarity: RarityConfig{
			Weights: RarityTable[float64]{Common: 70, Rare: 22, Epic: 6, Legendary: 2},
			Pity:    PityThresholds{Rare: 10, Epic: 40, Legendary: 150},
		},
		Progression: ProgressionConfig{
			LevelThresholds: []int64{0, 1500, 4500, 9000, 15000, 22500, 31500, 42000, 54000, 67500},
			DailyCapSteps: []LevelStep{
				{Level: 1, Value: 25},
				{Level: 3, Value: 30},
				{Level: 5, Value: 35},
				{Level: 7, Value: 40},
				{Level: 10, Value: 50},
			},
			WarmthCapSteps: []LevelStep{
				{Level: 1, Value: 10},
				{Level: 4, Value: 15},
				{Level: 6, Value: 20},
				{Level: 9, Value: 30},
			},
			StreakBonusEvery: 7,
			StreakBonusMax:   5,
			WarmthByQuality:  QualityTable[int]{Perfect: 3, Great: 2, Good: 1, Miss: 0},
			Features: []FeatureConfig{
				{ID: domain.FeatureTrackerPing, UnlockLevel: 3, Cost: 2},
				{ID: domain.FeatureSecondAttempt, UnlockLevel: 4, Cost: 4},
				{ID: domain.FeatureHeatMode, UnlockLevel: 5, Cost: 6},
			},
			HeatModeDuration: 15 * time.Minute,
			HeatModeBonus:    0.10,
			MaxSecondCharges: 1,
			TrackerRadius:    2000,
		},
		Spawn: SpawnConfig{
			ReservationWindow:   8 * time.Minute,
			CatchRadiusMeters:   100,
			DefaultMaxAttempts:  5,
			DefaultTTL:          30 * time.Minute,
			NearbyDefaultRadius: 500,
			NearbyMaxRadius:     2000,
			NearbyMaxResults:    100,
			TargetHalfWidth:     RarityTable[float64]{Common: 0.12, Rare: 0.10, Epic: 0.08, Legendary: 0.06},
			EggTargetHalfWidth:  0.12,
		},
		Catch: CatchConfig{
			BaseChance:     RarityTable[float64]{Common: 0.90, Rare: 0.70, Epic: 0.50, Legendary: 0.30},
			QualityBonus:   QualityTable[float64]{Perfect: 0.30, Great: 0.15, Good: 0.05, Miss: 0},
			Ceiling:        0.95,
			PerfectFactor:  0.4,
			GoodFactor:     2.5,
			XPByQuality:    QualityTable[int64]{Perfect: 150, Great: 75, Good: 30, Miss: 0},
			PointsByRarity: RarityTable[int64]{Common: 10, Rare: 25, Epic: 60, Legendary: 150},
			EggBaseRarity:  domain.RarityCommon,
		},
	}
}

// LoadEconomy loads the economy config from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func LoadEconomy(path string) (Economy, error) {
	cfg := DefaultEconomy()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading economy config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing economy config %s: %w", path, err)
	}

	// Catches misspelled keys, which would otherwise silently keep defaults
	if err := validation.NewSchemaValidator().ValidateYAML(data, validation.EconomySchema); err != nil {
		return cfg, fmt.Errorf("invalid economy config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid economy config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the economy for values that would break game invariants
func (e Economy) Validate() error {
	var errs []error

	if e.Version != EconomySchemaVersion {
		errs = append(errs, fmt.Errorf("version mismatch: expected %s, got %q", EconomySchemaVersion, e.Version))
	}

	w := e.Rarity.Weights
	if w.Common < 0 || w.Rare < 0 || w.Epic < 0 || w.Legendary < 0 {
		errs = append(errs, errors.New("rarity weights must be non-negative"))
	}
	if sum := w.Common + w.Rare + w.Epic + w.Legendary; math.Abs(sum-100) > 1e-9 {
		errs = append(errs, fmt.Errorf("rarity weights must sum to 100, got %v", sum))
	}
	p := e.Rarity.Pity
	if p.Rare <= 0 || p.Epic <= 0 || p.Legendary <= 0 {
		errs = append(errs, errors.New("pity thresholds must be positive"))
	}

	errs = append(errs, e.Progression.validate()...)
	errs = append(errs, e.Spawn.validate()...)
	errs = append(errs, e.Catch.validate()...)

	return errors.Join(errs...)
}

func (p ProgressionConfig) validate() []error {
	var errs []error

	if len(p.LevelThresholds) != domain.MaxLevel {
		errs = append(errs, fmt.Errorf("level_thresholds must list %d levels, got %d", domain.MaxLevel, len(p.LevelThresholds)))
	} else {
		if p.LevelThresholds[0] != 0 {
			errs = append(errs, errors.New("level 1 must require 0 xp"))
		}
		for i := 1; i < len(p.LevelThresholds); i++ {
			if p.LevelThresholds[i] < p.LevelThresholds[i-1] {
				errs = append(errs, fmt.Errorf("level_thresholds must be non-decreasing at level %d", i+1))
			}
		}
	}

	errs = append(errs, validateSteps("daily_cap_steps", p.DailyCapSteps)...)
	errs = append(errs, validateSteps("warmth_cap_steps", p.WarmthCapSteps)...)

	if p.StreakBonusEvery <= 0 {
		errs = append(errs, errors.New("streak_bonus_every must be positive"))
	}
	if p.StreakBonusMax < 0 {
		errs = append(errs, errors.New("streak_bonus_max must be non-negative"))
	}

	seen := make(map[domain.Feature]bool)
	for _, f := range p.Features {
		if _, err := domain.ParseFeature(string(f.ID)); err != nil {
			errs = append(errs, err)
		}
		if seen[f.ID] {
			errs = append(errs, fmt.Errorf("feature %s listed twice", f.ID))
		}
		seen[f.ID] = true
		if f.Cost <= 0 || f.UnlockLevel < domain.MinLevel || f.UnlockLevel > domain.MaxLevel {
			errs = append(errs, fmt.Errorf("feature %s needs a positive cost and an unlock level in 1..%d", f.ID, domain.MaxLevel))
		}
	}
	if p.HeatModeDuration <= 0 {
		errs = append(errs, errors.New("heat_mode_duration must be positive"))
	}
	return errs
}

func validateSteps(name string, steps []LevelStep) []error {
	if len(steps) == 0 || steps[0].Level != domain.MinLevel {
		return []error{fmt.Errorf("%s must start at level %d", name, domain.MinLevel)}
	}
	var errs []error
	for i := 1; i < len(steps); i++ {
		if steps[i].Level <= steps[i-1].Level || steps[i].Value < steps[i-1].Value {
			errs = append(errs, fmt.Errorf("%s must be strictly increasing by level and non-decreasing by value", name))
			break
		}
	}
	return errs
}

func (s SpawnConfig) validate() []error {
	var errs []error
	if s.ReservationWindow <= 0 {
		errs = append(errs, errors.New("reservation_window must be positive"))
	}
	if s.CatchRadiusMeters <= 0 {
		errs = append(errs, errors.New("catch_radius_meters must be positive"))
	}
	if s.DefaultMaxAttempts <= 0 {
		errs = append(errs, errors.New("default_max_attempts must be positive"))
	}
	if s.DefaultTTL <= 0 {
		errs = append(errs, errors.New("default_ttl must be positive"))
	}
	if s.NearbyDefaultRadius <= 0 || s.NearbyMaxRadius < s.NearbyDefaultRadius {
		errs = append(errs, errors.New("nearby radii must be positive with max >= default"))
	}
	if s.NearbyMaxResults <= 0 {
		errs = append(errs, errors.New("nearby_max_results must be positive"))
	}
	return errs
}

func (c CatchConfig) validate() []error {
	var errs []error
	if c.Ceiling <= 0 || c.Ceiling > 1 {
		errs = append(errs, errors.New("ceiling must be in (0, 1]"))
	}
	for _, r := range domain.Rarities {
		if b := c.BaseChance.Get(r); b < 0 || b > 1 {
			errs = append(errs, fmt.Errorf("base_chance for %s must be in [0, 1]", r))
		}
	}
	q := c.QualityBonus
	if !(q.Perfect >= q.Great && q.Great >= q.Good && q.Good >= q.Miss) {
		errs = append(errs, errors.New("quality_bonus must not decrease with better quality"))
	}
	if c.PerfectFactor <= 0 || c.PerfectFactor > 1 || c.GoodFactor < 1 {
		errs = append(errs, errors.New("perfect_factor must be in (0, 1] and good_factor >= 1"))
	}
	if !c.EggBaseRarity.IsValid() {
		errs = append(errs, fmt.Errorf("egg_base_rarity %q is not a rarity", c.EggBaseRarity))
	}
	return errs
}

// FeatureByID returns the configured feature, if any
func (p ProgressionConfig) FeatureByID(id domain.Feature) (FeatureConfig, bool) {
	for _, f := range p.Features {
		if f.ID == id {
			return f, true
		}
	}
	return FeatureConfig{}, false
}
