package domain

import (
	"fmt"
	"time"
)

// Level bounds for player progression
const (
	MinLevel = 1
	MaxLevel = 10
)

// Feature identifies a warmth-shop action unlocked by level
type Feature string

const (
	FeatureTrackerPing   Feature = "tracker_ping"
	FeatureSecondAttempt Feature = "second_attempt"
	FeatureHeatMode      Feature = "heat_mode"
)

// Features lists every warmth-shop feature in unlock order
var Features = []Feature{FeatureTrackerPing, FeatureSecondAttempt, FeatureHeatMode}

// ParseFeature converts a feature id into a Feature
func ParseFeature(s string) (Feature, error) {
	for _, f := range Features {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
}

// PityCounters count attempts since the last drop of a tier or higher
type PityCounters struct {
	SinceRare      int `json:"attempts_since_rare"`
	SinceEpic      int `json:"attempts_since_epic"`
	SinceLegendary int `json:"attempts_since_legendary"`
}

// FeatureUnlock describes a feature's unlock level, cost, and current status
type FeatureUnlock struct {
	Feature  Feature `json:"feature"`
	Level    int     `json:"unlock_level"`
	Cost     int     `json:"warmth_cost"`
	Unlocked bool    `json:"unlocked"`
}

// PlayerProgress is the long-term progression record of a player
type PlayerProgress struct {
	PlayerID      string `json:"player_id"`
	Level         int    `json:"level"`
	TotalXP       int64  `json:"total_xp"`
	XPIntoLevel   int64  `json:"xp_into_level"`
	XPToNextLevel int64  `json:"xp_to_next_level"`
	Points        int64  `json:"points"`

	DailyCatchCount int       `json:"daily_catch_count"`
	DailyCatchCap   int       `json:"daily_catch_cap"`
	CapResetAt      time.Time `json:"cap_reset_at"`

	StreakDays     int       `json:"streak_days"`
	LastActiveDate time.Time `json:"last_active_date"`

	Warmth    int `json:"warmth"`
	WarmthCap int `json:"warmth_cap"`

	Pity PityCounters `json:"pity"`

	UnlockedFeatures []FeatureUnlock `json:"unlocked_features"`

	SecondAttemptCharges int        `json:"second_attempt_charges"`
	HeatModeUntil        *time.Time `json:"heat_mode_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasFeature reports whether f is unlocked for this player
func (p *PlayerProgress) HasFeature(f Feature) bool {
	for _, u := range p.UnlockedFeatures {
		if u.Feature == f {
			return u.Unlocked
		}
	}
	return false
}

// HeatModeActive reports whether heat mode is running at now
func (p *PlayerProgress) HeatModeActive(now time.Time) bool {
	return p.HeatModeUntil != nil && now.Before(*p.HeatModeUntil)
}

// Clone returns a deep copy
func (p *PlayerProgress) Clone() *PlayerProgress {
	if p == nil {
		return nil
	}
	c := *p
	if p.UnlockedFeatures != nil {
		c.UnlockedFeatures = make([]FeatureUnlock, len(p.UnlockedFeatures))
		copy(c.UnlockedFeatures, p.UnlockedFeatures)
	}
	if p.HeatModeUntil != nil {
		t := *p.HeatModeUntil
		c.HeatModeUntil = &t
	}
	return &c
}

// SpendResult is returned after warmth is spent on a feature
type SpendResult struct {
	Feature         Feature      `json:"feature"`
	Cost            int          `json:"cost"`
	WarmthRemaining int          `json:"warmth_remaining"`
	HeatModeUntil   *time.Time   `json:"heat_mode_until,omitempty"`
	SecondAttempts  int          `json:"second_attempt_charges,omitempty"`
	Ping            *TrackerPing `json:"ping,omitempty"`
}

// TrackerPing points the player at the nearest available spawn
type TrackerPing struct {
	SpawnID        string  `json:"spawn_id"`
	DistanceMeters float64 `json:"distance_meters"`
	BearingDegrees float64 `json:"bearing_degrees"`
}
