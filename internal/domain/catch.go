package domain

import (
	"time"

	"github.com/google/uuid"
)

// CatchQuality is the discrete result of the timing minigame
type CatchQuality string

const (
	QualityMiss    CatchQuality = "MISS"
	QualityGood    CatchQuality = "GOOD"
	QualityGreat   CatchQuality = "GREAT"
	QualityPerfect CatchQuality = "PERFECT"
)

// Qualities lists every quality from worst to best
var Qualities = []CatchQuality{QualityMiss, QualityGood, QualityGreat, QualityPerfect}

// CatchOutcome is the result of the single success draw
type CatchOutcome string

const (
	OutcomeSuccess CatchOutcome = "SUCCESS"
	OutcomeFail    CatchOutcome = "FAIL"
)

// CatchResult is the structured result of a catch attempt
type CatchResult struct {
	CatchID            uuid.UUID       `json:"catch_id"`
	SpawnID            uuid.UUID       `json:"spawn_id"`
	PlayerID           string          `json:"player_id"`
	Quality            CatchQuality    `json:"quality"`
	SuccessProbability float64         `json:"success_probability"`
	Outcome            CatchOutcome    `json:"outcome"`
	Rarity             Rarity          `json:"rarity,omitempty"`
	XPAwarded          int64           `json:"xp_awarded"`
	PointsAwarded      int64           `json:"points_awarded"`
	WarmthGained       int             `json:"warmth_gained"`
	LeveledUp          bool            `json:"leveled_up"`
	NewLevel           int             `json:"new_level"`
	SpawnState         SpawnState      `json:"spawn_state"`
	SecondAttemptUsed  bool            `json:"second_attempt_used,omitempty"`
	Progress           *PlayerProgress `json:"progress,omitempty"`
}

// CatchRecord is the audit row of a resolved attempt.
// It is written in the same transaction as the spawn and progress mutations.
type CatchRecord struct {
	ID                 uuid.UUID
	SpawnID            uuid.UUID
	PlayerID           string
	SpawnKind          SpawnKind
	Rarity             Rarity
	TimingInput        float64
	Quality            CatchQuality
	SuccessProbability float64
	Outcome            CatchOutcome
	XPAwarded          int64
	PointsAwarded      int64
	CreatedAt          time.Time
}
