package progression

import (
	"fmt"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
)

// Reward is what a resolved catch grants
type Reward struct {
	XP      int64
	Points  int64
	Rarity  domain.Rarity
	Quality domain.CatchQuality
}

// RewardOutcome reports what changed when a reward was applied
type RewardOutcome struct {
	OldLevel     int
	NewLevel     int
	LeveledUp    bool
	WarmthGained int
}

// Ledger holds the pure progression rules. It is the only code that mutates
// a PlayerProgress; callers are responsible for locking and persistence.
type Ledger struct {
	cfg config.ProgressionConfig
	loc *time.Location
}

// NewLedger creates a ledger. Days roll over at midnight in loc.
func NewLedger(cfg config.ProgressionConfig, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{cfg: cfg, loc: loc}
}

// Location returns the time zone that defines the daily boundary
func (l *Ledger) Location() *time.Location {
	return l.loc
}

// NewProgress creates the starting record for a player first seen at now
func (l *Ledger) NewProgress(playerID string, now time.Time) *domain.PlayerProgress {
	today := l.DayStart(now)
	p := &domain.PlayerProgress{
		PlayerID:       playerID,
		Level:          domain.MinLevel,
		CapResetAt:     today,
		StreakDays:     1,
		LastActiveDate: today,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	l.Refresh(p)
	return p
}

// DayStart returns midnight of t's day in the ledger's location
func (l *Ledger) DayStart(t time.Time) time.Time {
	local := t.In(l.loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, l.loc)
}

// LevelForXP maps cumulative XP to a level using the threshold table.
// Monotonic in xp and capped at MaxLevel.
func (l *Ledger) LevelForXP(totalXP int64) int {
	level := domain.MinLevel
	for i, threshold := range l.cfg.LevelThresholds {
		if totalXP >= threshold {
			level = i + 1
		}
	}
	if level > domain.MaxLevel {
		level = domain.MaxLevel
	}
	return level
}

// Refresh recomputes every derived field of p from its stored state
func (l *Ledger) Refresh(p *domain.PlayerProgress) {
	p.Level = l.LevelForXP(p.TotalXP)
	p.XPIntoLevel, p.XPToNextLevel = l.levelProgress(p.TotalXP, p.Level)
	p.DailyCatchCap = l.DailyCap(p.Level, p.StreakDays)
	p.WarmthCap = stepValue(l.cfg.WarmthCapSteps, p.Level)
	if p.Warmth > p.WarmthCap {
		p.Warmth = p.WarmthCap
	}
	p.UnlockedFeatures = l.Features(p.Level)
}

func (l *Ledger) levelProgress(totalXP int64, level int) (into, toNext int64) {
	if len(l.cfg.LevelThresholds) < level {
		return 0, 0
	}
	into = totalXP - l.cfg.LevelThresholds[level-1]
	if level >= len(l.cfg.LevelThresholds) {
		return into, 0
	}
	return into, l.cfg.LevelThresholds[level] - totalXP
}

// DailyCap returns the attempt cap for a level plus the streak bonus
func (l *Ledger) DailyCap(level, streakDays int) int {
	return stepValue(l.cfg.DailyCapSteps, level) + l.StreakBonus(streakDays)
}

// StreakBonus returns +1 per full StreakBonusEvery days, capped
func (l *Ledger) StreakBonus(streakDays int) int {
	if l.cfg.StreakBonusEvery <= 0 || streakDays <= 0 {
		return 0
	}
	return min(streakDays/l.cfg.StreakBonusEvery, l.cfg.StreakBonusMax)
}

// Features returns the unlock status of every configured feature at level
func (l *Ledger) Features(level int) []domain.FeatureUnlock {
	out := make([]domain.FeatureUnlock, 0, len(l.cfg.Features))
	for _, f := range l.cfg.Features {
		out = append(out, domain.FeatureUnlock{
			Feature:  f.ID,
			Level:    f.UnlockLevel,
			Cost:     f.Cost,
			Unlocked: level >= f.UnlockLevel,
		})
	}
	return out
}

// stepValue returns the value of the highest step whose level is <= level
func stepValue(steps []config.LevelStep, level int) int {
	v := 0
	for _, s := range steps {
		if level < s.Level {
			break
		}
		v = s.Value
	}
	return v
}

// RolloverIfNewDay resets the daily count and advances the streak when now
// falls on a later day than the last reset. Reports whether a rollover ran.
func (l *Ledger) RolloverIfNewDay(p *domain.PlayerProgress, now time.Time) bool {
	today := l.DayStart(now)
	if !today.After(l.DayStart(p.CapResetAt)) {
		return false
	}

	p.DailyCatchCount = 0
	p.CapResetAt = today

	yesterday := today.AddDate(0, 0, -1)
	lastActive := l.DayStart(p.LastActiveDate)
	switch {
	case lastActive.Equal(yesterday):
		p.StreakDays++
	case lastActive.Before(yesterday):
		p.StreakDays = 1
	}
	if p.StreakDays < 1 {
		p.StreakDays = 1
	}
	p.LastActiveDate = today

	l.Refresh(p)
	return true
}

// RegisterDailyAttempt counts one catch attempt against today's cap
func (l *Ledger) RegisterDailyAttempt(p *domain.PlayerProgress) error {
	if p.DailyCatchCount >= p.DailyCatchCap {
		return fmt.Errorf("%w: %d of %d used", domain.ErrDailyCapExceeded, p.DailyCatchCount, p.DailyCatchCap)
	}
	p.DailyCatchCount++
	return nil
}

// ApplyReward adds XP, points and warmth for a resolved catch and
// recomputes level-derived caps and unlocks.
func (l *Ledger) ApplyReward(p *domain.PlayerProgress, r Reward) RewardOutcome {
	out := RewardOutcome{OldLevel: p.Level}

	if r.XP > 0 {
		p.TotalXP += r.XP
	}
	if r.Points > 0 {
		p.Points += r.Points
	}
	l.Refresh(p)

	out.NewLevel = p.Level
	out.LeveledUp = out.NewLevel > out.OldLevel
	out.WarmthGained = l.GainWarmth(p, r.Quality)
	return out
}

// GainWarmth adds the warmth earned for quality, clamped to the cap.
// Returns the amount actually added.
func (l *Ledger) GainWarmth(p *domain.PlayerProgress, q domain.CatchQuality) int {
	gain := l.cfg.WarmthByQuality.Get(q)
	if gain <= 0 {
		return 0
	}
	before := p.Warmth
	p.Warmth = min(p.Warmth+gain, p.WarmthCap)
	return p.Warmth - before
}

// SpendWarmth pays for feature and applies its effect.
// Tracker pings carry no stored effect; the caller produces the ping.
func (l *Ledger) SpendWarmth(p *domain.PlayerProgress, feature domain.Feature, now time.Time) (*domain.SpendResult, error) {
	fc, ok := l.cfg.FeatureByID(feature)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFeature, feature)
	}
	if p.Level < fc.UnlockLevel {
		return nil, fmt.Errorf("%w: %s unlocks at level %d", domain.ErrFeatureLocked, feature, fc.UnlockLevel)
	}
	if p.Warmth < fc.Cost {
		return nil, fmt.Errorf("%w: %s costs %d, have %d", domain.ErrInsufficientWarmth, feature, fc.Cost, p.Warmth)
	}
	if feature == domain.FeatureSecondAttempt && p.SecondAttemptCharges >= l.cfg.MaxSecondCharges {
		return nil, fmt.Errorf("%w: second attempt already charged", domain.ErrInvalidInput)
	}

	p.Warmth -= fc.Cost

	switch feature {
	case domain.FeatureHeatMode:
		start := now
		if p.HeatModeActive(now) {
			start = *p.HeatModeUntil
		}
		until := start.Add(l.cfg.HeatModeDuration)
		p.HeatModeUntil = &until
	case domain.FeatureSecondAttempt:
		p.SecondAttemptCharges++
	}

	res := &domain.SpendResult{
		Feature:         feature,
		Cost:            fc.Cost,
		WarmthRemaining: p.Warmth,
		SecondAttempts:  p.SecondAttemptCharges,
	}
	if p.HeatModeActive(now) {
		until := *p.HeatModeUntil
		res.HeatModeUntil = &until
	}
	return res, nil
}

// ConsumeSecondAttempt uses one second-attempt charge if the player has one
func (l *Ledger) ConsumeSecondAttempt(p *domain.PlayerProgress) bool {
	if p.SecondAttemptCharges <= 0 {
		return false
	}
	p.SecondAttemptCharges--
	return true
}

// HeatBonus returns the success-probability bonus active at now
func (l *Ledger) HeatBonus(p *domain.PlayerProgress, now time.Time) float64 {
	if p.HeatModeActive(now) {
		return l.cfg.HeatModeBonus
	}
	return 0
}

// TrackerRadius is the search radius of a tracker ping
func (l *Ledger) TrackerRadius() float64 {
	return l.cfg.TrackerRadius
}

// CheckInvariants returns domain.ErrInvariantViolation when p is inconsistent
func (l *Ledger) CheckInvariants(p *domain.PlayerProgress) error {
	switch {
	case p.DailyCatchCount > p.DailyCatchCap:
		return fmt.Errorf("%w: daily count %d exceeds cap %d", domain.ErrInvariantViolation, p.DailyCatchCount, p.DailyCatchCap)
	case p.Warmth < 0 || p.Warmth > p.WarmthCap:
		return fmt.Errorf("%w: warmth %d outside [0, %d]", domain.ErrInvariantViolation, p.Warmth, p.WarmthCap)
	case p.Level < domain.MinLevel || p.Level > domain.MaxLevel:
		return fmt.Errorf("%w: level %d out of range", domain.ErrInvariantViolation, p.Level)
	}
	return nil
}
