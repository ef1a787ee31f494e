// Package catch resolves the timing minigame into a quality, a success
// probability and a single weighted success draw.
package catch

import (
	"fmt"
	"math"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/rarity"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/utils"
)

// Resolution is the outcome of one catch attempt before persistence
type Resolution struct {
	Quality     domain.CatchQuality
	Probability float64
	Outcome     domain.CatchOutcome
	// Rarity is the creature's rarity, or the rolled content of an egg.
	// Empty for a failed egg attempt.
	Rarity domain.Rarity
	XP     int64
	Points int64
	// Pity is the player's updated counter set; PityChanged is false unless
	// an egg content roll ran.
	Pity        domain.PityCounters
	PityChanged bool
}

// Resolver turns timing input into a catch outcome
type Resolver struct {
	cfg    config.CatchConfig
	roller *rarity.Roller
	rnd    func() float64
}

// NewResolver creates a resolver. rnd must return values in [0, 1).
func NewResolver(cfg config.CatchConfig, roller *rarity.Roller, rnd func() float64) *Resolver {
	if rnd == nil {
		rnd = utils.RandomFloat
	}
	return &Resolver{cfg: cfg, roller: roller, rnd: rnd}
}

// ResolveTiming grades the distance between input and the target center
func (r *Resolver) ResolveTiming(input, center, halfWidth float64) domain.CatchQuality {
	d := math.Abs(input - center)
	switch {
	case d <= r.cfg.PerfectFactor*halfWidth:
		return domain.QualityPerfect
	case d <= halfWidth:
		return domain.QualityGreat
	case d <= r.cfg.GoodFactor*halfWidth:
		return domain.QualityGood
	default:
		return domain.QualityMiss
	}
}

// SuccessProbability is the base chance for the rarity plus the quality and
// extra bonuses, clamped to the ceiling
func (r *Resolver) SuccessProbability(rar domain.Rarity, q domain.CatchQuality, extraBonus float64) float64 {
	p := r.cfg.BaseChance.Get(rar) + r.cfg.QualityBonus.Get(q) + extraBonus
	return utils.Clamp(p, 0, r.cfg.Ceiling)
}

// ValidTimingInput reports whether input is a finite position in [0, 1]
func ValidTimingInput(input float64) bool {
	return !math.IsNaN(input) && input >= 0 && input <= 1
}

// Attempt resolves one attempt against an ARRIVED spawn. heatBonus is added
// to the success probability. The player's pity is read but not modified.
func (r *Resolver) Attempt(spawn *domain.Spawn, pity domain.PityCounters, input, heatBonus float64) (*Resolution, error) {
	if !ValidTimingInput(input) {
		return nil, fmt.Errorf("%w: timing input %v outside [0, 1]", domain.ErrInvalidInput, input)
	}
	if spawn.Reservation == nil || spawn.State != domain.SpawnStateArrived {
		return nil, fmt.Errorf("%w: spawn %s", domain.ErrNotArrived, spawn.ID)
	}

	baseRarity := spawn.Rarity
	if spawn.Kind == domain.SpawnKindEgg {
		baseRarity = r.cfg.EggBaseRarity
	}

	res := &Resolution{Pity: pity}
	res.Quality = r.ResolveTiming(input, spawn.Reservation.TargetCenter, spawn.Reservation.TargetHalfWidth)
	res.Probability = r.SuccessProbability(baseRarity, res.Quality, heatBonus)

	if r.rnd() >= res.Probability {
		res.Outcome = domain.OutcomeFail
		if spawn.Kind == domain.SpawnKindCreature {
			res.Rarity = spawn.Rarity
		}
		return res, nil
	}

	res.Outcome = domain.OutcomeSuccess
	res.Rarity = spawn.Rarity
	if spawn.Kind == domain.SpawnKindEgg {
		res.Rarity, res.Pity = r.roller.Roll(pity)
		res.PityChanged = true
	}
	res.XP = r.cfg.XPByQuality.Get(res.Quality)
	res.Points = r.cfg.PointsByRarity.Get(res.Rarity)
	return res, nil
}
