// Package rarity rolls reward tiers from weighted odds with pity guarantees.
package rarity

import (
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
)

// tierEntry is one rarity with its cumulative weight, ordered common first
type tierEntry struct {
	rarity      domain.Rarity
	cumulWeight float64
}

// Roller selects a rarity by weight and maintains pity counters.
// It holds no per-player state; counters travel with the caller.
type Roller struct {
	tiers       []tierEntry
	totalWeight float64
	pity        config.PityThresholds
	rnd         func() float64
}

// NewRoller builds a roller from validated rarity config. rnd must return
// values in [0,1); inject a seeded source for reproducible rolls.
func NewRoller(cfg config.RarityConfig, rnd func() float64) *Roller {
	r := &Roller{pity: cfg.Pity, rnd: rnd}

	var cumul float64
	for _, tier := range domain.Rarities {
		w := cfg.Weights.Get(tier)
		if w <= 0 {
			continue
		}
		cumul += w
		r.tiers = append(r.tiers, tierEntry{rarity: tier, cumulWeight: cumul})
	}
	r.totalWeight = cumul
	return r
}

// Due returns the highest tier whose guarantee threshold has been reached
func (r *Roller) Due(pity domain.PityCounters) (domain.Rarity, bool) {
	switch {
	case pity.SinceLegendary >= r.pity.Legendary:
		return domain.RarityLegendary, true
	case pity.SinceEpic >= r.pity.Epic:
		return domain.RarityEpic, true
	case pity.SinceRare >= r.pity.Rare:
		return domain.RarityRare, true
	default:
		return "", false
	}
}

// Roll picks a rarity and returns the updated pity counters.
// A due guarantee is forced before any draw; otherwise one uniform draw in
// [0, total weight) is mapped by cumulative weight.
func (r *Roller) Roll(pity domain.PityCounters) (domain.Rarity, domain.PityCounters) {
	rolled, forced := r.Due(pity)
	if !forced {
		rolled = r.draw()
	}
	return rolled, r.advance(pity, rolled)
}

func (r *Roller) draw() domain.Rarity {
	if len(r.tiers) == 0 {
		return domain.RarityCommon
	}
	roll := r.rnd() * r.totalWeight
	for _, t := range r.tiers {
		if roll < t.cumulWeight {
			return t.rarity
		}
	}
	// rnd()==1.0 from a misbehaving source lands on the last tier
	return r.tiers[len(r.tiers)-1].rarity
}

// advance resets counters for the rolled tier and every lower tier and
// increments the rest, so each counter means "attempts since this tier or
// higher". Counters never pass their threshold.
func (r *Roller) advance(pity domain.PityCounters, rolled domain.Rarity) domain.PityCounters {
	rank := rolled.Rank()
	return domain.PityCounters{
		SinceRare:      step(pity.SinceRare, rank >= domain.RarityRare.Rank(), r.pity.Rare),
		SinceEpic:      step(pity.SinceEpic, rank >= domain.RarityEpic.Rank(), r.pity.Epic),
		SinceLegendary: step(pity.SinceLegendary, rank >= domain.RarityLegendary.Rank(), r.pity.Legendary),
	}
}

func step(count int, reset bool, threshold int) int {
	if reset {
		return 0
	}
	return min(count+1, threshold)
}
