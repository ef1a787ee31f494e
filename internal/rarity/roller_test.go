package rarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/utils"
)

func defaultRarity() config.RarityConfig {
	return config.DefaultEconomy().Rarity
}

func TestRoll_WeightBoundaries(t *testing.T) {
	tests := []struct {
		draw     float64
		expected domain.Rarity
	}{
		{0.0, domain.RarityCommon},
		{0.6999, domain.RarityCommon},
		{0.70, domain.RarityRare},
		{0.9199, domain.RarityRare},
		{0.92, domain.RarityEpic},
		{0.9799, domain.RarityEpic},
		{0.98, domain.RarityLegendary},
		{0.99999, domain.RarityLegendary},
	}

	for _, tt := range tests {
		r := NewRoller(defaultRarity(), utils.FixedRandom(tt.draw))
		got, _ := r.Roll(domain.PityCounters{})
		assert.Equal(t, tt.expected, got, "draw %v", tt.draw)
	}
}

func TestRoll_LegendaryPityFiresAfterThreshold(t *testing.T) {
	cfg := defaultRarity()
	// Keep lower guarantees out of the way so every roll below is natural
	cfg.Pity.Rare = 10_000
	cfg.Pity.Epic = 10_000
	r := NewRoller(cfg, utils.FixedRandom(0)) // always common

	var pity domain.PityCounters
	for i := 0; i < cfg.Pity.Legendary; i++ {
		var got domain.Rarity
		got, pity = r.Roll(pity)
		require.Equal(t, domain.RarityCommon, got, "roll %d", i)
	}
	require.Equal(t, cfg.Pity.Legendary, pity.SinceLegendary)

	got, pity := r.Roll(pity)

	assert.Equal(t, domain.RarityLegendary, got)
	assert.Equal(t, 0, pity.SinceLegendary)
	assert.Equal(t, 0, pity.SinceEpic, "legendary subsumes epic")
	assert.Equal(t, 0, pity.SinceRare, "legendary subsumes rare")
}

func TestRoll_HighestDueTierWins(t *testing.T) {
	r := NewRoller(defaultRarity(), utils.FixedRandom(0))

	got, pity := r.Roll(domain.PityCounters{SinceRare: 10, SinceEpic: 40, SinceLegendary: 12})

	assert.Equal(t, domain.RarityEpic, got)
	assert.Equal(t, domain.PityCounters{SinceRare: 0, SinceEpic: 0, SinceLegendary: 13}, pity)
}

func TestRoll_RareGuaranteeWithDefaults(t *testing.T) {
	r := NewRoller(defaultRarity(), utils.FixedRandom(0))

	var pity domain.PityCounters
	var got domain.Rarity
	for i := 0; i < 10; i++ {
		got, pity = r.Roll(pity)
		require.Equal(t, domain.RarityCommon, got)
	}

	got, pity = r.Roll(pity)
	assert.Equal(t, domain.RarityRare, got)
	assert.Equal(t, 0, pity.SinceRare)
	assert.Equal(t, 11, pity.SinceEpic)
	assert.Equal(t, 11, pity.SinceLegendary)
}

func TestRoll_NaturalDropResetsOwnAndLowerCounters(t *testing.T) {
	tests := []struct {
		name     string
		draw     float64
		expected domain.PityCounters
	}{
		{"common increments all", 0.1, domain.PityCounters{SinceRare: 4, SinceEpic: 6, SinceLegendary: 8}},
		{"rare resets rare", 0.75, domain.PityCounters{SinceRare: 0, SinceEpic: 6, SinceLegendary: 8}},
		{"epic resets rare and epic", 0.95, domain.PityCounters{SinceRare: 0, SinceEpic: 0, SinceLegendary: 8}},
		{"legendary resets all", 0.99, domain.PityCounters{}},
	}

	start := domain.PityCounters{SinceRare: 3, SinceEpic: 5, SinceLegendary: 7}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoller(defaultRarity(), utils.FixedRandom(tt.draw))
			_, pity := r.Roll(start)
			assert.Equal(t, tt.expected, pity)
		})
	}
}

func TestRoll_CountersNeverExceedThresholds(t *testing.T) {
	cfg := defaultRarity()
	r := NewRoller(cfg, utils.NewSeededRandom(7))

	var pity domain.PityCounters
	for i := 0; i < 20_000; i++ {
		_, pity = r.Roll(pity)
		require.LessOrEqual(t, pity.SinceRare, cfg.Pity.Rare)
		require.LessOrEqual(t, pity.SinceEpic, cfg.Pity.Epic)
		require.LessOrEqual(t, pity.SinceLegendary, cfg.Pity.Legendary)
	}
}

func TestRoll_ReproducibleForSeed(t *testing.T) {
	a := NewRoller(defaultRarity(), utils.NewSeededRandom(99))
	b := NewRoller(defaultRarity(), utils.NewSeededRandom(99))

	var pa, pb domain.PityCounters
	for i := 0; i < 500; i++ {
		var ra, rb domain.Rarity
		ra, pa = a.Roll(pa)
		rb, pb = b.Roll(pb)
		require.Equal(t, ra, rb, "roll %d", i)
	}
	assert.Equal(t, pa, pb)
}

func TestRoll_DistributionTracksWeightsWithoutPity(t *testing.T) {
	cfg := defaultRarity()
	cfg.Pity = config.PityThresholds{Rare: 1 << 30, Epic: 1 << 30, Legendary: 1 << 30}
	r := NewRoller(cfg, utils.NewSeededRandom(2024))

	const n = 100_000
	counts := make(map[domain.Rarity]int)
	var pity domain.PityCounters
	for i := 0; i < n; i++ {
		var got domain.Rarity
		got, pity = r.Roll(pity)
		counts[got]++
	}

	assert.InDelta(t, 0.70, float64(counts[domain.RarityCommon])/n, 0.01)
	assert.InDelta(t, 0.22, float64(counts[domain.RarityRare])/n, 0.01)
	assert.InDelta(t, 0.06, float64(counts[domain.RarityEpic])/n, 0.005)
	assert.InDelta(t, 0.02, float64(counts[domain.RarityLegendary])/n, 0.003)
}

func TestDue(t *testing.T) {
	r := NewRoller(defaultRarity(), utils.FixedRandom(0))

	_, due := r.Due(domain.PityCounters{SinceRare: 9, SinceEpic: 39, SinceLegendary: 149})
	assert.False(t, due)

	tier, due := r.Due(domain.PityCounters{SinceLegendary: 150})
	assert.True(t, due)
	assert.Equal(t, domain.RarityLegendary, tier)
}

func BenchmarkRoll(b *testing.B) {
	r := NewRoller(defaultRarity(), utils.NewSeededRandom(1))
	var pity domain.PityCounters
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, pity = r.Roll(pity)
	}
}
