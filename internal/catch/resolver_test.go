package catch

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/rarity"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/utils"
)

func newTestResolver(successDraw float64, rollerDraw float64) *Resolver {
	eco := config.DefaultEconomy()
	roller := rarity.NewRoller(eco.Rarity, utils.FixedRandom(rollerDraw))
	return NewResolver(eco.Catch, roller, utils.FixedRandom(successDraw))
}

func arrivedSpawn(kind domain.SpawnKind, r domain.Rarity) *domain.Spawn {
	return &domain.Spawn{
		ID:     uuid.New(),
		Kind:   kind,
		Rarity: r,
		State:  domain.SpawnStateArrived,
		Reservation: &domain.Reservation{
			HolderID:        "p1",
			TargetCenter:    0.5,
			TargetHalfWidth: 0.1,
		},
	}
}

func TestResolveTiming(t *testing.T) {
	r := newTestResolver(0, 0)

	tests := []struct {
		name  string
		input float64
		want  domain.CatchQuality
	}{
		{"dead center", 0.5, domain.QualityPerfect},
		{"perfect edge", 0.535, domain.QualityPerfect},
		{"great", 0.58, domain.QualityGreat},
		{"great edge below", 0.4, domain.QualityGreat},
		{"good", 0.7, domain.QualityGood},
		{"good edge", 0.74, domain.QualityGood},
		{"miss", 0.76, domain.QualityMiss},
		{"far miss", 0.0, domain.QualityMiss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ResolveTiming(tt.input, 0.5, 0.1))
		})
	}
}

func TestSuccessProbability_Values(t *testing.T) {
	r := newTestResolver(0, 0)

	assert.InDelta(t, 0.95, r.SuccessProbability(domain.RarityCommon, domain.QualityPerfect, 0), 1e-9, "clamped to ceiling")
	assert.InDelta(t, 0.90, r.SuccessProbability(domain.RarityCommon, domain.QualityMiss, 0), 1e-9)
	assert.InDelta(t, 0.85, r.SuccessProbability(domain.RarityRare, domain.QualityGreat, 0), 1e-9)
	assert.InDelta(t, 0.55, r.SuccessProbability(domain.RarityEpic, domain.QualityGood, 0), 1e-9)
	assert.InDelta(t, 0.60, r.SuccessProbability(domain.RarityLegendary, domain.QualityPerfect, 0), 1e-9)
	assert.InDelta(t, 0.70, r.SuccessProbability(domain.RarityLegendary, domain.QualityPerfect, 0.10), 1e-9, "heat mode bonus")
	assert.InDelta(t, 0.95, r.SuccessProbability(domain.RarityRare, domain.QualityPerfect, 0.10), 1e-9, "bonus still clamped")
}

func TestSuccessProbability_MonotonicInQuality(t *testing.T) {
	r := newTestResolver(0, 0)

	for _, rar := range domain.Rarities {
		for _, bonus := range []float64{0, 0.1} {
			prev := -1.0
			for _, q := range domain.Qualities {
				p := r.SuccessProbability(rar, q, bonus)
				assert.GreaterOrEqual(t, p, prev, "rarity %s quality %s", rar, q)
				assert.LessOrEqual(t, p, 0.95)
				prev = p
			}
		}
	}
}

func TestAttempt_CreatureSuccess(t *testing.T) {
	r := newTestResolver(0.5, 0)

	res, err := r.Attempt(arrivedSpawn(domain.SpawnKindCreature, domain.RarityRare), domain.PityCounters{}, 0.5, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.QualityPerfect, res.Quality)
	assert.Equal(t, domain.OutcomeSuccess, res.Outcome)
	assert.Equal(t, domain.RarityRare, res.Rarity)
	assert.Equal(t, int64(150), res.XP)
	assert.Equal(t, int64(25), res.Points)
	assert.False(t, res.PityChanged)
}

func TestAttempt_DrawAtProbabilityFails(t *testing.T) {
	// draw == p fails: success needs draw < p
	r := newTestResolver(0.70, 0)

	res, err := r.Attempt(arrivedSpawn(domain.SpawnKindCreature, domain.RarityRare), domain.PityCounters{}, 0.0, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.QualityMiss, res.Quality)
	assert.Equal(t, domain.OutcomeFail, res.Outcome)
	assert.Zero(t, res.XP)
	assert.Zero(t, res.Points)
}

func TestAttempt_MissCanStillSucceed(t *testing.T) {
	r := newTestResolver(0.1, 0)

	res, err := r.Attempt(arrivedSpawn(domain.SpawnKindCreature, domain.RarityCommon), domain.PityCounters{}, 0.0, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSuccess, res.Outcome)
	assert.Zero(t, res.XP, "MISS earns no XP")
	assert.Equal(t, int64(10), res.Points)
}

func TestAttempt_EggRollsContentOnSuccess(t *testing.T) {
	// roller draw 0.99 lands in the legendary band
	r := newTestResolver(0.1, 0.99)
	pity := domain.PityCounters{SinceRare: 3, SinceEpic: 3, SinceLegendary: 3}

	res, err := r.Attempt(arrivedSpawn(domain.SpawnKindEgg, ""), pity, 0.5, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSuccess, res.Outcome)
	assert.Equal(t, domain.RarityLegendary, res.Rarity)
	assert.Equal(t, int64(150), res.Points)
	assert.True(t, res.PityChanged)
	assert.Equal(t, domain.PityCounters{}, res.Pity)
}

func TestAttempt_EggFailLeavesPity(t *testing.T) {
	r := newTestResolver(0.99, 0.99)
	pity := domain.PityCounters{SinceRare: 3}

	res, err := r.Attempt(arrivedSpawn(domain.SpawnKindEgg, ""), pity, 0.5, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeFail, res.Outcome)
	assert.Empty(t, res.Rarity, "egg content stays hidden on failure")
	assert.False(t, res.PityChanged)
	assert.Equal(t, pity, res.Pity)
}

func TestAttempt_EggUsesCommonBaseChance(t *testing.T) {
	r := newTestResolver(0, 0)

	res, err := r.Attempt(arrivedSpawn(domain.SpawnKindEgg, ""), domain.PityCounters{}, 0.0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.90, res.Probability, 1e-9)
}

func TestAttempt_Errors(t *testing.T) {
	r := newTestResolver(0, 0)

	_, err := r.Attempt(arrivedSpawn(domain.SpawnKindCreature, domain.RarityCommon), domain.PityCounters{}, 1.5, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = r.Attempt(arrivedSpawn(domain.SpawnKindCreature, domain.RarityCommon), domain.PityCounters{}, math.NaN(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	reserved := arrivedSpawn(domain.SpawnKindCreature, domain.RarityCommon)
	reserved.State = domain.SpawnStateReserved
	_, err = r.Attempt(reserved, domain.PityCounters{}, 0.5, 0)
	assert.ErrorIs(t, err, domain.ErrNotArrived)
}
