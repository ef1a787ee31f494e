package hunt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/catch"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/concurrency"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/metrics"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/progression"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/spawn"
)

// AttemptCatch resolves one catch attempt on a spawn the player holds.
//
// The spawn transition, the progress update and the catch record commit
// together or not at all. Attempts are serialized per player, so the daily
// cap holds under concurrent calls.
func (s *service) AttemptCatch(ctx context.Context, playerID string, spawnID uuid.UUID, timingInput float64) (*domain.CatchResult, error) {
	log := logger.FromContext(ctx)

	if err := validatePlayer(playerID); err != nil {
		return nil, err
	}
	if !catch.ValidTimingInput(timingInput) {
		return nil, fmt.Errorf("%w: timing input %v outside [0, 1]", domain.ErrInvalidInput, timingInput)
	}

	unlock := s.locks.Lock(concurrency.PlayerKey(playerID))
	defer unlock()

	tx, err := s.repo.BeginHuntTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	now := s.now()
	p, _, err := progression.LoadForUpdate(ctx, tx, s.ledger, playerID, now)
	if err != nil {
		return nil, err
	}

	sp, err := tx.GetSpawn(ctx, spawnID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSpawnFailed, err)
	}
	if err := spawn.CheckHolder(sp, playerID, now); err != nil {
		return nil, err
	}
	if sp.State != domain.SpawnStateArrived {
		return nil, fmt.Errorf("%w: spawn %s is %s", domain.ErrNotArrived, spawnID, sp.State)
	}

	if err := s.ledger.RegisterDailyAttempt(p); err != nil {
		if errors.Is(err, domain.ErrDailyCapExceeded) {
			metrics.DailyCapRejections.Inc()
			log.Info(LogMsgDailyCapReached, "player_id", playerID, "cap", p.DailyCatchCap)
		}
		return nil, err
	}

	res, err := s.resolver.Attempt(sp, p.Pity, timingInput, s.ledger.HeatBonus(p, now))
	if err != nil {
		return nil, err
	}

	catchID := uuid.New()
	result := &domain.CatchResult{
		CatchID:            catchID,
		SpawnID:            spawnID,
		PlayerID:           playerID,
		Quality:            res.Quality,
		SuccessProbability: res.Probability,
		Outcome:            res.Outcome,
		Rarity:             res.Rarity,
	}

	finalize := spawn.FinalizeRequest{
		Spawn:    sp,
		PlayerID: playerID,
		Outcome:  res.Outcome,
		Now:      now,
	}
	var outcome progression.RewardOutcome
	if res.Outcome == domain.OutcomeSuccess {
		finalize.RewardRef = &catchID
		outcome = s.ledger.ApplyReward(p, progression.Reward{
			XP:      res.XP,
			Points:  res.Points,
			Rarity:  res.Rarity,
			Quality: res.Quality,
		})
		result.XPAwarded = res.XP
		result.PointsAwarded = res.Points
		result.WarmthGained = outcome.WarmthGained
		result.LeveledUp = outcome.LeveledUp
	} else if survivesFailure(sp) && s.ledger.ConsumeSecondAttempt(p) {
		finalize.KeepHold = true
		result.SecondAttemptUsed = true
		log.Info(LogMsgSecondAttemptUsed, "player_id", playerID, "spawn_id", spawnID)
	}
	if res.PityChanged {
		p.Pity = res.Pity
	}
	p.UpdatedAt = now

	if err := s.ledger.CheckInvariants(p); err != nil {
		progression.ReportInvariantViolation(ctx, "hunt", err)
		return nil, err
	}

	finalized, err := s.registry.Finalize(ctx, tx, finalize)
	if err != nil {
		return nil, err
	}
	if err := tx.SaveProgress(ctx, p); err != nil {
		return nil, fmt.Errorf(ErrMsgSaveProgressFailed, err)
	}
	if err := tx.InsertCatchRecord(ctx, &domain.CatchRecord{
		ID:                 catchID,
		SpawnID:            spawnID,
		PlayerID:           playerID,
		SpawnKind:          sp.Kind,
		Rarity:             res.Rarity,
		TimingInput:        timingInput,
		Quality:            res.Quality,
		SuccessProbability: res.Probability,
		Outcome:            res.Outcome,
		XPAwarded:          result.XPAwarded,
		PointsAwarded:      result.PointsAwarded,
		CreatedAt:          now,
	}); err != nil {
		return nil, fmt.Errorf(ErrMsgInsertCatchFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	s.registry.InvalidateNearby()

	result.NewLevel = p.Level
	result.SpawnState = finalized.State
	result.Progress = p

	log.Info(LogMsgCatchResolved,
		"player_id", playerID,
		"spawn_id", spawnID,
		"quality", res.Quality,
		"probability", res.Probability,
		"outcome", res.Outcome,
		"spawn_state", finalized.State)

	s.publish(ctx, event.NewCatchResolvedEvent(sp.Kind, result))
	if outcome.LeveledUp {
		s.publish(ctx, event.NewLevelUpEvent(playerID, outcome.OldLevel, outcome.NewLevel))
	}
	return result, nil
}

// survivesFailure reports whether one more failed attempt leaves sp catchable
func survivesFailure(sp *domain.Spawn) bool {
	return sp.MaxAttempts <= 0 || sp.Attempts+1 < sp.MaxAttempts
}
