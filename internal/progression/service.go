package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/concurrency"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/metrics"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// Service defines the player progression business logic
type Service interface {
	// GetProgress returns the player's record, creating it on first sight
	// and applying any pending daily rollover.
	GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error)

	// SpendWarmth pays for a feature and applies its stored effect
	SpendWarmth(ctx context.Context, playerID string, feature domain.Feature) (*domain.SpendResult, error)

	// ResetDailyCounts zeroes stale daily counters at the current boundary
	ResetDailyCounts(ctx context.Context) (int64, error)

	Ledger() *Ledger
}

// Option configures the service
type Option func(*service)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo   repository.Hunt
	ledger *Ledger
	locks  *concurrency.LockManager
	bus    event.Bus
	now    func() time.Time
}

// NewService creates a new progression service
func NewService(repo repository.Hunt, ledger *Ledger, locks *concurrency.LockManager, bus event.Bus, opts ...Option) Service {
	s := &service{
		repo:   repo,
		ledger: ledger,
		locks:  locks,
		bus:    bus,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Ledger() *Ledger {
	return s.ledger
}

// GetProgress returns the player's progress
func (s *service) GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	unlock := s.locks.Lock(concurrency.PlayerKey(playerID))
	defer unlock()

	tx, err := s.repo.BeginHuntTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	p, changed, err := LoadForUpdate(ctx, tx, s.ledger, playerID, s.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return p, nil
	}

	if err := tx.SaveProgress(ctx, p); err != nil {
		return nil, fmt.Errorf(ErrMsgSaveProgressFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return p, nil
}

// SpendWarmth spends warmth on a feature
func (s *service) SpendWarmth(ctx context.Context, playerID string, feature domain.Feature) (*domain.SpendResult, error) {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(concurrency.PlayerKey(playerID))
	defer unlock()

	tx, err := s.repo.BeginHuntTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	now := s.now()
	p, _, err := LoadForUpdate(ctx, tx, s.ledger, playerID, now)
	if err != nil {
		return nil, err
	}

	res, err := s.ledger.SpendWarmth(p, feature, now)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = now

	if err := s.ledger.CheckInvariants(p); err != nil {
		ReportInvariantViolation(ctx, "progression", err)
		return nil, err
	}
	if err := tx.SaveProgress(ctx, p); err != nil {
		return nil, fmt.Errorf(ErrMsgSaveProgressFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	log.Info(LogMsgWarmthSpent, "player_id", playerID, "feature", feature, "cost", res.Cost, "remaining", res.WarmthRemaining)
	if err := s.bus.Publish(ctx, event.NewWarmthSpentEvent(playerID, res)); err != nil {
		log.Warn(LogMsgPublishFailed, "event", event.WarmthSpent, "error", err)
	}
	return res, nil
}

// ResetDailyCounts zeroes daily counters for players last reset before today
func (s *service) ResetDailyCounts(ctx context.Context) (int64, error) {
	boundary := s.ledger.DayStart(s.now())
	n, err := s.repo.ResetDailyCounts(ctx, boundary)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgResetDailyFailed, err)
	}
	logger.FromContext(ctx).Info(LogMsgDailyReset, "boundary", boundary, "records_affected", n)
	return n, nil
}

// LoadForUpdate locks and loads a player's progress inside tx, creating the
// record on first sight and applying any pending daily rollover. changed
// reports whether the caller must persist the record even if nothing else
// happens to it.
func LoadForUpdate(ctx context.Context, tx repository.HuntTx, ledger *Ledger, playerID string, now time.Time) (p *domain.PlayerProgress, changed bool, err error) {
	p, err = tx.GetProgressForUpdate(ctx, playerID)
	if err != nil {
		return nil, false, fmt.Errorf(ErrMsgLoadProgressFailed, err)
	}

	if p == nil {
		p = ledger.NewProgress(playerID, now)
		logger.FromContext(ctx).Info(LogMsgProgressCreated, "player_id", playerID)
		return p, true, nil
	}

	ledger.Refresh(p)
	if ledger.RolloverIfNewDay(p, now) {
		p.UpdatedAt = now
		changed = true
	}
	return p, changed, nil
}

// ReportInvariantViolation logs and counts a broken game invariant
func ReportInvariantViolation(ctx context.Context, component string, err error) {
	if !errors.Is(err, domain.ErrInvariantViolation) {
		return
	}
	metrics.InvariantViolations.WithLabelValues(component).Inc()
	logger.FromContext(ctx).Error(LogMsgInvariantViolation,
		"invariant_violation", true,
		"component", component,
		"error", err)
}
