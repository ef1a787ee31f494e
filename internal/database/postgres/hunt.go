package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// querier is satisfied by both the pool and an open transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HuntRepository is the Postgres implementation of repository.Hunt
type HuntRepository struct {
	db    *pgxpool.Pool
	retry RetryConfig
}

var _ repository.Hunt = (*HuntRepository)(nil)

// Option configures the repository
type Option func(*HuntRepository)

// WithRetryConfig overrides the retry policy
func WithRetryConfig(cfg RetryConfig) Option {
	return func(r *HuntRepository) { r.retry = cfg }
}

// NewHuntRepository creates a new Postgres-backed hunt repository
func NewHuntRepository(db *pgxpool.Pool, opts ...Option) *HuntRepository {
	r := &HuntRepository{db: db, retry: DefaultRetryConfig()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping checks that the database is reachable
func (r *HuntRepository) Ping(ctx context.Context) error {
	return withRetry(ctx, r.retry, OpPing, r.db.Ping)
}

func (r *HuntRepository) CreateSpawn(ctx context.Context, sp *domain.Spawn) error {
	return withWriteRetry(ctx, r.retry, OpCreateSpawn, func(ctx context.Context) error {
		holder, reservedAt, deadline, center, halfWidth := reservationArgs(sp.Reservation)
		_, err := r.db.Exec(ctx, SQLInsertSpawn,
			sp.ID, string(sp.Kind), string(sp.Rarity), sp.Location.Lat, sp.Location.Lng,
			sp.CreatedAt, sp.ExpiresAt, string(sp.State),
			holder, reservedAt, deadline, center, halfWidth,
			sp.Attempts, sp.MaxAttempts, sp.RewardRef, sp.Version)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation {
				return fmt.Errorf("%w: spawn %s already exists", domain.ErrInvalidInput, sp.ID)
			}
			return fmt.Errorf(ErrMsgCreateSpawnFailed, err)
		}
		return nil
	})
}

func (r *HuntRepository) GetSpawn(ctx context.Context, id uuid.UUID) (*domain.Spawn, error) {
	var sp *domain.Spawn
	err := withRetry(ctx, r.retry, OpGetSpawn, func(ctx context.Context) error {
		var err error
		sp, err = getSpawn(ctx, r.db, id)
		return err
	})
	return sp, err
}

func (r *HuntRepository) UpdateSpawnIfMatches(ctx context.Context, sp *domain.Spawn, expectedState domain.SpawnState, expectedVersion int64) (int64, error) {
	var n int64
	err := withWriteRetry(ctx, r.retry, OpUpdateSpawn, func(ctx context.Context) error {
		var err error
		n, err = updateSpawnIfMatches(ctx, r.db, sp, expectedState, expectedVersion)
		return err
	})
	return n, err
}

func (r *HuntRepository) ListSpawnsInBounds(ctx context.Context, b geo.Bounds, now time.Time) ([]*domain.Spawn, error) {
	var out []*domain.Spawn
	err := withRetry(ctx, r.retry, OpListSpawnsInBounds, func(ctx context.Context) error {
		var (
			rows pgx.Rows
			err  error
		)
		if b.MinLng >= -180 && b.MaxLng <= 180 {
			rows, err = r.db.Query(ctx, SQLListSpawnsInBoundsLng, now, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
		} else {
			rows, err = r.db.Query(ctx, SQLListSpawnsInBounds, now, b.MinLat, b.MaxLat)
		}
		if err != nil {
			return fmt.Errorf(ErrMsgListSpawnsFailed, err)
		}
		spawns, err := collectSpawns(rows)
		if err != nil {
			return err
		}
		out = out[:0]
		for _, sp := range spawns {
			if b.Contains(geo.Point{Lat: sp.Location.Lat, Lng: sp.Location.Lng}) {
				out = append(out, sp)
			}
		}
		return nil
	})
	return out, err
}

func (r *HuntRepository) ListSweepCandidates(ctx context.Context, now time.Time, limit int) ([]*domain.Spawn, error) {
	var out []*domain.Spawn
	err := withRetry(ctx, r.retry, OpListSweepCandidates, func(ctx context.Context) error {
		// LIMIT NULL means no limit
		var lim *int
		if limit > 0 {
			lim = &limit
		}
		rows, err := r.db.Query(ctx, SQLListSweepCandidates, now, lim)
		if err != nil {
			return fmt.Errorf(ErrMsgListSpawnsFailed, err)
		}
		out, err = collectSpawns(rows)
		return err
	})
	return out, err
}

func (r *HuntRepository) GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	var p *domain.PlayerProgress
	err := withRetry(ctx, r.retry, OpGetProgress, func(ctx context.Context) error {
		var err error
		p, err = scanProgress(r.db.QueryRow(ctx, SQLGetProgress, playerID))
		return err
	})
	return p, err
}

func (r *HuntRepository) ResetDailyCounts(ctx context.Context, boundary time.Time) (int64, error) {
	var n int64
	err := withRetry(ctx, r.retry, OpResetDailyCounts, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, SQLResetDailyCounts, boundary)
		if err != nil {
			return fmt.Errorf(ErrMsgResetDailyCountsFailed, err)
		}
		n = tag.RowsAffected()
		return nil
	})
	return n, err
}

func (r *HuntRepository) ListCatchRecords(ctx context.Context, playerID string, limit int) ([]domain.CatchRecord, error) {
	var out []domain.CatchRecord
	err := withRetry(ctx, r.retry, OpListCatchRecords, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, SQLListCatchRecords, playerID, limit)
		if err != nil {
			return fmt.Errorf(ErrMsgListCatchRecordsFailed, err)
		}
		out, err = pgx.CollectRows(rows, scanCatchRecord)
		if err != nil {
			return fmt.Errorf(ErrMsgListCatchRecordsFailed, err)
		}
		return nil
	})
	return out, err
}

// BeginHuntTx opens a read-committed transaction. Only the begin itself is
// retried; statements inside the transaction surface transient failures as
// ErrUnavailable and the caller rolls back.
func (r *HuntRepository) BeginHuntTx(ctx context.Context) (repository.HuntTx, error) {
	var tx pgx.Tx
	err := withRetry(ctx, r.retry, OpBeginTx, func(ctx context.Context) error {
		var err error
		tx, err = r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf(ErrMsgFailedToBeginTransaction, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &huntTx{tx: tx}, nil
}

type huntTx struct {
	tx pgx.Tx
}

func (t *huntTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return classify(OpCommit, fmt.Errorf(ErrMsgCommitFailed, err))
	}
	return nil
}

func (t *huntTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *huntTx) GetSpawn(ctx context.Context, id uuid.UUID) (*domain.Spawn, error) {
	sp, err := getSpawn(ctx, t.tx, id)
	return sp, classify(OpGetSpawn, err)
}

func (t *huntTx) UpdateSpawnIfMatches(ctx context.Context, sp *domain.Spawn, expectedState domain.SpawnState, expectedVersion int64) (int64, error) {
	n, err := updateSpawnIfMatches(ctx, t.tx, sp, expectedState, expectedVersion)
	return n, classify(OpUpdateSpawn, err)
}

// GetProgressForUpdate serializes on a per-player advisory lock first so
// that two transactions creating the same player's first record queue up
// instead of racing on the insert.
func (t *huntTx) GetProgressForUpdate(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	if _, err := t.tx.Exec(ctx, SQLAdvisoryXactLock, hashPlayerLock(playerID)); err != nil {
		return nil, classify(OpGetProgress, fmt.Errorf(ErrMsgAcquireLockFailed, err))
	}
	p, err := scanProgress(t.tx.QueryRow(ctx, SQLGetProgressForUpdate, playerID))
	return p, classify(OpGetProgress, err)
}

func (t *huntTx) SaveProgress(ctx context.Context, p *domain.PlayerProgress) error {
	_, err := t.tx.Exec(ctx, SQLUpsertProgress,
		p.PlayerID, p.Level, p.TotalXP, p.Points, p.DailyCatchCount, p.CapResetAt,
		p.StreakDays, p.LastActiveDate, p.Warmth,
		p.Pity.SinceRare, p.Pity.SinceEpic, p.Pity.SinceLegendary,
		p.SecondAttemptCharges, p.HeatModeUntil, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return classify(OpSaveProgress, fmt.Errorf(ErrMsgSaveProgressFailed, err))
	}
	return nil
}

func (t *huntTx) InsertCatchRecord(ctx context.Context, rec *domain.CatchRecord) error {
	_, err := t.tx.Exec(ctx, SQLInsertCatchRecord,
		rec.ID, rec.SpawnID, rec.PlayerID, string(rec.SpawnKind), string(rec.Rarity),
		rec.TimingInput, string(rec.Quality), rec.SuccessProbability, string(rec.Outcome),
		rec.XPAwarded, rec.PointsAwarded, rec.CreatedAt)
	if err != nil {
		return classify(OpInsertCatchRecord, fmt.Errorf(ErrMsgInsertCatchRecordFailed, err))
	}
	return nil
}

// ---- shared helpers ----

func getSpawn(ctx context.Context, q querier, id uuid.UUID) (*domain.Spawn, error) {
	sp, err := scanSpawn(q.QueryRow(ctx, SQLGetSpawn, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSpawnNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSpawnFailed, err)
	}
	return sp, nil
}

func updateSpawnIfMatches(ctx context.Context, q querier, sp *domain.Spawn, expectedState domain.SpawnState, expectedVersion int64) (int64, error) {
	holder, reservedAt, deadline, center, halfWidth := reservationArgs(sp.Reservation)
	tag, err := q.Exec(ctx, SQLUpdateSpawnIfMatches,
		sp.ID, string(sp.State),
		holder, reservedAt, deadline, center, halfWidth,
		sp.Attempts, sp.RewardRef, sp.ExpiresAt,
		string(expectedState), expectedVersion)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgUpdateSpawnFailed, err)
	}
	n := tag.RowsAffected()
	if n == 1 {
		sp.Version = expectedVersion + 1
	}
	return n, nil
}

func reservationArgs(res *domain.Reservation) (holder *string, reservedAt, deadline *time.Time, center, halfWidth *float64) {
	if res == nil {
		return nil, nil, nil, nil, nil
	}
	holder = &res.HolderID
	reservedAt = &res.ReservedAt
	deadline = &res.Deadline
	// target zone is only issued on arrival
	if res.TargetHalfWidth > 0 {
		center = &res.TargetCenter
		halfWidth = &res.TargetHalfWidth
	}
	return holder, reservedAt, deadline, center, halfWidth
}

func scanSpawn(row pgx.Row) (*domain.Spawn, error) {
	var (
		sp                   domain.Spawn
		kind, rarity, state  string
		holder               *string
		reservedAt, deadline *time.Time
		center, halfWidth    *float64
	)
	err := row.Scan(
		&sp.ID, &kind, &rarity, &sp.Location.Lat, &sp.Location.Lng,
		&sp.CreatedAt, &sp.ExpiresAt, &state,
		&holder, &reservedAt, &deadline, &center, &halfWidth,
		&sp.Attempts, &sp.MaxAttempts, &sp.RewardRef, &sp.Version)
	if err != nil {
		return nil, err
	}
	sp.Kind = domain.SpawnKind(kind)
	sp.Rarity = domain.Rarity(rarity)
	sp.State = domain.SpawnState(state)
	sp.CreatedAt = sp.CreatedAt.UTC()
	sp.ExpiresAt = sp.ExpiresAt.UTC()

	if holder != nil {
		res := &domain.Reservation{HolderID: *holder}
		if reservedAt != nil {
			res.ReservedAt = reservedAt.UTC()
		}
		if deadline != nil {
			res.Deadline = deadline.UTC()
		}
		if center != nil && halfWidth != nil {
			res.TargetCenter = *center
			res.TargetHalfWidth = *halfWidth
		}
		sp.Reservation = res
	}
	return &sp, nil
}

func collectSpawns(rows pgx.Rows) ([]*domain.Spawn, error) {
	defer rows.Close()
	var out []*domain.Spawn
	for rows.Next() {
		sp, err := scanSpawn(rows)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgScanSpawnFailed, err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(ErrMsgListSpawnsFailed, err)
	}
	return out, nil
}

// scanProgress returns nil, nil when no row exists. Derived fields such as
// the caps and unlocks are filled in by the progression ledger.
func scanProgress(row pgx.Row) (*domain.PlayerProgress, error) {
	var p domain.PlayerProgress
	err := row.Scan(
		&p.PlayerID, &p.Level, &p.TotalXP, &p.Points, &p.DailyCatchCount, &p.CapResetAt,
		&p.StreakDays, &p.LastActiveDate, &p.Warmth,
		&p.Pity.SinceRare, &p.Pity.SinceEpic, &p.Pity.SinceLegendary,
		&p.SecondAttemptCharges, &p.HeatModeUntil, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetProgressFailed, err)
	}
	p.CapResetAt = p.CapResetAt.UTC()
	p.LastActiveDate = p.LastActiveDate.UTC()
	if p.HeatModeUntil != nil {
		until := p.HeatModeUntil.UTC()
		p.HeatModeUntil = &until
	}
	return &p, nil
}

func scanCatchRecord(row pgx.CollectableRow) (domain.CatchRecord, error) {
	var (
		rec                            domain.CatchRecord
		kind, rarity, quality, outcome string
	)
	err := row.Scan(
		&rec.ID, &rec.SpawnID, &rec.PlayerID, &kind, &rarity, &rec.TimingInput,
		&quality, &rec.SuccessProbability, &outcome,
		&rec.XPAwarded, &rec.PointsAwarded, &rec.CreatedAt)
	rec.SpawnKind = domain.SpawnKind(kind)
	rec.Rarity = domain.Rarity(rarity)
	rec.Quality = domain.CatchQuality(quality)
	rec.Outcome = domain.CatchOutcome(outcome)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, err
}

// hashPlayerLock derives a positive int64 advisory lock key for a player
func hashPlayerLock(playerID string) int64 {
	h := sha256.Sum256([]byte(AdvisoryLockNamespace + playerID))
	return int64(binary.BigEndian.Uint64(h[:8]) & HashMaskPositiveInt64)
}
