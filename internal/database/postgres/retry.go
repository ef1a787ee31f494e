package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/metrics"
)

// RetryConfig bounds retries of transient storage failures
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig returns the production retry policy
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
	}
}

func (c RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialInterval
	b.MaxInterval = c.MaxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, c.MaxRetries), ctx)
}

// withRetry runs fn, retrying transient failures. Permanent errors return
// as-is; a transient error that outlives the retries becomes ErrUnavailable.
func withRetry(ctx context.Context, cfg RetryConfig, op string, fn func(ctx context.Context) error) error {
	return retry(ctx, cfg, op, isTransient, fn)
}

// withWriteRetry is withRetry for statements that must not apply twice. Only
// failures where the server did not apply the statement are retried. A
// connection lost after the statement was sent becomes ErrUnavailable at once.
func withWriteRetry(ctx context.Context, cfg RetryConfig, op string, fn func(ctx context.Context) error) error {
	return retry(ctx, cfg, op, isReplaySafe, fn)
}

func retry(ctx context.Context, cfg RetryConfig, op string, retryable func(error) bool, fn func(ctx context.Context) error) error {
	err := backoff.RetryNotify(func() error {
		err := fn(ctx)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, cfg.backOff(ctx), func(err error, delay time.Duration) {
		metrics.RepositoryRetries.WithLabelValues(op).Inc()
		logger.FromContext(ctx).Warn(LogMsgRetryingOperation, "operation", op, "delay", delay, "error", err)
	})
	if err != nil && isTransient(err) {
		logger.FromContext(ctx).Error(LogMsgRetriesExhausted, "operation", op, "error", err)
		return unavailable(op, err)
	}
	return err
}

// unavailable marks a transient failure that must not be retried piecemeal,
// such as a statement inside an open transaction.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrUnavailable, op, err)
}

// classify maps transient errors to ErrUnavailable and leaves the rest
func classify(op string, err error) error {
	if err != nil && isTransient(err) {
		return unavailable(op, err)
	}
	return err
}

// isTransient reports whether err is worth retrying: lost connections,
// server restarts, serialization conflicts and pool exhaustion.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrorCodeSerializationFailure,
			PgErrorCodeDeadlockDetected,
			PgErrorCodeLockNotAvailable,
			PgErrorCodeAdminShutdown,
			PgErrorCodeCrashShutdown,
			PgErrorCodeCannotConnectNow,
			PgErrorCodeTooManyConnections:
			return true
		}
		return strings.HasPrefix(pgErr.Code, PgErrorClassConnection)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// isReplaySafe reports whether a failed write can run again without applying
// twice: the server rejected it, or it never left the client.
func isReplaySafe(err error) bool {
	if !isTransient(err) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}
