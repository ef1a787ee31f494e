package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// EventLogRepository stores hunt events in the event_log table
type EventLogRepository struct {
	db    *pgxpool.Pool
	retry RetryConfig
	now   func() time.Time
}

var _ repository.EventLog = (*EventLogRepository)(nil)

// NewEventLogRepository creates a new PostgreSQL event log repository
func NewEventLogRepository(db *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{db: db, retry: DefaultRetryConfig(), now: time.Now}
}

// LogEvent stores an event in the database
func (r *EventLogRepository) LogEvent(ctx context.Context, eventType string, playerID *string, payload, metadata map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf(ErrMsgMarshalEventFailed, "payload", err)
	}

	var metadataJSON []byte
	if metadata != nil {
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf(ErrMsgMarshalEventFailed, "metadata", err)
		}
	}

	createdAt := r.now().UTC()
	err = withWriteRetry(ctx, r.retry, OpLogEvent, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, SQLInsertEvent, eventType, playerID, payloadJSON, metadataJSON, createdAt)
		return err
	})
	if err != nil {
		return fmt.Errorf(ErrMsgLogEventFailed, err)
	}
	return nil
}

// GetEvents retrieves events based on filter criteria, newest first
func (r *EventLogRepository) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(SQLSelectEvents)

	args := []interface{}{}
	argNum := 1

	if filter.PlayerID != nil {
		fmt.Fprintf(&queryBuilder, " AND player_id = $%d", argNum)
		args = append(args, *filter.PlayerID)
		argNum++
	}

	if filter.EventType != nil {
		fmt.Fprintf(&queryBuilder, " AND event_type = $%d", argNum)
		args = append(args, *filter.EventType)
		argNum++
	}

	if filter.Since != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at >= $%d", argNum)
		args = append(args, *filter.Since)
		argNum++
	}

	if filter.Until != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at <= $%d", argNum)
		args = append(args, *filter.Until)
		argNum++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		fmt.Fprintf(&queryBuilder, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	var events []repository.EventLogEntry
	err := withRetry(ctx, r.retry, OpGetEvents, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		events, err = scanEvents(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetEventsFailed, err)
	}
	return events, nil
}

// CleanupOldEvents removes events created before cutoff
func (r *EventLogRepository) CleanupOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := withRetry(ctx, r.retry, OpCleanupEvents, func(ctx context.Context) error {
		result, err := r.db.Exec(ctx, SQLDeleteEventsBefore, cutoff)
		if err != nil {
			return err
		}
		deleted = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf(ErrMsgCleanupEventsFailed, err)
	}
	return deleted, nil
}

func scanEvents(rows pgx.Rows) ([]repository.EventLogEntry, error) {
	events := []repository.EventLogEntry{}

	for rows.Next() {
		var evt repository.EventLogEntry
		var payloadJSON, metadataJSON []byte

		err := rows.Scan(
			&evt.ID,
			&evt.EventType,
			&evt.PlayerID,
			&payloadJSON,
			&metadataJSON,
			&evt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgScanEventFailed, err)
		}

		if err := json.Unmarshal(payloadJSON, &evt.Payload); err != nil {
			return nil, fmt.Errorf(ErrMsgScanEventFailed, err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &evt.Metadata); err != nil {
				return nil, fmt.Errorf(ErrMsgScanEventFailed, err)
			}
		}

		events = append(events, evt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
