package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/telemeet/telemed-api/internal/model"
)

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	return insertOutboxEventExec(ctx, r.db, event)
}

func insertOutboxEvent(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	return insertOutboxEventExec(ctx, tx, event)
}

func insertOutboxEventExec(ctx context.Context, db sqlx.ExecerContext, event *model.OutboxEvent) error {
	if event == nil {
		return nil
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		event.ID,
		event.EventType,
		[]byte(event.Payload),
		event.Status,
		event.RetryCount,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message, retry_count, created_at, processed_at
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	var events []*model.OutboxEvent
	if err := r.db.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox_events
		SET status = $1,
		    error_message = $2,
		    retry_count = retry_count + CASE WHEN $1 = 'FAILED' THEN 1 ELSE 0 END,
		    processed_at = CASE WHEN $1 = 'PROCESSED' THEN now() ELSE processed_at END
		WHERE id = $3
	`, status, errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to update outbox event: %w", err)
	}
	return nil
}
