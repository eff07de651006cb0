package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EventOrderPlaced is written in the checkout transaction for every new order.
const EventOrderPlaced = "order.placed"

type OutboxEvent struct {
	ID          string `db:"id"`
	AggregateID string `db:"aggregate_id"`
	EventType   string `db:"event_type"`
	Payload     []byte `db:"payload"`
	CreatedAt   string `db:"created_at"`
}

// OutboxRepo persists events alongside the rows they describe, for later relay.
type OutboxRepo struct{ db sqlx.ExtContext }

func NewOutboxRepo(db sqlx.ExtContext) *OutboxRepo { return &OutboxRepo{db: db} }

func (r *OutboxRepo) Append(ctx context.Context, aggregateID, eventType string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outbox_events(id, aggregate_id, event_type, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`, uuid.NewString(), aggregateID, eventType, string(payload), now())
	return err
}

// Unprocessed returns up to limit events not yet relayed, oldest first.
func (r *OutboxRepo) Unprocessed(ctx context.Context, limit int) ([]OutboxEvent, error) {
	var out []OutboxEvent
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY created_at, rowid
		LIMIT ?`, limit)
	return out, err
}

func (r *OutboxRepo) MarkProcessed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE outbox_events SET processed_at = ? WHERE id = ?`, now(), id)
	return err
}
