package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/roomie/internal/domain"
)

type OutboxRepo struct {
	pool *pgxpool.Pool
}

func NewOutboxRepo(pool *pgxpool.Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

func (r *OutboxRepo) Add(ctx context.Context, evt *domain.OutboxEvent) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO outbox (id, type, key, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		evt.ID, evt.Type, evt.Key, []byte(evt.Payload), evt.CreatedAt,
	)
	return err
}

func (r *OutboxRepo) ListPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT id, type, key, payload, created_at FROM outbox WHERE published_at IS NULL ORDER BY created_at LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		var evt domain.OutboxEvent
		var payload []byte
		if err := rows.Scan(&evt.ID, &evt.Type, &evt.Key, &payload, &evt.CreatedAt); err != nil {
			return nil, err
		}
		evt.Payload = payload
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *OutboxRepo) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `UPDATE outbox SET published_at = $1 WHERE id = $2`, at, id)
	return err
}
