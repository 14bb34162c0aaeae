package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

type OutboxRepo struct {
	s *Store
}

func (r *OutboxRepo) Add(ctx context.Context, evt *domain.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	keepItem(r.s, ctx, &r.s.data.outbox, evt.ID, outboxID)
	r.s.data.outbox = append(r.s.data.outbox, *evt)
	return nil
}

func (r *OutboxRepo) ListPending(_ context.Context, limit int) ([]domain.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var events []domain.OutboxEvent
	for _, evt := range r.s.data.outbox {
		if evt.PublishedAt == nil {
			events = append(events, evt)
			if len(events) == limit {
				break
			}
		}
	}
	return events, nil
}

func (r *OutboxRepo) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.data.outbox {
		if r.s.data.outbox[i].ID == id {
			keepItem(r.s, ctx, &r.s.data.outbox, id, outboxID)
			r.s.data.outbox[i].PublishedAt = &at
		}
	}
	return nil
}
