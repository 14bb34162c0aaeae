package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/vedran77/roomie/internal/metrics"
	"github.com/vedran77/roomie/internal/repository"
	"go.uber.org/zap"
)

const defaultBatch = 100

// Relay polls the outbox and hands pending events to a producer. Events that fail
// to publish stay pending and are retried on the next tick.
type Relay struct {
	repo     repository.OutboxRepository
	producer Producer
	interval time.Duration
	batch    int
	log      *zap.Logger
}

func NewRelay(repo repository.OutboxRepository, producer Producer, interval time.Duration, logger *zap.Logger) *Relay {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Relay{
		repo:     repo,
		producer: producer,
		interval: interval,
		batch:    defaultBatch,
		log:      logger,
	}
}

// Run flushes on every tick until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("outbox relay started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn("outbox flush failed", zap.Error(err))
			}
		}
	}
}

// Flush publishes one batch of pending events and returns how many were published.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	events, err := r.repo.ListPending(ctx, r.batch)
	if err != nil {
		return 0, fmt.Errorf("listing pending events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	if err := r.producer.Publish(ctx, events); err != nil {
		metrics.OutboxPublished.WithLabelValues("error").Add(float64(len(events)))
		return 0, fmt.Errorf("publishing %d events: %w", len(events), err)
	}

	now := time.Now()
	for i, evt := range events {
		if err := r.repo.MarkPublished(ctx, evt.ID, now); err != nil {
			// Unmarked events are sent again next tick with the same id.
			metrics.OutboxPublished.WithLabelValues("published").Add(float64(i))
			return i, fmt.Errorf("marking event %s published: %w", evt.ID, err)
		}
	}
	metrics.OutboxPublished.WithLabelValues("published").Add(float64(len(events)))
	r.log.Debug("outbox flushed", zap.Int("count", len(events)))
	return len(events), nil
}
