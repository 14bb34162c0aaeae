package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/roomie/internal/domain"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func (r *StatsRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.DashboardStats, error) {
	var s domain.DashboardStats
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT user_id, match_requests, active_matches, message_count, updated_at FROM dashboard_stats WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.MatchRequests, &s.ActiveMatches, &s.MessageCount, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &s, err
}

// Adjust applies the delta in a single statement so concurrent adjustments never lose updates.
func (r *StatsRepo) Adjust(ctx context.Context, userID uuid.UUID, d domain.StatsDelta) error {
	query := `
		INSERT INTO dashboard_stats (user_id, match_requests, active_matches, message_count, updated_at)
		VALUES ($1, GREATEST($2, 0), GREATEST($3, 0), GREATEST($4, 0), $5)
		ON CONFLICT (user_id) DO UPDATE SET
			match_requests = GREATEST(dashboard_stats.match_requests + $2, 0),
			active_matches = GREATEST(dashboard_stats.active_matches + $3, 0),
			message_count  = GREATEST(dashboard_stats.message_count + $4, 0),
			updated_at     = $5`
	_, err := conn(ctx, r.pool).Exec(ctx, query, userID, d.MatchRequests, d.ActiveMatches, d.MessageCount, time.Now())
	return err
}
