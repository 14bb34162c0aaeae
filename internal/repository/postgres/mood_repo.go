package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/roomie/internal/domain"
)

type MoodRepo struct {
	pool *pgxpool.Pool
}

func NewMoodRepo(pool *pgxpool.Pool) *MoodRepo {
	return &MoodRepo{pool: pool}
}

func (r *MoodRepo) Create(ctx context.Context, m *domain.Mood) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO moods (id, user_id, mood, note, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.Mood, m.Note, m.CreatedAt,
	)
	return err
}

func (r *MoodRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Mood, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT id, user_id, mood, note, created_at FROM moods WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moods []domain.Mood
	for rows.Next() {
		var m domain.Mood
		if err := rows.Scan(&m.ID, &m.UserID, &m.Mood, &m.Note, &m.CreatedAt); err != nil {
			return nil, err
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}
