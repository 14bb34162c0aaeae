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

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// UpsertRequest leaves a pending row untouched. A concurrent insert for the same
// pair waits on the conflicting row and then sees it pending, so only one caller writes.
func (r *MatchRepo) UpsertRequest(ctx context.Context, req *domain.MatchRequest) (bool, error) {
	query := `
		INSERT INTO match_requests (id, sender_id, receiver_id, sender_name, status, created_at, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (sender_id, receiver_id) DO UPDATE
		SET sender_name = EXCLUDED.sender_name, status = EXCLUDED.status,
			created_at = EXCLUDED.created_at, responded_at = EXCLUDED.responded_at
		WHERE match_requests.status <> 'pending'
		RETURNING id`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		req.ID, req.SenderID, req.ReceiverID, req.SenderName, req.Status, req.CreatedAt, req.RespondedAt,
	).Scan(&req.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MatchRepo) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.MatchRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, sender_name, status, created_at, responded_at
		FROM match_requests
		WHERE id = $1`
	return r.scanRequest(ctx, query, id)
}

func (r *MatchRepo) GetRequestByUsers(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.MatchRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, sender_name, status, created_at, responded_at
		FROM match_requests
		WHERE sender_id = $1 AND receiver_id = $2`
	return r.scanRequest(ctx, query, senderID, receiverID)
}

func (r *MatchRepo) scanRequest(ctx context.Context, query string, args ...any) (*domain.MatchRequest, error) {
	var req domain.MatchRequest
	err := conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&req.ID, &req.SenderID, &req.ReceiverID, &req.SenderName, &req.Status, &req.CreatedAt, &req.RespondedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &req, err
}

func (r *MatchRepo) ListIncoming(ctx context.Context, userID uuid.UUID) ([]domain.MatchRequest, error) {
	query := `
		SELECT r.id, r.sender_id, r.receiver_id, r.sender_name, r.status, r.created_at, r.responded_at, u.name
		FROM match_requests r
		JOIN users u ON r.receiver_id = u.id
		WHERE r.receiver_id = $1 AND r.status = 'pending'
		ORDER BY r.created_at DESC`
	return r.listRequests(ctx, query, userID)
}

func (r *MatchRepo) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]domain.MatchRequest, error) {
	query := `
		SELECT r.id, r.sender_id, r.receiver_id, r.sender_name, r.status, r.created_at, r.responded_at, u.name
		FROM match_requests r
		JOIN users u ON r.receiver_id = u.id
		WHERE r.sender_id = $1
		ORDER BY r.created_at DESC`
	return r.listRequests(ctx, query, userID)
}

func (r *MatchRepo) listRequests(ctx context.Context, query string, userID uuid.UUID) ([]domain.MatchRequest, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.MatchRequest
	for rows.Next() {
		var req domain.MatchRequest
		if err := rows.Scan(
			&req.ID, &req.SenderID, &req.ReceiverID, &req.SenderName, &req.Status,
			&req.CreatedAt, &req.RespondedAt, &req.ReceiverName,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *MatchRepo) CountPending(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM match_requests WHERE receiver_id = $1 AND status = 'pending'`, userID,
	).Scan(&n)
	return n, err
}

func (r *MatchRepo) TransitionRequest(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE match_requests SET status = $1, responded_at = $2 WHERE id = $3 AND status = $4`,
		to, at, id, from,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *MatchRepo) CreateMatch(ctx context.Context, m *domain.Match) error {
	query := `
		INSERT INTO matches (user_id, other_user_id, status, matched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, other_user_id) DO NOTHING`
	_, err := conn(ctx, r.pool).Exec(ctx, query, m.UserID, m.OtherUserID, m.Status, m.MatchedAt)
	return err
}

func (r *MatchRepo) ListMatches(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	query := `
		SELECT m.user_id, m.other_user_id, m.status, m.matched_at, u.name, u.photo_url
		FROM matches m
		JOIN users u ON m.other_user_id = u.id
		WHERE m.user_id = $1
		ORDER BY m.matched_at DESC`

	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.UserID, &m.OtherUserID, &m.Status, &m.MatchedAt, &m.OtherName, &m.OtherPhotoURL); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *MatchRepo) AreMatched(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE user_id = $1 AND other_user_id = $2)`,
		userA, userB,
	).Scan(&exists)
	return exists, err
}
