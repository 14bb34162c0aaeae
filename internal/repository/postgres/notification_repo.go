package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/roomie/internal/domain"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, sender_id, sender_name, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		n.ID, n.UserID, n.Type, n.SenderID, n.SenderName, n.Message, n.Read, n.CreatedAt,
	)
	return err
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, type, sender_id, sender_name, message, read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT read)
		ORDER BY created_at DESC
		LIMIT 100`

	rows, err := conn(ctx, r.pool).Query(ctx, query, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.SenderID, &n.SenderName, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID,
	).Scan(&n)
	return n, err
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *NotificationRepo) MarkReadBySender(ctx context.Context, userID, senderID uuid.UUID, notifType string) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND sender_id = $2 AND type = $3 AND NOT read`,
		userID, senderID, notifType,
	)
	return err
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
