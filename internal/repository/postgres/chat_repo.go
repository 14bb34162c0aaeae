package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/roomie/internal/domain"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

func (r *ChatRepo) CreateChat(ctx context.Context, chat *domain.Chat) error {
	query := `
		INSERT INTO chats (id, user1_id, user2_id, last_message, last_message_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		chat.ID, chat.User1ID, chat.User2ID, chat.LastMessage, chat.LastMessageTime, chat.CreatedAt,
	)
	return err
}

func (r *ChatRepo) GetChatByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Chat, error) {
	query := `
		SELECT id, user1_id, user2_id, last_message, last_message_time, created_at
		FROM chats
		WHERE user1_id = $1 AND user2_id = $2`
	return r.scanChat(ctx, query, user1ID, user2ID)
}

func (r *ChatRepo) GetChatByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	query := `
		SELECT id, user1_id, user2_id, last_message, last_message_time, created_at
		FROM chats
		WHERE id = $1`
	return r.scanChat(ctx, query, id)
}

func (r *ChatRepo) scanChat(ctx context.Context, query string, args ...any) (*domain.Chat, error) {
	var chat domain.Chat
	err := conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&chat.ID, &chat.User1ID, &chat.User2ID, &chat.LastMessage, &chat.LastMessageTime, &chat.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &chat, err
}

func (r *ChatRepo) ListChats(ctx context.Context, userID uuid.UUID) ([]domain.Chat, error) {
	query := `
		SELECT c.id, c.user1_id, c.user2_id, c.last_message, c.last_message_time, c.created_at,
			CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END AS other_user_id,
			CASE WHEN c.user1_id = $1 THEN u2.name ELSE u1.name END AS other_name,
			CASE WHEN c.user1_id = $1 THEN u2.photo_url ELSE u1.photo_url END AS other_photo_url
		FROM chats c
		JOIN users u1 ON c.user1_id = u1.id
		JOIN users u2 ON c.user2_id = u2.id
		WHERE c.user1_id = $1 OR c.user2_id = $1
		ORDER BY COALESCE(c.last_message_time, c.created_at) DESC`

	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		var chat domain.Chat
		if err := rows.Scan(
			&chat.ID, &chat.User1ID, &chat.User2ID, &chat.LastMessage, &chat.LastMessageTime, &chat.CreatedAt,
			&chat.OtherUserID, &chat.OtherUserName, &chat.OtherUserPhotoURL,
		); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *ChatRepo) TouchChat(ctx context.Context, chatID uuid.UUID, lastMessage string, at time.Time) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE chats SET last_message = $1, last_message_time = $2 WHERE id = $3`,
		lastMessage, at, chatID,
	)
	return err
}

func (r *ChatRepo) CreateMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, chat_id, sender_id, receiver_id, text, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		msg.ID, msg.ChatID, msg.SenderID, msg.ReceiverID, msg.Text, msg.Type, msg.Read, msg.CreatedAt,
	)
	return err
}

func (r *ChatRepo) ListMessages(ctx context.Context, chatID uuid.UUID, before *uuid.UUID, limit int) ([]domain.Message, error) {
	var query string
	var args []any

	if before != nil {
		query = fmt.Sprintf(`
			SELECT id, chat_id, sender_id, receiver_id, text, type, read, created_at
			FROM messages
			WHERE chat_id = $1
				AND (created_at, id) < (SELECT created_at, id FROM messages WHERE id = $2)
			ORDER BY created_at DESC, id DESC
			LIMIT %d`, limit)
		args = []any{chatID, *before}
	} else {
		query = fmt.Sprintf(`
			SELECT id, chat_id, sender_id, receiver_id, text, type, read, created_at
			FROM messages
			WHERE chat_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT %d`, limit)
		args = []any{chatID}
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.ChatID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.Type, &msg.Read, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	// Reverse to chronological order (query returns DESC)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, rows.Err()
}

func (r *ChatRepo) CountUnread(ctx context.Context, chatID, userID uuid.UUID) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE chat_id = $1 AND receiver_id = $2 AND NOT read`,
		chatID, userID,
	).Scan(&n)
	return n, err
}

func (r *ChatRepo) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, chat_id, sender_id, receiver_id, text, type, read, created_at
		FROM messages
		WHERE receiver_id = $1 AND NOT read
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := conn(ctx, r.pool).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.ChatID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.Type, &msg.Read, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *ChatRepo) MarkChatRead(ctx context.Context, chatID, userID uuid.UUID) (int, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE messages SET read = TRUE WHERE chat_id = $1 AND receiver_id = $2 AND NOT read`,
		chatID, userID,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *ChatRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE messages SET read = TRUE WHERE receiver_id = $1 AND NOT read`, userID,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
