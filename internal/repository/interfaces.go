package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

// Transactor runs fn inside a single store transaction. Repository calls made with the
// ctx passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	SaveQuiz(ctx context.Context, userID uuid.UUID, kind domain.QuizKind, answers domain.Answers, at time.Time) error
	SetMood(ctx context.Context, userID uuid.UUID, mood string) error
	// ListQuizTakers returns users who completed the given quiz.
	ListQuizTakers(ctx context.Context, kind domain.QuizKind) ([]domain.User, error)
}

type MatchRepository interface {
	// UpsertRequest writes the request for its sender/receiver pair, replacing an earlier
	// non-pending one. It reports false and writes nothing while a pending request exists.
	UpsertRequest(ctx context.Context, req *domain.MatchRequest) (bool, error)
	GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.MatchRequest, error)
	GetRequestByUsers(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.MatchRequest, error)
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]domain.MatchRequest, error)
	ListOutgoing(ctx context.Context, userID uuid.UUID) ([]domain.MatchRequest, error)
	CountPending(ctx context.Context, userID uuid.UUID) (int, error)
	// TransitionRequest moves a request from one status to another and reports whether it did.
	TransitionRequest(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error)
	CreateMatch(ctx context.Context, m *domain.Match) error
	ListMatches(ctx context.Context, userID uuid.UUID) ([]domain.Match, error)
	AreMatched(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error)
	MarkReadBySender(ctx context.Context, userID, senderID uuid.UUID, notifType string) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

type ChatRepository interface {
	CreateChat(ctx context.Context, chat *domain.Chat) error
	GetChatByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Chat, error)
	GetChatByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	ListChats(ctx context.Context, userID uuid.UUID) ([]domain.Chat, error)
	TouchChat(ctx context.Context, chatID uuid.UUID, lastMessage string, at time.Time) error
	CreateMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, chatID uuid.UUID, before *uuid.UUID, limit int) ([]domain.Message, error)
	// CountUnread counts messages in chatID addressed to userID that are still unread.
	CountUnread(ctx context.Context, chatID, userID uuid.UUID) (int, error)
	// ListUnread returns the newest unread messages addressed to userID across all chats.
	ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Message, error)
	MarkChatRead(ctx context.Context, chatID, userID uuid.UUID) (int, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

type StatsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.DashboardStats, error)
	Adjust(ctx context.Context, userID uuid.UUID, delta domain.StatsDelta) error
}

type MoodRepository interface {
	Create(ctx context.Context, m *domain.Mood) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Mood, error)
}

type OutboxRepository interface {
	Add(ctx context.Context, evt *domain.OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
}
