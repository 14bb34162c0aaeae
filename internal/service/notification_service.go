package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/repository"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrEmptyItemID          = errors.New("item id is required")
)

const feedMessageLimit = 50

// ReadMarks stores the feed items a user dismissed.
type ReadMarks interface {
	AddReadMark(ctx context.Context, userID uuid.UUID, itemID string) error
	ReadMarks(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
}

// FeedItem is one entry of the notification dropdown.
type FeedItem struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	SenderID   uuid.UUID  `json:"sender_id"`
	SenderName string     `json:"sender_name"`
	Message    string     `json:"message"`
	ChatID     *uuid.UUID `json:"chat_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type NotificationService struct {
	tx        repository.Transactor
	userRepo  repository.UserRepository
	matchRepo repository.MatchRepository
	notifRepo repository.NotificationRepository
	chatRepo  repository.ChatRepository
	marks     ReadMarks
}

func NewNotificationService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	matchRepo repository.MatchRepository,
	notifRepo repository.NotificationRepository,
	chatRepo repository.ChatRepository,
	marks ReadMarks,
) *NotificationService {
	return &NotificationService{
		tx:        tx,
		userRepo:  userRepo,
		matchRepo: matchRepo,
		notifRepo: notifRepo,
		chatRepo:  chatRepo,
		marks:     marks,
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	list, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Notification{}
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ok, err := s.notifRepo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification of the user in one batch.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.notifRepo.MarkAllRead(ctx, userID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	return n, nil
}

// Feed merges pending match requests, unread messages and unread notifications,
// newest first, leaving out items the user dismissed.
func (s *NotificationService) Feed(ctx context.Context, userID uuid.UUID) ([]FeedItem, error) {
	dismissed, err := s.marks.ReadMarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading read marks: %w", err)
	}

	items := []FeedItem{}
	add := func(item FeedItem) {
		if _, ok := dismissed[item.ID]; ok {
			return
		}
		items = append(items, item)
	}

	requests, err := s.matchRepo.ListIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	// The request items stand in for their match-request notifications, which are skipped below.
	requestSenders := make(map[uuid.UUID]struct{}, len(requests))
	for _, r := range requests {
		requestSenders[r.SenderID] = struct{}{}
		add(FeedItem{
			ID:         r.ID.String(),
			Type:       domain.NotificationMatchRequest,
			SenderID:   r.SenderID,
			SenderName: r.SenderName,
			Message:    fmt.Sprintf("%s sent you a match request", r.SenderName),
			CreatedAt:  r.CreatedAt,
		})
	}

	messages, err := s.chatRepo.ListUnread(ctx, userID, feedMessageLimit)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string)
	for _, m := range messages {
		name, ok := names[m.SenderID]
		if !ok {
			name = "Someone"
			if u, err := s.userRepo.GetByID(ctx, m.SenderID); err == nil && u != nil {
				name = displayName(u)
			}
			names[m.SenderID] = name
		}
		chatID := m.ChatID
		add(FeedItem{
			ID:         m.ID.String(),
			Type:       domain.NotificationMessage,
			SenderID:   m.SenderID,
			SenderName: name,
			Message:    preview(m.Text),
			ChatID:     &chatID,
			CreatedAt:  m.CreatedAt,
		})
	}

	notifs, err := s.notifRepo.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	for _, n := range notifs {
		if n.Type == domain.NotificationMatchRequest {
			if _, ok := requestSenders[n.SenderID]; ok {
				continue
			}
		}
		add(FeedItem{
			ID:         n.ID.String(),
			Type:       n.Type,
			SenderID:   n.SenderID,
			SenderName: n.SenderName,
			Message:    n.Message,
			CreatedAt:  n.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

// Dismiss hides one feed item for the user. Notifications are also marked read.
func (s *NotificationService) Dismiss(ctx context.Context, userID uuid.UUID, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return ErrEmptyItemID
	}
	if err := s.marks.AddReadMark(ctx, userID, itemID); err != nil {
		return fmt.Errorf("storing read mark: %w", err)
	}
	if id, err := uuid.Parse(itemID); err == nil {
		if _, err := s.notifRepo.MarkRead(ctx, userID, id); err != nil {
			return err
		}
	}
	return nil
}

func preview(text string) string {
	const max = 80
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}
