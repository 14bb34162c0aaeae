package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/metrics"
	"github.com/vedran77/roomie/internal/repository"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCannotChatSelf = errors.New("cannot start a chat with yourself")
	ErrChatNotFound   = errors.New("chat not found")
	ErrNotParticipant = errors.New("you are not a participant of this chat")
	ErrEmptyMessage   = errors.New("message text is required")
)

const MessageTypeText = "text"

type ChatService struct {
	tx        repository.Transactor
	chatRepo  repository.ChatRepository
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
	outbox    repository.OutboxRepository
	notifier  Notifier
}

func NewChatService(
	tx repository.Transactor,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	outbox repository.OutboxRepository,
) *ChatService {
	return &ChatService{
		tx:        tx,
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		statsRepo: statsRepo,
		outbox:    outbox,
		notifier:  nopNotifier{},
	}
}

func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

type MessageListResponse struct {
	Messages []domain.Message `json:"messages"`
	HasMore  bool             `json:"has_more"`
}

// StartChat returns the chat between two users, creating it on first use.
func (s *ChatService) StartChat(ctx context.Context, userID, otherUserID uuid.UUID) (*domain.Chat, error) {
	if userID == otherUserID {
		return nil, ErrCannotChatSelf
	}

	other, err := s.userRepo.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrUserNotFound
	}

	u1, u2 := domain.CanonicalPair(userID, otherUserID)

	var created bool
	var chat *domain.Chat
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.chatRepo.GetChatByUsers(ctx, u1, u2)
		if err != nil {
			return err
		}
		if existing != nil {
			chat = existing
			return nil
		}

		chat = &domain.Chat{
			ID:        uuid.New(),
			User1ID:   u1,
			User2ID:   u2,
			CreatedAt: time.Now(),
		}
		if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
			return fmt.Errorf("creating chat: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Fill in other user info
	chat.OtherUserID = otherUserID
	chat.OtherUserName = displayName(other)
	chat.OtherUserPhotoURL = other.PhotoURL

	if created {
		s.notifier.NotifyChatCreated(chat)
	}
	return chat, nil
}

// ListChats returns the user's chats, most recent activity first, each with its unread count.
func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID) ([]domain.Chat, error) {
	chats, err := s.chatRepo.ListChats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		return []domain.Chat{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range chats {
		c := &chats[i]
		g.Go(func() error {
			n, err := s.chatRepo.CountUnread(gctx, c.ID, userID)
			if err != nil {
				return err
			}
			c.Unread = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("counting unread: %w", err)
	}
	return chats, nil
}

// SendMessage stores one message addressed to the other participant.
func (s *ChatService) SendMessage(ctx context.Context, userID, chatID uuid.UUID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	chat, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:         uuid.New(),
		ChatID:     chatID,
		SenderID:   userID,
		ReceiverID: chat.Other(userID),
		Text:       text,
		Type:       MessageTypeText,
		CreatedAt:  time.Now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
			return fmt.Errorf("creating message: %w", err)
		}
		if err := s.chatRepo.TouchChat(ctx, chatID, text, msg.CreatedAt); err != nil {
			return fmt.Errorf("updating chat: %w", err)
		}
		if err := s.statsRepo.Adjust(ctx, msg.ReceiverID, domain.StatsDelta{MessageCount: 1}); err != nil {
			return fmt.Errorf("adjusting stats: %w", err)
		}
		evt, err := domain.NewOutboxEvent(domain.EventMessageSent, chatID.String(), msg)
		if err != nil {
			return err
		}
		return s.outbox.Add(ctx, evt)
	})
	if err != nil {
		return nil, err
	}

	metrics.MessagesSent.Inc()
	s.notifier.NotifyNewMessage(msg)
	return msg, nil
}

// ListMessages returns a page of messages older than before, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, userID, chatID uuid.UUID, before *uuid.UUID, limit int) (*MessageListResponse, error) {
	if _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	messages, err := s.chatRepo.ListMessages(ctx, chatID, before, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[len(messages)-limit:]
	}

	if messages == nil {
		messages = []domain.Message{}
	}

	return &MessageListResponse{
		Messages: messages,
		HasMore:  hasMore,
	}, nil
}

// MarkChatRead marks every message the user received in one chat as read.
func (s *ChatService) MarkChatRead(ctx context.Context, userID, chatID uuid.UUID) (int, error) {
	if _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return 0, err
	}

	var n int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.chatRepo.MarkChatRead(ctx, chatID, userID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("marking chat read: %w", err)
	}

	if n > 0 {
		s.notifier.NotifyMessagesRead(userID, &chatID, n)
	}
	return n, nil
}

// MarkAllRead marks every message addressed to the user as read in a single batch.
func (s *ChatService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.chatRepo.MarkAllRead(ctx, userID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("marking messages read: %w", err)
	}

	if n > 0 {
		s.notifier.NotifyMessagesRead(userID, nil, n)
	}
	return n, nil
}

func (s *ChatService) participantChat(ctx context.Context, userID, chatID uuid.UUID) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !chat.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return chat, nil
}
