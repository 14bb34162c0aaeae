package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

type ChatRepo struct {
	s *Store
}

func (r *ChatRepo) CreateChat(ctx context.Context, chat *domain.Chat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.data.chats {
		if c.User1ID == chat.User1ID && c.User2ID == chat.User2ID {
			return ErrDuplicate
		}
	}
	keepKey(r.s, ctx, r.s.data.chats, chat.ID)
	r.s.data.chats[chat.ID] = stripChat(*chat)
	return nil
}

func stripChat(c domain.Chat) domain.Chat {
	c.OtherUserID = uuid.Nil
	c.OtherUserName = ""
	c.OtherUserPhotoURL = nil
	c.Unread = 0
	return c
}

func (r *ChatRepo) GetChatByUsers(_ context.Context, user1ID, user2ID uuid.UUID) (*domain.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.data.chats {
		if c.User1ID == user1ID && c.User2ID == user2ID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ChatRepo) GetChatByID(_ context.Context, id uuid.UUID) (*domain.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.data.chats[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ChatRepo) ListChats(_ context.Context, userID uuid.UUID) ([]domain.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var chats []domain.Chat
	for _, c := range r.s.data.chats {
		if !c.HasParticipant(userID) {
			continue
		}
		other := r.s.data.users[c.Other(userID)]
		c.OtherUserID = c.Other(userID)
		c.OtherUserName = other.Name
		c.OtherUserPhotoURL = other.PhotoURL
		chats = append(chats, c)
	}
	sort.Slice(chats, func(i, j int) bool { return activity(chats[i]).After(activity(chats[j])) })
	return chats, nil
}

func activity(c domain.Chat) time.Time {
	if c.LastMessageTime != nil {
		return *c.LastMessageTime
	}
	return c.CreatedAt
}

func (r *ChatRepo) TouchChat(ctx context.Context, chatID uuid.UUID, lastMessage string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c, ok := r.s.data.chats[chatID]; ok {
		c.LastMessage = lastMessage
		c.LastMessageTime = &at
		keepKey(r.s, ctx, r.s.data.chats, chatID)
		r.s.data.chats[chatID] = c
	}
	return nil
}

func (r *ChatRepo) CreateMessage(ctx context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	keepItem(r.s, ctx, &r.s.data.messages, msg.ID, messageID)
	r.s.data.messages = append(r.s.data.messages, *msg)
	return nil
}

func (r *ChatRepo) ListMessages(_ context.Context, chatID uuid.UUID, before *uuid.UUID, limit int) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []domain.Message
	for _, m := range r.s.data.messages {
		if m.ChatID == chatID {
			all = append(all, m)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	if before != nil {
		// An unknown cursor yields an empty page.
		cut := 0
		for i, m := range all {
			if m.ID == *before {
				cut = i
				break
			}
		}
		all = all[:cut]
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *ChatRepo) CountUnread(_ context.Context, chatID, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, m := range r.s.data.messages {
		if m.ChatID == chatID && m.ReceiverID == userID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (r *ChatRepo) ListUnread(_ context.Context, userID uuid.UUID, limit int) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Message
	for _, m := range r.s.data.messages {
		if m.ReceiverID == userID && !m.Read {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ChatRepo) MarkChatRead(ctx context.Context, chatID, userID uuid.UUID) (int, error) {
	return r.markRead(ctx, func(m domain.Message) bool { return m.ChatID == chatID && m.ReceiverID == userID }), nil
}

func (r *ChatRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.markRead(ctx, func(m domain.Message) bool { return m.ReceiverID == userID }), nil
}

func (r *ChatRepo) markRead(ctx context.Context, match func(domain.Message) bool) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for i := range r.s.data.messages {
		m := &r.s.data.messages[i]
		if !m.Read && match(*m) {
			keepItem(r.s, ctx, &r.s.data.messages, m.ID, messageID)
			m.Read = true
			n++
		}
	}
	return n
}

// Messages returns every stored message of a chat in insertion order.
func (r *ChatRepo) Messages(chatID uuid.UUID) []domain.Message {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Message
	for _, m := range r.s.data.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}
