package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/roomie/internal/cache"
	"github.com/vedran77/roomie/internal/compat"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/live"
	"github.com/vedran77/roomie/internal/repository/memory"
	"go.uber.org/zap"
)

type fixture struct {
	store  *memory.Store
	broker *live.MemoryBroker
	rec    *recorder

	auth     *AuthService
	profiles *ProfileService
	matches  *MatchService
	chats    *ChatService
	notifs   *NotificationService
	unread   *UnreadAggregator
	stats    *DashboardService
	moods    *MoodService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	broker := live.NewMemoryBroker(zap.NewNop())
	marks := cache.NewMemory()
	rec := &recorder{next: live.NewBrokerNotifier(broker, zap.NewNop())}

	f := &fixture{store: store, broker: broker, rec: rec}
	f.auth = NewAuthService(store.Users(), marks, "test-secret", time.Hour)
	f.profiles = NewProfileService(store.Users(), store.Matches(), compat.Local{})
	f.matches = NewMatchService(store, store.Users(), store.Matches(), store.Notifications(), store.Stats(), store.Outbox())
	f.chats = NewChatService(store, store.Chats(), store.Users(), store.Stats(), store.Outbox())
	f.notifs = NewNotificationService(store, store.Users(), store.Matches(), store.Notifications(), store.Chats(), marks)
	f.unread = NewUnreadAggregator(store.Chats(), store.Matches(), store.Notifications(), broker, zap.NewNop())
	f.stats = NewDashboardService(store.Stats(), f.unread)
	f.moods = NewMoodService(store.Moods(), store.Users())

	f.matches.SetNotifier(rec)
	f.chats.SetNotifier(rec)
	return f
}

func (f *fixture) user(t *testing.T, name string) uuid.UUID {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		ID:        uuid.New(),
		Email:     name + "@example.com",
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func (f *fixture) stat(t *testing.T, userID uuid.UUID) domain.DashboardStats {
	t.Helper()
	st, err := f.store.Stats().Get(context.Background(), userID)
	require.NoError(t, err)
	if st == nil {
		return domain.DashboardStats{}
	}
	return *st
}

// recorder counts notifier calls and forwards them to the live broker.
type recorder struct {
	mu    sync.Mutex
	calls map[string]int
	next  Notifier
}

func (r *recorder) hit(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[name]++
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *recorder) NotifyNotification(n *domain.Notification) {
	r.hit("notification")
	r.next.NotifyNotification(n)
}

func (r *recorder) NotifyMatchRequest(req *domain.MatchRequest) {
	r.hit("match.request")
	r.next.NotifyMatchRequest(req)
}

func (r *recorder) NotifyMatchResponse(req *domain.MatchRequest) {
	r.hit("match.response")
	r.next.NotifyMatchResponse(req)
}

func (r *recorder) NotifyChatCreated(chat *domain.Chat) {
	r.hit("chat.created")
	r.next.NotifyChatCreated(chat)
}

func (r *recorder) NotifyNewMessage(msg *domain.Message) {
	r.hit("message.new")
	r.next.NotifyNewMessage(msg)
}

func (r *recorder) NotifyMessagesRead(userID uuid.UUID, chatID *uuid.UUID, count int) {
	r.hit("messages.read")
	r.next.NotifyMessagesRead(userID, chatID, count)
}
