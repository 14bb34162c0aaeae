package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/roomie/internal/domain"
)

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id := uuid.New()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Users().Create(ctx, &domain.User{ID: id, Email: "a@x.io"}))
		require.NoError(t, s.Stats().Adjust(ctx, id, domain.StatsDelta{MatchRequests: 1}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u, err := s.Users().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, u)

	st, err := s.Stats().Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestRollbackKeepsWritesOutsideTx(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	inside, outside := uuid.New(), uuid.New()
	user := uuid.New()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, s.Notifications().Create(txCtx, &domain.Notification{ID: inside, UserID: user}))
		require.NoError(t, s.Notifications().Create(ctx, &domain.Notification{ID: outside, UserID: user}))
		require.NoError(t, s.Users().Create(ctx, &domain.User{ID: user, Email: "b@x.io"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u, err := s.Users().GetByID(ctx, user)
	require.NoError(t, err)
	assert.NotNil(t, u)

	list, err := s.Notifications().ListByUser(ctx, user, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, outside, list[0].ID)
}

func TestRollbackRestoresUpdatedRows(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	userID := uuid.New()
	n := &domain.Notification{ID: uuid.New(), UserID: userID}
	require.NoError(t, s.Notifications().Create(ctx, n))
	require.NoError(t, s.Stats().Adjust(ctx, userID, domain.StatsDelta{MatchRequests: 2}))

	_ = s.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.Notifications().MarkAllRead(ctx, userID)
		require.NoError(t, err)
		require.NoError(t, s.Stats().Adjust(ctx, userID, domain.StatsDelta{MatchRequests: -1}))
		return errors.New("boom")
	})

	unread, err := s.Notifications().CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	st, err := s.Stats().Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, st.MatchRequests)
}

func TestStatsClampAtZero(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id := uuid.New()

	require.NoError(t, s.Stats().Adjust(ctx, id, domain.StatsDelta{MatchRequests: 1}))
	require.NoError(t, s.Stats().Adjust(ctx, id, domain.StatsDelta{MatchRequests: -3, ActiveMatches: -1}))

	st, err := s.Stats().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, st.MatchRequests)
	assert.Equal(t, 0, st.ActiveMatches)
}

func TestUpsertRequestKeepsOneRowPerPair(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	sender, receiver := uuid.New(), uuid.New()

	first := &domain.MatchRequest{ID: uuid.New(), SenderID: sender, ReceiverID: receiver, Status: domain.RequestRejected}
	written, err := s.Matches().UpsertRequest(ctx, first)
	require.NoError(t, err)
	assert.True(t, written)

	second := &domain.MatchRequest{ID: uuid.New(), SenderID: sender, ReceiverID: receiver, Status: domain.RequestPending, CreatedAt: time.Now()}
	written, err = s.Matches().UpsertRequest(ctx, second)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, first.ID, second.ID)

	third := &domain.MatchRequest{ID: uuid.New(), SenderID: sender, ReceiverID: receiver, Status: domain.RequestPending, CreatedAt: time.Now()}
	written, err = s.Matches().UpsertRequest(ctx, third)
	require.NoError(t, err)
	assert.False(t, written, "pending request must not be overwritten")

	got, err := s.Matches().GetRequestByUsers(ctx, sender, receiver)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, got.Status)

	n, err := s.Matches().CountPending(ctx, receiver)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListMessagesBeforeCursor(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	chatID := uuid.New()
	base := time.Now()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		id := uuid.New()
		ids = append(ids, id)
		require.NoError(t, s.Chats().CreateMessage(ctx, &domain.Message{ID: id, ChatID: chatID, CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	got, err := s.Chats().ListMessages(ctx, chatID, &ids[3], 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[1], got[0].ID)
	assert.Equal(t, ids[2], got[1].ID)
}

func TestListMessagesUnknownCursor(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	chatID := uuid.New()
	require.NoError(t, s.Chats().CreateMessage(ctx, &domain.Message{ID: uuid.New(), ChatID: chatID, CreatedAt: time.Now()}))

	unknown := uuid.New()
	got, err := s.Chats().ListMessages(ctx, chatID, &unknown, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
