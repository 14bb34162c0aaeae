package live

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/roomie/internal/domain"
	"go.uber.org/zap"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestMemoryBrokerDeliversByTopic(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker(zap.NewNop())

	sub, err := b.Subscribe(ctx, "a", "b")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, b.Publish(ctx, "c", Event{Type: "ignored"}))
	require.NoError(t, b.Publish(ctx, "b", Event{Type: "wanted"}))

	assert.Equal(t, "wanted", recv(t, sub.C).Type)
}

func TestSubscriptionCloseClosesChannel(t *testing.T) {
	b := NewMemoryBroker(zap.NewNop())
	sub, err := b.Subscribe(context.Background(), "a")
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
	require.NoError(t, b.Publish(context.Background(), "a", Event{Type: "late"}))
}

func TestMerge(t *testing.T) {
	ctx := context.Background()
	a := make(chan int)
	b := make(chan int)
	out := Merge(ctx, a, b)

	go func() {
		a <- 1
		b <- 2
		a <- 3
		close(a)
		close(b)
	}()

	sum := 0
	for v := range out {
		sum += v
	}
	assert.Equal(t, 6, sum)
}

func TestMergeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := Merge(ctx, make(chan int))
	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("merge did not stop")
	}
}

func TestBrokerNotifierRoutesMessages(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker(zap.NewNop())
	n := NewBrokerNotifier(b, zap.NewNop())

	sender, receiver := uuid.New(), uuid.New()
	chatID := uuid.New()

	senderSub, err := b.Subscribe(ctx, UserTopic(sender))
	require.NoError(t, err)
	defer senderSub.Close()
	userSub, err := b.Subscribe(ctx, UserTopic(receiver))
	require.NoError(t, err)
	defer userSub.Close()
	chatSub, err := b.Subscribe(ctx, ChatTopic(chatID))
	require.NoError(t, err)
	defer chatSub.Close()

	n.NotifyNewMessage(&domain.Message{ID: uuid.New(), ChatID: chatID, SenderID: sender, ReceiverID: receiver, Text: "hi"})

	for _, ch := range []<-chan Event{senderSub.C, userSub.C, chatSub.C} {
		evt := recv(t, ch)
		assert.Equal(t, EventMessageNew, evt.Type)
		require.NotNil(t, evt.ChatID)
		assert.Equal(t, chatID, *evt.ChatID)
	}
}
