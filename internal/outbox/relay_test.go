package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/repository/memory"
	"go.uber.org/zap"
)

type fakeProducer struct {
	mu   sync.Mutex
	got  []domain.OutboxEvent
	fail error
}

func (p *fakeProducer) Publish(_ context.Context, events []domain.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.got = append(p.got, events...)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func (p *fakeProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

func addEvents(t *testing.T, repo *memory.OutboxRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		evt, err := domain.NewOutboxEvent(domain.EventMessageSent, "chat-1", map[string]int{"n": i})
		require.NoError(t, err)
		require.NoError(t, repo.Add(context.Background(), evt))
	}
}

func TestFlushPublishesAndMarks(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Outbox()
	addEvents(t, repo, 3)

	p := &fakeProducer{}
	relay := NewRelay(repo, p, time.Second, zap.NewNop())

	n, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, p.count())

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	n, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFlushFailureKeepsEventsPending(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Outbox()
	addEvents(t, repo, 2)

	p := &fakeProducer{fail: errors.New("broker down")}
	relay := NewRelay(repo, p, time.Second, zap.NewNop())

	_, err := relay.Flush(ctx)
	require.Error(t, err)

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	p.fail = nil
	n, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := memory.NewStore().Outbox()
	addEvents(t, repo, 1)
	p := &fakeProducer{}
	relay := NewRelay(repo, p, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.count() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
