package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextCounts(t *testing.T, ch <-chan Counts) Counts {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for counts")
		return Counts{}
	}
}

func TestSnapshotSumsPerChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	withBob, err := f.chats.StartChat(ctx, alice, bob)
	require.NoError(t, err)
	withCarol, err := f.chats.StartChat(ctx, alice, carol)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = f.chats.SendMessage(ctx, bob, withBob.ID, "ping")
		require.NoError(t, err)
	}
	_, err = f.chats.SendMessage(ctx, carol, withCarol.ID, "ping")
	require.NoError(t, err)
	_, err = f.chats.SendMessage(ctx, alice, withCarol.ID, "pong")
	require.NoError(t, err)
	_, err = f.matches.SendRequest(ctx, carol, alice)
	require.NoError(t, err)

	counts, err := f.unread.Snapshot(ctx, alice)
	require.NoError(t, err)

	sum := 0
	for _, n := range counts.PerChat {
		sum += n
	}
	assert.Equal(t, sum, counts.UnreadMessages)
	assert.Equal(t, 3, counts.UnreadMessages)
	assert.Equal(t, 2, counts.PerChat[withBob.ID])
	assert.Equal(t, 1, counts.PendingRequests)
	assert.Equal(t, 1, counts.UnreadNotifications)
}

func TestSnapshotWithoutActivity(t *testing.T) {
	f := newFixture(t)
	counts, err := f.unread.Snapshot(context.Background(), f.user(t, "alice"))
	require.NoError(t, err)
	assert.Zero(t, counts.UnreadMessages)
	assert.Empty(t, counts.PerChat)
}

func TestWatchFollowsChanges(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chat, err := f.chats.StartChat(ctx, alice, bob)
	require.NoError(t, err)

	updates, err := f.unread.Watch(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, nextCounts(t, updates).UnreadMessages)

	_, err = f.chats.SendMessage(ctx, bob, chat.ID, "hi")
	require.NoError(t, err)
	c := nextCounts(t, updates)
	assert.Equal(t, 1, c.UnreadMessages)
	assert.Equal(t, 1, c.PerChat[chat.ID])

	_, err = f.chats.MarkChatRead(ctx, alice, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, nextCounts(t, updates).UnreadMessages)

	// A new chat triggers a resubscribe and its messages are then counted.
	other, err := f.chats.StartChat(ctx, carol, alice)
	require.NoError(t, err)
	c = nextCounts(t, updates)
	assert.Contains(t, c.PerChat, other.ID)

	_, err = f.chats.SendMessage(ctx, carol, other.ID, "hello")
	require.NoError(t, err)
	c = nextCounts(t, updates)
	assert.Equal(t, 1, c.PerChat[other.ID])

	_, err = f.matches.SendRequest(ctx, bob, alice)
	require.NoError(t, err)
	c = nextCounts(t, updates)
	assert.Equal(t, 1, c.PendingRequests)

	cancel()
	select {
	case _, ok := <-updates:
		for ok {
			_, ok = <-updates
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
