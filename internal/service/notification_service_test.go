package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/roomie/internal/domain"
)

func TestFeedCombinesSources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	req, err := f.matches.SendRequest(ctx, bob, alice)
	require.NoError(t, err)

	chat, err := f.chats.StartChat(ctx, carol, alice)
	require.NoError(t, err)
	msg, err := f.chats.SendMessage(ctx, carol, chat.ID, "are you still looking?")
	require.NoError(t, err)

	// Once alice accepts, carol has an unread acceptance and the request leaves alice's feed.
	toCarol, err := f.matches.SendRequest(ctx, carol, alice)
	require.NoError(t, err)
	_, err = f.matches.Respond(ctx, alice, toCarol.ID, ActionAccept)
	require.NoError(t, err)

	feed, err := f.notifs.Feed(ctx, alice)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	byID := map[string]FeedItem{}
	for _, item := range feed {
		byID[item.ID] = item
	}
	require.Contains(t, byID, req.ID.String())
	assert.Equal(t, domain.NotificationMatchRequest, byID[req.ID.String()].Type)
	assert.Equal(t, "bob", byID[req.ID.String()].SenderName)

	require.Contains(t, byID, msg.ID.String())
	item := byID[msg.ID.String()]
	assert.Equal(t, domain.NotificationMessage, item.Type)
	assert.Equal(t, "carol", item.SenderName)
	require.NotNil(t, item.ChatID)
	assert.Equal(t, chat.ID, *item.ChatID)

	carolFeed, err := f.notifs.Feed(ctx, carol)
	require.NoError(t, err)
	require.Len(t, carolFeed, 1)
	assert.Equal(t, domain.NotificationMatchAccepted, carolFeed[0].Type)
}

func TestDismissHidesFeedItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	chat, err := f.chats.StartChat(ctx, bob, alice)
	require.NoError(t, err)
	msg, err := f.chats.SendMessage(ctx, bob, chat.ID, "hi")
	require.NoError(t, err)

	assert.ErrorIs(t, f.notifs.Dismiss(ctx, alice, " "), ErrEmptyItemID)
	require.NoError(t, f.notifs.Dismiss(ctx, alice, msg.ID.String()))

	feed, err := f.notifs.Feed(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, feed)

	// Dismissing does not mark the message itself read.
	counts, err := f.unread.Snapshot(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.UnreadMessages)
}

func TestNotificationMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	_, err := f.matches.SendRequest(ctx, bob, alice)
	require.NoError(t, err)
	_, err = f.matches.SendRequest(ctx, carol, alice)
	require.NoError(t, err)

	list, err := f.notifs.List(ctx, alice, true)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.ErrorIs(t, f.notifs.MarkRead(ctx, bob, list[0].ID), ErrNotificationNotFound)
	assert.ErrorIs(t, f.notifs.MarkRead(ctx, alice, uuid.New()), ErrNotificationNotFound)
	require.NoError(t, f.notifs.MarkRead(ctx, alice, list[0].ID))

	list, err = f.notifs.List(ctx, alice, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := f.notifs.MarkAllRead(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err = f.notifs.List(ctx, alice, true)
	require.NoError(t, err)
	assert.Empty(t, list)

	all, err := f.notifs.List(ctx, alice, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
