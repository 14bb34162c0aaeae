package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	empty, err := f.stats.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, empty.MatchRequests)
	assert.Zero(t, empty.ActiveMatches)
	assert.Zero(t, empty.UnreadMessages)

	req, err := f.matches.SendRequest(ctx, bob, alice)
	require.NoError(t, err)
	_, err = f.matches.Respond(ctx, alice, req.ID, ActionAccept)
	require.NoError(t, err)

	chat, err := f.chats.StartChat(ctx, bob, alice)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = f.chats.SendMessage(ctx, bob, chat.ID, "hi")
		require.NoError(t, err)
	}

	stats, err := f.stats.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.MatchRequests)
	assert.Equal(t, 1, stats.ActiveMatches)
	assert.Equal(t, 2, stats.MessageCount)
	assert.Equal(t, 2, stats.UnreadMessages)
}

func TestMoodRecordAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	_, err := f.moods.Record(ctx, alice, RecordMoodInput{Mood: "ecstatic"})
	assert.ErrorIs(t, err, ErrInvalidMood)

	_, err = f.moods.Record(ctx, alice, RecordMoodInput{Mood: "tired"})
	require.NoError(t, err)
	m, err := f.moods.Record(ctx, alice, RecordMoodInput{Mood: " Great ", Note: "exams done"})
	require.NoError(t, err)
	assert.Equal(t, "great", m.Mood)

	u, err := f.profiles.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "great", u.CurrentMood)

	history, err := f.moods.History(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "great", history[0].Mood)

	history, err = f.moods.History(ctx, alice, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
