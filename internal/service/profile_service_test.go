package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/roomie/internal/domain"
)

func TestSubmitQuizDropsBlankAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	_, err := f.profiles.SubmitQuiz(ctx, alice, "personality", domain.Answers{"a": "b"})
	assert.ErrorIs(t, err, ErrInvalidQuizKind)
	_, err = f.profiles.SubmitQuiz(ctx, alice, domain.QuizPrimary, domain.Answers{"cleanOrChill": " "})
	assert.ErrorIs(t, err, ErrEmptyAnswers)

	u, err := f.profiles.SubmitQuiz(ctx, alice, domain.QuizPrimary, domain.Answers{
		"cleanOrChill":   "clean",
		"morningOrNight": "",
	})
	require.NoError(t, err)
	assert.True(t, u.QuizCompleted)
	assert.Equal(t, domain.Answers{"cleanOrChill": "clean"}, u.QuizAnswers)
	assert.False(t, u.ThisOrThatCompleted)
}

func TestCompatibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.profiles.SubmitQuiz(ctx, alice, domain.QuizPrimary, domain.Answers{
		"cleanOrChill": "clean", "morningOrNight": "morning", "acOrFan": "ac",
	})
	require.NoError(t, err)

	_, err = f.profiles.Compatibility(ctx, alice, bob, domain.QuizPrimary)
	assert.ErrorIs(t, err, ErrQuizIncomplete)

	_, err = f.profiles.SubmitQuiz(ctx, bob, domain.QuizPrimary, domain.Answers{
		"cleanOrChill": "clean", "morningOrNight": "night", "acOrFan": "ac", "city": "Pune",
	})
	require.NoError(t, err)

	score, err := f.profiles.Compatibility(ctx, alice, bob, domain.QuizPrimary)
	require.NoError(t, err)
	assert.Equal(t, 67, score)

	reverse, err := f.profiles.Compatibility(ctx, bob, alice, domain.QuizPrimary)
	require.NoError(t, err)
	assert.Equal(t, score, reverse)

	_, err = f.profiles.Compatibility(ctx, alice, bob, domain.QuizThisOrThat)
	assert.ErrorIs(t, err, ErrQuizIncomplete)
}

func TestCandidatesRankedAndFiltered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol, dave := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol"), f.user(t, "dave")
	f.user(t, "erin") // never took the quiz

	for _, tc := range []struct {
		id      uuid.UUID
		answers domain.Answers
	}{
		{alice, domain.Answers{"q1": "a", "q2": "a"}},
		{bob, domain.Answers{"q1": "b", "q2": "a"}},
		{carol, domain.Answers{"q1": "a", "q2": "a"}},
		{dave, domain.Answers{"q1": "b", "q2": "b"}},
	} {
		_, err := f.profiles.SubmitQuiz(ctx, tc.id, domain.QuizPrimary, tc.answers)
		require.NoError(t, err)
	}

	candidates, err := f.profiles.Candidates(ctx, alice, domain.QuizPrimary)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, carol, candidates[0].ID)
	assert.Equal(t, 100, candidates[0].Score)
	assert.Equal(t, "Excellent", candidates[0].Label)
	assert.Equal(t, bob, candidates[1].ID)
	assert.Equal(t, 50, candidates[1].Score)
	assert.Equal(t, dave, candidates[2].ID)
	assert.Equal(t, 0, candidates[2].Score)

	req, err := f.matches.SendRequest(ctx, alice, carol)
	require.NoError(t, err)
	_, err = f.matches.Respond(ctx, carol, req.ID, ActionAccept)
	require.NoError(t, err)

	candidates, err = f.profiles.Candidates(ctx, alice, domain.QuizPrimary)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, bob, candidates[0].ID)
}

func TestBreakdownNeedsAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.profiles.Breakdown(ctx, alice, bob)
	assert.ErrorIs(t, err, ErrQuizIncomplete)

	_, err = f.profiles.SubmitQuiz(ctx, alice, domain.QuizPrimary, domain.Answers{"cleanOrChill": "clean"})
	require.NoError(t, err)
	_, err = f.profiles.SubmitQuiz(ctx, bob, domain.QuizThisOrThat, domain.Answers{"teaOrCoffee": "tea"})
	require.NoError(t, err)
	_, err = f.profiles.SubmitQuiz(ctx, alice, domain.QuizThisOrThat, domain.Answers{"teaOrCoffee": "tea"})
	require.NoError(t, err)

	b, err := f.profiles.Breakdown(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, 100, b.Lifestyle)
	assert.Equal(t, 0, b.Cleanliness)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	name, bio := "  Alice B ", "night owl"
	u, err := f.profiles.Update(ctx, alice, domain.ProfileUpdate{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", u.Name)
	assert.Equal(t, "night owl", u.Bio)

	_, err = f.profiles.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
