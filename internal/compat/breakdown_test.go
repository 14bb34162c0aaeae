package compat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/roomie/internal/domain"
	"go.uber.org/zap"
)

func TestCompute(t *testing.T) {
	a := Profile{
		Hostel: "Hostel-B",
		Answers: domain.Answers{
			"vegOrNonveg":    "veg",
			"cleanOrChill":   "clean",
			"morningOrNight": "morning",
			"acOrFan":        "ac",
			"partyOrRelax":   "relax",
			"city":           "Pune",
			"unknown":        "x",
		},
	}
	b := Profile{
		Hostel: "Hostel-B",
		Answers: domain.Answers{
			"vegOrNonveg":    "veg",
			"cleanOrChill":   "chill",
			"morningOrNight": "morning",
			"acOrFan":        "fan",
			"partyOrRelax":   "relax",
			"unknown":        "x",
		},
	}

	got := Compute(a, b)
	assert.Equal(t, 100, got.Lifestyle)
	assert.Equal(t, 0, got.Cleanliness)
	assert.Equal(t, 50, got.Schedule)
	assert.Equal(t, 100, got.Social)
	assert.Equal(t, 0, got.Values)
	assert.Equal(t, 50, got.Overall)
	assert.Equal(t, "Average", got.Label)
	assert.True(t, got.HousingMatches)
	assert.Equal(t, []string{"morningOrNight", "partyOrRelax", "vegOrNonveg"}, got.Highlights)

	assert.Equal(t, got, Compute(b, a))
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(Profile{}, Profile{})
	assert.Equal(t, 0, got.Overall)
	assert.False(t, got.HousingMatches)
	assert.Empty(t, got.Highlights)
}

func TestProfileOfSkipsIncompleteQuiz(t *testing.T) {
	u := &domain.User{
		QuizAnswers:   domain.Answers{"city": "Pune"},
		QuizCompleted: true,
		ThisOrThat:    domain.Answers{"acOrFan": "ac"},
	}
	p := ProfileOf(u)
	assert.Equal(t, domain.Answers{"city": "Pune"}, p.Answers)
}

func TestRemoteBreakdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req remoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hostel-C", req.User.Hostel)
		json.NewEncoder(w).Encode(Breakdown{Lifestyle: 90, Overall: 90, Highlights: []string{"city"}})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, Local{}, zap.NewNop())
	got, err := r.Breakdown(context.Background(), Profile{Hostel: "Hostel-C"}, Profile{})
	require.NoError(t, err)
	assert.Equal(t, 90, got.Lifestyle)
	assert.Equal(t, "Excellent", got.Label)
}

func TestRemoteFallsBackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := Profile{Answers: domain.Answers{"city": "Pune"}}
	r := NewRemote(srv.URL, Local{}, zap.NewNop())
	for i := 0; i < 5; i++ {
		got, err := r.Breakdown(context.Background(), a, a)
		require.NoError(t, err)
		assert.Equal(t, 100, got.Values)
	}
}
