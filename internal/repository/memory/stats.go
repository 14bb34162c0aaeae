package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

type StatsRepo struct {
	s *Store
}

func (r *StatsRepo) Get(_ context.Context, userID uuid.UUID) (*domain.DashboardStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.data.stats[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *StatsRepo) Adjust(ctx context.Context, userID uuid.UUID, d domain.StatsDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := r.s.data.stats[userID]
	st.UserID = userID
	st.MatchRequests = max(st.MatchRequests+d.MatchRequests, 0)
	st.ActiveMatches = max(st.ActiveMatches+d.ActiveMatches, 0)
	st.MessageCount = max(st.MessageCount+d.MessageCount, 0)
	st.UpdatedAt = time.Now()
	keepKey(r.s, ctx, r.s.data.stats, userID)
	r.s.data.stats[userID] = st
	return nil
}
