package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

type MoodRepo struct {
	s *Store
}

func (r *MoodRepo) Create(ctx context.Context, m *domain.Mood) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	keepItem(r.s, ctx, &r.s.data.moods, m.ID, moodID)
	r.s.data.moods = append(r.s.data.moods, *m)
	return nil
}

func (r *MoodRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]domain.Mood, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var moods []domain.Mood
	for _, m := range r.s.data.moods {
		if m.UserID == userID {
			moods = append(moods, m)
		}
	}
	sort.SliceStable(moods, func(i, j int) bool { return moods[i].CreatedAt.After(moods[j].CreatedAt) })
	if len(moods) > limit {
		moods = moods[:limit]
	}
	return moods, nil
}
