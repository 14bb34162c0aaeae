package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/repository"
)

var ErrInvalidMood = errors.New("unknown mood")

type DashboardService struct {
	statsRepo repository.StatsRepository
	unread    *UnreadAggregator
}

func NewDashboardService(statsRepo repository.StatsRepository, unread *UnreadAggregator) *DashboardService {
	return &DashboardService{statsRepo: statsRepo, unread: unread}
}

// Stats returns the stored counters with the live unread message count on top.
// A user without activity gets zeros.
func (s *DashboardService) Stats(ctx context.Context, userID uuid.UUID) (*domain.DashboardStats, error) {
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	if stats == nil {
		stats = &domain.DashboardStats{UserID: userID, UpdatedAt: time.Now()}
	}

	counts, err := s.unread.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.UnreadMessages = counts.UnreadMessages
	return stats, nil
}

type MoodService struct {
	moodRepo repository.MoodRepository
	userRepo repository.UserRepository
}

func NewMoodService(moodRepo repository.MoodRepository, userRepo repository.UserRepository) *MoodService {
	return &MoodService{moodRepo: moodRepo, userRepo: userRepo}
}

type RecordMoodInput struct {
	Mood string `json:"mood" validate:"required"`
	Note string `json:"note" validate:"max=280"`
}

// Record stores a mood entry and makes it the user's current mood.
func (s *MoodService) Record(ctx context.Context, userID uuid.UUID, in RecordMoodInput) (*domain.Mood, error) {
	mood := strings.ToLower(strings.TrimSpace(in.Mood))
	if !slices.Contains(domain.Moods, mood) {
		return nil, ErrInvalidMood
	}

	m := &domain.Mood{
		ID:        uuid.New(),
		UserID:    userID,
		Mood:      mood,
		Note:      strings.TrimSpace(in.Note),
		CreatedAt: time.Now(),
	}
	if err := s.moodRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("recording mood: %w", err)
	}
	if err := s.userRepo.SetMood(ctx, userID, mood); err != nil {
		return nil, fmt.Errorf("updating current mood: %w", err)
	}
	return m, nil
}

func (s *MoodService) History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Mood, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	moods, err := s.moodRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if moods == nil {
		moods = []domain.Mood{}
	}
	return moods, nil
}
