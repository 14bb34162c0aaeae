package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/compat"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/repository"
)

var (
	ErrQuizIncomplete  = errors.New("both users must complete the quiz")
	ErrInvalidQuizKind = errors.New("unknown quiz kind")
	ErrEmptyAnswers    = errors.New("quiz has no answers")
)

type ProfileService struct {
	userRepo  repository.UserRepository
	matchRepo repository.MatchRepository
	breakdown compat.Provider
}

func NewProfileService(userRepo repository.UserRepository, matchRepo repository.MatchRepository, breakdown compat.Provider) *ProfileService {
	return &ProfileService{
		userRepo:  userRepo,
		matchRepo: matchRepo,
		breakdown: breakdown,
	}
}

// Candidate is another quiz taker ranked by compatibility with the caller.
type Candidate struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Gender      string    `json:"gender,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Hostel      string    `json:"hostel,omitempty"`
	CurrentMood string    `json:"current_mood,omitempty"`
	Score       int       `json:"compatibility"`
	Label       string    `json:"label"`
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Gender != nil {
		user.Gender = *in.Gender
	}
	if in.PhotoURL != nil {
		user.PhotoURL = in.PhotoURL
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Age != nil {
		user.Age = in.Age
	}
	if in.Occupation != nil {
		user.Occupation = *in.Occupation
	}
	if in.Hostel != nil {
		user.Hostel = *in.Hostel
	}
	if in.MoveInDate != nil {
		user.MoveInDate = in.MoveInDate
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

// SubmitQuiz replaces the user's answers for one quiz. Blank answers count as unanswered.
func (s *ProfileService) SubmitQuiz(ctx context.Context, userID uuid.UUID, kind domain.QuizKind, answers domain.Answers) (*domain.User, error) {
	if !kind.Valid() {
		return nil, ErrInvalidQuizKind
	}

	cleaned := make(domain.Answers, len(answers))
	for q, v := range answers {
		q, v = strings.TrimSpace(q), strings.TrimSpace(v)
		if q == "" || v == "" {
			continue
		}
		cleaned[q] = v
	}
	if len(cleaned) == 0 {
		return nil, ErrEmptyAnswers
	}

	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveQuiz(ctx, userID, kind, cleaned, time.Now()); err != nil {
		return nil, fmt.Errorf("saving quiz: %w", err)
	}
	return s.Get(ctx, userID)
}

// Compatibility scores two users on one quiz. It fails with ErrQuizIncomplete
// unless both completed that quiz, so a zero score always means disagreement.
func (s *ProfileService) Compatibility(ctx context.Context, userID, otherID uuid.UUID, kind domain.QuizKind) (int, error) {
	if !kind.Valid() {
		return 0, ErrInvalidQuizKind
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	other, err := s.Get(ctx, otherID)
	if err != nil {
		return 0, err
	}

	a, b := user.AnswersFor(kind), other.AnswersFor(kind)
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrQuizIncomplete
	}
	return compat.Score(a, b), nil
}

// Candidates lists other quiz takers by descending compatibility, leaving out
// the caller and users already matched with them.
func (s *ProfileService) Candidates(ctx context.Context, userID uuid.UUID, kind domain.QuizKind) ([]Candidate, error) {
	if !kind.Valid() {
		return nil, ErrInvalidQuizKind
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	mine := user.AnswersFor(kind)
	if len(mine) == 0 {
		return nil, ErrQuizIncomplete
	}

	takers, err := s.userRepo.ListQuizTakers(ctx, kind)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	matched := make(map[uuid.UUID]struct{}, len(matches))
	for _, m := range matches {
		matched[m.OtherUserID] = struct{}{}
	}

	candidates := []Candidate{}
	for _, u := range takers {
		if u.ID == userID {
			continue
		}
		if _, ok := matched[u.ID]; ok {
			continue
		}
		score := compat.Score(mine, u.AnswersFor(kind))
		candidates = append(candidates, Candidate{
			ID:          u.ID,
			Name:        displayName(&u),
			Gender:      u.Gender,
			PhotoURL:    u.PhotoURL,
			Bio:         u.Bio,
			Hostel:      u.Hostel,
			CurrentMood: u.CurrentMood,
			Score:       score,
			Label:       compat.Label(score),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	return candidates, nil
}

// Breakdown scores two users per dimension across both quizzes.
func (s *ProfileService) Breakdown(ctx context.Context, userID, otherID uuid.UUID) (*compat.Breakdown, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.Get(ctx, otherID)
	if err != nil {
		return nil, err
	}

	a, b := compat.ProfileOf(user), compat.ProfileOf(other)
	if len(a.Answers) == 0 || len(b.Answers) == 0 {
		return nil, ErrQuizIncomplete
	}
	return s.breakdown.Breakdown(ctx, a, b)
}
