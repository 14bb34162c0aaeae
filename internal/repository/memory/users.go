package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

var ErrDuplicate = errors.New("memory: duplicate key")

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	keepKey(r.s, ctx, r.s.data.users, user.ID)
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[user.ID]
	if !ok {
		return nil
	}
	u.Name = user.Name
	u.Gender = user.Gender
	u.PhotoURL = user.PhotoURL
	u.Bio = user.Bio
	u.Age = user.Age
	u.Occupation = user.Occupation
	u.Hostel = user.Hostel
	u.MoveInDate = user.MoveInDate
	u.UpdatedAt = user.UpdatedAt
	keepKey(r.s, ctx, r.s.data.users, user.ID)
	r.s.data.users[user.ID] = u
	return nil
}

func (r *UserRepo) SaveQuiz(ctx context.Context, userID uuid.UUID, kind domain.QuizKind, answers domain.Answers, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[userID]
	if !ok {
		return nil
	}
	copied := make(domain.Answers, len(answers))
	for k, v := range answers {
		copied[k] = v
	}
	if kind == domain.QuizThisOrThat {
		u.ThisOrThat = copied
		u.ThisOrThatCompleted = true
		u.ThisOrThatCompletedAt = &at
	} else {
		u.QuizAnswers = copied
		u.QuizCompleted = true
		u.QuizCompletedAt = &at
	}
	u.UpdatedAt = at
	keepKey(r.s, ctx, r.s.data.users, userID)
	r.s.data.users[userID] = u
	return nil
}

func (r *UserRepo) SetMood(ctx context.Context, userID uuid.UUID, mood string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.data.users[userID]; ok {
		u.CurrentMood = mood
		keepKey(r.s, ctx, r.s.data.users, userID)
		r.s.data.users[userID] = u
	}
	return nil
}

func (r *UserRepo) ListQuizTakers(_ context.Context, kind domain.QuizKind) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []domain.User
	for _, u := range r.s.data.users {
		if u.AnswersFor(kind) != nil {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}
