package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

type MatchRepo struct {
	s *Store
}

func (r *MatchRepo) UpsertRequest(ctx context.Context, req *domain.MatchRequest) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, existing := range r.s.data.requests {
		if existing.SenderID == req.SenderID && existing.ReceiverID == req.ReceiverID {
			if existing.Status == domain.RequestPending {
				return false, nil
			}
			req.ID = id
			break
		}
	}
	stored := *req
	stored.ReceiverName = ""
	keepKey(r.s, ctx, r.s.data.requests, req.ID)
	r.s.data.requests[req.ID] = stored
	return true, nil
}

func (r *MatchRepo) GetRequestByID(_ context.Context, id uuid.UUID) (*domain.MatchRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.data.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *MatchRepo) GetRequestByUsers(_ context.Context, senderID, receiverID uuid.UUID) (*domain.MatchRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, req := range r.s.data.requests {
		if req.SenderID == senderID && req.ReceiverID == receiverID {
			return &req, nil
		}
	}
	return nil, nil
}

func (r *MatchRepo) ListIncoming(_ context.Context, userID uuid.UUID) ([]domain.MatchRequest, error) {
	return r.list(func(req domain.MatchRequest) bool {
		return req.ReceiverID == userID && req.Status == domain.RequestPending
	}), nil
}

func (r *MatchRepo) ListOutgoing(_ context.Context, userID uuid.UUID) ([]domain.MatchRequest, error) {
	return r.list(func(req domain.MatchRequest) bool {
		return req.SenderID == userID
	}), nil
}

func (r *MatchRepo) list(keep func(domain.MatchRequest) bool) []domain.MatchRequest {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var reqs []domain.MatchRequest
	for _, req := range r.s.data.requests {
		if keep(req) {
			req.ReceiverName = r.s.data.users[req.ReceiverID].Name
			reqs = append(reqs, req)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs
}

func (r *MatchRepo) CountPending(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, req := range r.s.data.requests {
		if req.ReceiverID == userID && req.Status == domain.RequestPending {
			n++
		}
	}
	return n, nil
}

func (r *MatchRepo) TransitionRequest(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.data.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	req.RespondedAt = &at
	keepKey(r.s, ctx, r.s.data.requests, id)
	r.s.data.requests[id] = req
	return true, nil
}

func (r *MatchRepo) CreateMatch(ctx context.Context, m *domain.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pairKey{m.UserID, m.OtherUserID}
	if _, ok := r.s.data.matches[key]; ok {
		return nil
	}
	stored := *m
	stored.OtherName = ""
	stored.OtherPhotoURL = nil
	keepKey(r.s, ctx, r.s.data.matches, key)
	r.s.data.matches[key] = stored
	return nil
}

func (r *MatchRepo) ListMatches(_ context.Context, userID uuid.UUID) ([]domain.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matches []domain.Match
	for key, m := range r.s.data.matches {
		if key.a != userID {
			continue
		}
		other := r.s.data.users[m.OtherUserID]
		m.OtherName = other.Name
		m.OtherPhotoURL = other.PhotoURL
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchedAt.After(matches[j].MatchedAt) })
	return matches, nil
}

func (r *MatchRepo) AreMatched(_ context.Context, userA, userB uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.data.matches[pairKey{userA, userB}]
	return ok, nil
}
