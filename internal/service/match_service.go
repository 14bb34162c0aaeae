package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/metrics"
	"github.com/vedran77/roomie/internal/repository"
)

var (
	ErrCannotRequestSelf  = errors.New("cannot send a match request to yourself")
	ErrAlreadyMatched     = errors.New("you are already matched")
	ErrRequestNotFound    = errors.New("match request not found")
	ErrNotRequestReceiver = errors.New("only the request receiver can respond")
	ErrRequestNotPending  = errors.New("match request was already answered")
	ErrInvalidAction      = errors.New("action must be accept or reject")
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

type MatchService struct {
	tx        repository.Transactor
	userRepo  repository.UserRepository
	matchRepo repository.MatchRepository
	notifRepo repository.NotificationRepository
	statsRepo repository.StatsRepository
	outbox    repository.OutboxRepository
	notifier  Notifier
}

func NewMatchService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	matchRepo repository.MatchRepository,
	notifRepo repository.NotificationRepository,
	statsRepo repository.StatsRepository,
	outbox repository.OutboxRepository,
) *MatchService {
	return &MatchService{
		tx:        tx,
		userRepo:  userRepo,
		matchRepo: matchRepo,
		notifRepo: notifRepo,
		statsRepo: statsRepo,
		outbox:    outbox,
		notifier:  nopNotifier{},
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MatchService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SendRequest opens a request from sender to receiver. Sending again while the
// request is pending returns it unchanged; a rejected request is reopened.
func (s *MatchService) SendRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.MatchRequest, error) {
	if senderID == receiverID {
		return nil, ErrCannotRequestSelf
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("looking up sender: %w", err)
	}
	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("looking up receiver: %w", err)
	}
	if sender == nil || receiver == nil {
		return nil, ErrUserNotFound
	}

	var (
		req   *domain.MatchRequest
		notif *domain.Notification
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		matched, err := s.matchRepo.AreMatched(ctx, senderID, receiverID)
		if err != nil {
			return err
		}
		if matched {
			return ErrAlreadyMatched
		}

		now := time.Now()
		req = &domain.MatchRequest{
			ID:         uuid.New(),
			SenderID:   senderID,
			ReceiverID: receiverID,
			SenderName: displayName(sender),
			Status:     domain.RequestPending,
			CreatedAt:  now,
		}
		written, err := s.matchRepo.UpsertRequest(ctx, req)
		if err != nil {
			return fmt.Errorf("writing match request: %w", err)
		}
		if !written {
			// Already pending: hand back the stored request with no side effects.
			req, err = s.matchRepo.GetRequestByUsers(ctx, senderID, receiverID)
			return err
		}

		notif = &domain.Notification{
			ID:         uuid.New(),
			UserID:     receiverID,
			Type:       domain.NotificationMatchRequest,
			SenderID:   senderID,
			SenderName: req.SenderName,
			Message:    fmt.Sprintf("%s sent you a match request", req.SenderName),
			CreatedAt:  now,
		}
		if err := s.notifRepo.Create(ctx, notif); err != nil {
			return fmt.Errorf("creating notification: %w", err)
		}

		for _, id := range []uuid.UUID{senderID, receiverID} {
			if err := s.statsRepo.Adjust(ctx, id, domain.StatsDelta{MatchRequests: 1}); err != nil {
				return fmt.Errorf("adjusting stats: %w", err)
			}
		}

		return s.addEvent(ctx, domain.EventMatchRequested, req)
	})
	if err != nil {
		return nil, err
	}

	if notif != nil {
		metrics.MatchRequestsSent.Inc()
		s.notifier.NotifyMatchRequest(req)
		s.notifier.NotifyNotification(notif)
	}
	return req, nil
}

// Respond accepts or rejects a pending request. Only the receiver may respond,
// and only once.
func (s *MatchService) Respond(ctx context.Context, userID, requestID uuid.UUID, action string) (*domain.MatchRequest, error) {
	var to string
	switch action {
	case ActionAccept:
		to = domain.RequestAccepted
	case ActionReject:
		to = domain.RequestRejected
	default:
		return nil, ErrInvalidAction
	}

	req, err := s.matchRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.ReceiverID != userID {
		return nil, ErrNotRequestReceiver
	}

	receiver, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	name := "Someone"
	if receiver != nil {
		name = displayName(receiver)
	}

	var notif *domain.Notification
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := time.Now()
		ok, err := s.matchRepo.TransitionRequest(ctx, requestID, domain.RequestPending, to, now)
		if err != nil {
			return fmt.Errorf("updating request status: %w", err)
		}
		if !ok {
			return ErrRequestNotPending
		}
		req.Status = to
		req.RespondedAt = &now

		if err := s.notifRepo.MarkReadBySender(ctx, userID, req.SenderID, domain.NotificationMatchRequest); err != nil {
			return fmt.Errorf("marking request notifications read: %w", err)
		}

		notif = &domain.Notification{
			ID:         uuid.New(),
			UserID:     req.SenderID,
			SenderID:   userID,
			SenderName: name,
			CreatedAt:  now,
		}

		eventType := domain.EventMatchRejected
		if to == domain.RequestAccepted {
			eventType = domain.EventMatchAccepted
			notif.Type = domain.NotificationMatchAccepted
			notif.Message = fmt.Sprintf("%s accepted your match request", name)

			if err := s.acceptPair(ctx, req, now); err != nil {
				return err
			}
		} else {
			notif.Type = domain.NotificationMatchRejected
			notif.Message = fmt.Sprintf("%s rejected your match request", name)

			if err := s.statsRepo.Adjust(ctx, req.ReceiverID, domain.StatsDelta{MatchRequests: -1}); err != nil {
				return fmt.Errorf("adjusting stats: %w", err)
			}
		}

		if err := s.notifRepo.Create(ctx, notif); err != nil {
			return fmt.Errorf("creating notification: %w", err)
		}
		return s.addEvent(ctx, eventType, req)
	})
	if err != nil {
		return nil, err
	}

	metrics.MatchResponses.WithLabelValues(action).Inc()
	s.notifier.NotifyMatchResponse(req)
	s.notifier.NotifyNotification(notif)
	return req, nil
}

// acceptPair records the match for an accepted request. A pending request in the
// opposite direction is accepted with it, so the pair is counted once.
func (s *MatchService) acceptPair(ctx context.Context, req *domain.MatchRequest, now time.Time) error {
	matched, err := s.matchRepo.AreMatched(ctx, req.SenderID, req.ReceiverID)
	if err != nil {
		return err
	}

	delta := domain.StatsDelta{MatchRequests: -1}
	if !matched {
		for _, m := range []*domain.Match{
			{UserID: req.SenderID, OtherUserID: req.ReceiverID, Status: domain.MatchActive, MatchedAt: now},
			{UserID: req.ReceiverID, OtherUserID: req.SenderID, Status: domain.MatchActive, MatchedAt: now},
		} {
			if err := s.matchRepo.CreateMatch(ctx, m); err != nil {
				return fmt.Errorf("creating match: %w", err)
			}
		}
		delta.ActiveMatches = 1
	}
	for _, id := range []uuid.UUID{req.SenderID, req.ReceiverID} {
		if err := s.statsRepo.Adjust(ctx, id, delta); err != nil {
			return fmt.Errorf("adjusting stats: %w", err)
		}
	}

	reverse, err := s.matchRepo.GetRequestByUsers(ctx, req.ReceiverID, req.SenderID)
	if err != nil {
		return err
	}
	if reverse == nil || reverse.Status != domain.RequestPending {
		return nil
	}
	ok, err := s.matchRepo.TransitionRequest(ctx, reverse.ID, domain.RequestPending, domain.RequestAccepted, now)
	if err != nil {
		return fmt.Errorf("closing reverse request: %w", err)
	}
	if !ok {
		return nil
	}
	if err := s.notifRepo.MarkReadBySender(ctx, req.SenderID, req.ReceiverID, domain.NotificationMatchRequest); err != nil {
		return fmt.Errorf("marking request notifications read: %w", err)
	}
	for _, id := range []uuid.UUID{req.SenderID, req.ReceiverID} {
		if err := s.statsRepo.Adjust(ctx, id, domain.StatsDelta{MatchRequests: -1}); err != nil {
			return fmt.Errorf("adjusting stats: %w", err)
		}
	}
	return nil
}

// ListIncoming returns pending requests received by the user.
func (s *MatchService) ListIncoming(ctx context.Context, userID uuid.UUID) ([]domain.MatchRequest, error) {
	reqs, err := s.matchRepo.ListIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.MatchRequest{}
	}
	return reqs, nil
}

// ListOutgoing returns every request the user sent, whatever its status.
func (s *MatchService) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]domain.MatchRequest, error) {
	reqs, err := s.matchRepo.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.MatchRequest{}
	}
	return reqs, nil
}

func (s *MatchService) ListMatches(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	matches, err := s.matchRepo.ListMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []domain.Match{}
	}
	return matches, nil
}

func (s *MatchService) addEvent(ctx context.Context, eventType string, req *domain.MatchRequest) error {
	evt, err := domain.NewOutboxEvent(eventType, req.ID.String(), req)
	if err != nil {
		return err
	}
	if err := s.outbox.Add(ctx, evt); err != nil {
		return fmt.Errorf("adding outbox event: %w", err)
	}
	return nil
}
