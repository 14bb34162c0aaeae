package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/live"
	"github.com/vedran77/roomie/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Counts is the unread state shown in the navbar badges.
type Counts struct {
	PendingRequests     int               `json:"pending_requests"`
	UnreadMessages      int               `json:"unread_messages"`
	UnreadNotifications int               `json:"unread_notifications"`
	PerChat             map[uuid.UUID]int `json:"per_chat"`
}

func (c Counts) Equal(o Counts) bool {
	return c.PendingRequests == o.PendingRequests &&
		c.UnreadMessages == o.UnreadMessages &&
		c.UnreadNotifications == o.UnreadNotifications &&
		maps.Equal(c.PerChat, o.PerChat)
}

func (c Counts) clone() Counts {
	c.PerChat = maps.Clone(c.PerChat)
	return c
}

func (c *Counts) sumMessages() {
	c.UnreadMessages = 0
	for _, n := range c.PerChat {
		c.UnreadMessages += n
	}
}

// UnreadAggregator computes unread counts and keeps them current from live events.
type UnreadAggregator struct {
	chatRepo  repository.ChatRepository
	matchRepo repository.MatchRepository
	notifRepo repository.NotificationRepository
	broker    live.Broker
	log       *zap.Logger
}

func NewUnreadAggregator(
	chatRepo repository.ChatRepository,
	matchRepo repository.MatchRepository,
	notifRepo repository.NotificationRepository,
	broker live.Broker,
	logger *zap.Logger,
) *UnreadAggregator {
	return &UnreadAggregator{
		chatRepo:  chatRepo,
		matchRepo: matchRepo,
		notifRepo: notifRepo,
		broker:    broker,
		log:       logger,
	}
}

// Snapshot counts everything once. Per-chat counts are queried concurrently and
// the total is only summed after all of them returned.
func (a *UnreadAggregator) Snapshot(ctx context.Context, userID uuid.UUID) (Counts, error) {
	chats, err := a.chatRepo.ListChats(ctx, userID)
	if err != nil {
		return Counts{}, fmt.Errorf("listing chats: %w", err)
	}

	perChat := make([]int, len(chats))
	var counts Counts

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range chats {
		g.Go(func() error {
			n, err := a.chatRepo.CountUnread(gctx, c.ID, userID)
			perChat[i] = n
			return err
		})
	}
	g.Go(func() error {
		n, err := a.matchRepo.CountPending(gctx, userID)
		counts.PendingRequests = n
		return err
	})
	g.Go(func() error {
		n, err := a.notifRepo.CountUnread(gctx, userID)
		counts.UnreadNotifications = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Counts{}, fmt.Errorf("counting unread: %w", err)
	}

	counts.PerChat = make(map[uuid.UUID]int, len(chats))
	for i, c := range chats {
		counts.PerChat[c.ID] = perChat[i]
	}
	counts.sumMessages()
	return counts, nil
}

// Watch emits the current counts and then every change until ctx is done.
func (a *UnreadAggregator) Watch(ctx context.Context, userID uuid.UUID) (<-chan Counts, error) {
	subs, counts, err := a.subscribe(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(chan Counts, 1)
	out <- counts.clone()
	go a.watch(ctx, userID, subs, counts, out)
	return out, nil
}

// subscribe listens on the user topic before taking the snapshot so no change
// between the two is lost, then adds one subscription per known chat.
func (a *UnreadAggregator) subscribe(ctx context.Context, userID uuid.UUID) ([]*live.Subscription, Counts, error) {
	userSub, err := a.broker.Subscribe(ctx, live.UserTopic(userID))
	if err != nil {
		return nil, Counts{}, fmt.Errorf("subscribing to user topic: %w", err)
	}
	subs := []*live.Subscription{userSub}

	counts, err := a.Snapshot(ctx, userID)
	if err != nil {
		closeAll(subs)
		return nil, Counts{}, err
	}

	for chatID := range counts.PerChat {
		sub, err := a.broker.Subscribe(ctx, live.ChatTopic(chatID))
		if err != nil {
			closeAll(subs)
			return nil, Counts{}, fmt.Errorf("subscribing to chat topic: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, counts, nil
}

func closeAll(subs []*live.Subscription) {
	for _, s := range subs {
		s.Close()
	}
}

func (a *UnreadAggregator) watch(ctx context.Context, userID uuid.UUID, subs []*live.Subscription, counts Counts, out chan<- Counts) {
	defer close(out)

	for {
		streams := make([]<-chan live.Event, len(subs))
		for i, s := range subs {
			streams[i] = s.C
		}

		mctx, cancel := context.WithCancel(ctx)
		resubscribe := a.consume(mctx, userID, live.Merge(mctx, streams...), &counts, out)
		cancel()
		closeAll(subs)

		if !resubscribe || ctx.Err() != nil {
			return
		}

		var err error
		subs, counts, err = a.subscribe(ctx, userID)
		if err != nil {
			a.log.Error("unread watch: resubscribe failed", zap.String("user_id", userID.String()), zap.Error(err))
			return
		}
		if !emit(ctx, out, counts) {
			closeAll(subs)
			return
		}
	}
}

// consume applies events to counts until the stream ends or a new chat needs a
// fresh subscription, in which case it returns true.
func (a *UnreadAggregator) consume(ctx context.Context, userID uuid.UUID, events <-chan live.Event, counts *Counts, out chan<- Counts) bool {
	for {
		var evt live.Event
		select {
		case <-ctx.Done():
			return false
		case e, ok := <-events:
			if !ok {
				return false
			}
			evt = e
		}

		next := counts.clone()
		var err error

		switch evt.Type {
		case live.EventChatCreated:
			return true
		case live.EventMessageNew, live.EventMessagesRead:
			if evt.ChatID == nil {
				next, err = a.Snapshot(ctx, userID)
				break
			}
			if _, known := next.PerChat[*evt.ChatID]; !known {
				return true
			}
			var n int
			n, err = a.chatRepo.CountUnread(ctx, *evt.ChatID, userID)
			next.PerChat[*evt.ChatID] = n
			next.sumMessages()
		case live.EventMatchRequest, live.EventMatchResponse, live.EventNotification:
			next.PendingRequests, err = a.matchRepo.CountPending(ctx, userID)
			if err == nil {
				next.UnreadNotifications, err = a.notifRepo.CountUnread(ctx, userID)
			}
		default:
			continue
		}

		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			a.log.Warn("unread watch: recount failed",
				zap.String("user_id", userID.String()), zap.String("event", evt.Type), zap.Error(err))
			continue
		}
		if next.Equal(*counts) {
			continue
		}
		*counts = next
		if !emit(ctx, out, next.clone()) {
			return false
		}
	}
}

func emit(ctx context.Context, out chan<- Counts, c Counts) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}
