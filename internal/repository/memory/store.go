// Package memory keeps every repository in process. It backs tests and the
// memory store driver.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/domain"
)

type pairKey struct {
	a, b uuid.UUID
}

type state struct {
	users         map[uuid.UUID]domain.User
	requests      map[uuid.UUID]domain.MatchRequest
	matches       map[pairKey]domain.Match
	notifications []domain.Notification
	chats         map[uuid.UUID]domain.Chat
	messages      []domain.Message
	stats         map[uuid.UUID]domain.DashboardStats
	moods         []domain.Mood
	outbox        []domain.OutboxEvent
}

func newState() state {
	return state{
		users:    make(map[uuid.UUID]domain.User),
		requests: make(map[uuid.UUID]domain.MatchRequest),
		matches:  make(map[pairKey]domain.Match),
		chats:    make(map[uuid.UUID]domain.Chat),
		stats:    make(map[uuid.UUID]domain.DashboardStats),
	}
}

// Store is the shared state behind all memory repositories.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

type txKey struct{}

// txLog collects undo steps for the writes made inside one transaction.
type txLog struct {
	undo []func()
}

// WithinTx serializes transactions. When fn fails, the writes made through its
// ctx are undone in reverse order; writes made outside the transaction stay.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		for i := len(log.undo) - 1; i >= 0; i-- {
			log.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// record registers an undo step when ctx belongs to a transaction. Callers hold mu.
func (s *Store) record(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*txLog); ok {
		log.undo = append(log.undo, undo)
	}
}

// keepKey remembers m[k] so a rollback can restore or remove it.
func keepKey[K comparable, V any](s *Store, ctx context.Context, m map[K]V, k K) {
	prev, existed := m[k]
	s.record(ctx, func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	})
}

// keepItem remembers the element of *list with the given id so a rollback can
// restore it, or drop it if it was added inside the transaction. Elements are
// found by id because other writers may append meanwhile.
func keepItem[T any](s *Store, ctx context.Context, list *[]T, id uuid.UUID, idOf func(T) uuid.UUID) {
	var prev T
	existed := false
	for _, v := range *list {
		if idOf(v) == id {
			prev, existed = v, true
			break
		}
	}
	s.record(ctx, func() {
		for i, v := range *list {
			if idOf(v) != id {
				continue
			}
			if existed {
				(*list)[i] = prev
			} else {
				*list = append((*list)[:i], (*list)[i+1:]...)
			}
			return
		}
	})
}

func notificationID(n domain.Notification) uuid.UUID { return n.ID }
func messageID(m domain.Message) uuid.UUID           { return m.ID }
func moodID(m domain.Mood) uuid.UUID                 { return m.ID }
func outboxID(e domain.OutboxEvent) uuid.UUID        { return e.ID }

func (s *Store) Users() *UserRepo { return &UserRepo{s} }
func (s *Store) Matches() *MatchRepo { return &MatchRepo{s} }
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s} }
func (s *Store) Chats() *ChatRepo { return &ChatRepo{s} }
func (s *Store) Stats() *StatsRepo { return &StatsRepo{s} }
func (s *Store) Moods() *MoodRepo { return &MoodRepo{s} }
func (s *Store) Outbox() *OutboxRepo { return &OutboxRepo{s} }
