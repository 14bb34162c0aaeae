package live

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type memSub struct {
	ch     chan Event
	topics []string
}

// MemoryBroker delivers events within a single process.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[*memSub]struct{}
	log  *zap.Logger
}

func NewMemoryBroker(logger *zap.Logger) *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[string]map[*memSub]struct{}),
		log:  logger,
	}
}

func (b *MemoryBroker) Publish(_ context.Context, topic string, evt Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[topic] {
		select {
		case sub.ch <- evt:
		default:
			b.log.Warn("live: subscriber buffer full, dropping event",
				zap.String("topic", topic), zap.String("type", evt.Type))
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	sub := &memSub{ch: make(chan Event, subscriptionBuffer), topics: topics}

	b.mu.Lock()
	for _, t := range topics {
		if b.subs[t] == nil {
			b.subs[t] = make(map[*memSub]struct{})
		}
		b.subs[t][sub] = struct{}{}
	}
	b.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		b.mu.Lock()
		for _, t := range sub.topics {
			delete(b.subs[t], sub)
			if len(b.subs[t]) == 0 {
				delete(b.subs, t)
			}
		}
		close(sub.ch)
		b.mu.Unlock()
	}()

	return &Subscription{C: sub.ch, cancel: cancel}, nil
}
