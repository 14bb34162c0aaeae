package live

import (
	"context"
	"sync"
)

// Broker fans events out to every subscriber of a topic.
type Broker interface {
	Publish(ctx context.Context, topic string, evt Event) error
	Subscribe(ctx context.Context, topics ...string) (*Subscription, error)
}

// Subscription delivers events on C until Close is called or the subscribe ctx ends.
// C is closed afterwards.
type Subscription struct {
	C <-chan Event

	once   sync.Once
	cancel func()
}

func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

const subscriptionBuffer = 64
