package ws

import (
	"context"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/live"
	"github.com/vedran77/roomie/internal/service"
	"go.uber.org/zap"
)

// CountsWatcher streams a user's unread counts as they change.
type CountsWatcher interface {
	Watch(ctx context.Context, userID uuid.UUID) (<-chan service.Counts, error)
}

// Forwarder pushes a user's broker events and unread counts to one connection.
type Forwarder struct {
	broker live.Broker
	unread CountsWatcher
}

func NewForwarder(broker live.Broker, unread CountsWatcher) *Forwarder {
	return &Forwarder{broker: broker, unread: unread}
}

// Run blocks until the client disconnects.
func (f *Forwarder) Run(c *Client) {
	ctx := c.ctx

	sub, err := f.broker.Subscribe(ctx, live.UserTopic(c.userID))
	if err != nil {
		c.log.Error("ws: subscribe failed", zap.Error(err))
		c.cancel()
		return
	}
	defer sub.Close()

	counts, err := f.unread.Watch(ctx, c.userID)
	if err != nil {
		c.log.Error("ws: unread watch failed", zap.Error(err))
		c.cancel()
		return
	}

	events := sub.C
	for events != nil || counts != nil {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.EnqueueEvent(evt)

		case cnt, ok := <-counts:
			if !ok {
				counts = nil
				continue
			}
			evt, err := live.NewEvent(live.EventUnreadCounts, nil, cnt)
			if err != nil {
				c.log.Error("ws: marshal counts", zap.Error(err))
				continue
			}
			c.EnqueueEvent(evt)
		}
	}
}
