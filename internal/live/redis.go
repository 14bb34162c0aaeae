package live

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBroker routes events through Redis pub/sub so every instance sees them.
type RedisBroker struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

func NewRedisBroker(client *redis.Client, prefix string, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, prefix: prefix, log: logger}
}

func (b *RedisBroker) channel(topic string) string {
	return fmt.Sprintf("%s:live:%s", b.prefix, topic)
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel(topic), data).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	channels := make([]string, len(topics))
	for i, t := range topics {
		channels[i] = b.channel(t)
	}

	ps := b.client.Subscribe(ctx, channels...)
	// Wait for the subscription to be confirmed so no publish is missed after return.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", strings.Join(topics, ","), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Event, subscriptionBuffer)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var evt Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					b.log.Warn("live: bad event on redis channel", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- evt:
				default:
					b.log.Warn("live: subscriber buffer full, dropping event", zap.String("channel", msg.Channel))
				}
			}
		}
	}()

	return &Subscription{C: out, cancel: cancel}, nil
}
