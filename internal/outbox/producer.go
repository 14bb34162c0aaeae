// Package outbox relays domain events written alongside state changes to an event stream.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/vedran77/roomie/internal/domain"
	"go.uber.org/zap"
)

// Producer delivers a batch of events. A batch is either fully written or the call fails.
type Producer interface {
	Publish(ctx context.Context, events []domain.OutboxEvent) error
	Close() error
}

type KafkaProducer struct {
	writer *kafkago.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		Async:        false,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaProducer{writer: w}
}

// Publish keys every message by its aggregate so events of one request or chat stay ordered.
func (p *KafkaProducer) Publish(ctx context.Context, events []domain.OutboxEvent) error {
	msgs := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		b, err := json.Marshal(evt)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(evt.Key),
			Value: b,
			Time:  evt.CreatedAt,
			Headers: []kafkago.Header{
				{Key: "type", Value: []byte(evt.Type)},
			},
		})
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// LogProducer writes events to the log. It is used when no brokers are configured.
type LogProducer struct {
	log *zap.Logger
}

func NewLogProducer(logger *zap.Logger) *LogProducer {
	return &LogProducer{log: logger}
}

func (p *LogProducer) Publish(_ context.Context, events []domain.OutboxEvent) error {
	for _, evt := range events {
		p.log.Info("outbox event",
			zap.String("id", evt.ID.String()),
			zap.String("type", evt.Type),
			zap.String("key", evt.Key),
			zap.ByteString("payload", evt.Payload),
		)
	}
	return nil
}

func (p *LogProducer) Close() error { return nil }
