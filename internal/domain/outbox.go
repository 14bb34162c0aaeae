package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventMatchRequested = "match.requested"
	EventMatchAccepted  = "match.accepted"
	EventMatchRejected  = "match.rejected"
	EventMessageSent    = "message.sent"
)

// OutboxEvent is a domain event stored with the change that produced it and relayed later.
type OutboxEvent struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Key         string          `json:"key"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}

func NewOutboxEvent(eventType, key string, payload any) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &OutboxEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Key:       key,
		Payload:   data,
		CreatedAt: time.Now(),
	}, nil
}
