// Package live carries real-time events between services and connected clients.
package live

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Server → client event types.
const (
	EventNotification  = "notification.new"
	EventMatchRequest  = "match.request"
	EventMatchResponse = "match.response"
	EventChatCreated   = "chat.created"
	EventMessageNew    = "message.new"
	EventMessagesRead  = "messages.read"
	EventUnreadCounts  = "unread.counts"
	EventTyping        = "typing"
	EventPresence      = "presence"
)

// Event is the envelope published on a topic and written to sockets as is.
type Event struct {
	Type      string          `json:"type"`
	ChatID    *uuid.UUID      `json:"chat_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(eventType string, chatID *uuid.UUID, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:      eventType,
		ChatID:    chatID,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}

func UserTopic(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func ChatTopic(id uuid.UUID) string {
	return fmt.Sprintf("chat:%s", id)
}
