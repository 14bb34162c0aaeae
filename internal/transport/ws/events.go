package ws

import (
	"github.com/google/uuid"
)

// Event types - Client → Server
const (
	EventTypeTypingStart = "typing.start"
	EventTypeTypingStop  = "typing.stop"
	EventTypePing        = "ping"
)

// Event types - Server → Client. The rest arrive from the live broker.
const (
	EventTypePong  = "pong"
	EventTypeError = "error"
)

// --- Server → Client payloads ---

type TypingPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Typing bool      `json:"typing"`
}

type PresencePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"` // "online" | "offline"
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
