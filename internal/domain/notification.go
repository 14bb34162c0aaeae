package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationMatchRequest  = "match-request"
	NotificationMatchAccepted = "match-accepted"
	NotificationMatchRejected = "match-rejected"
	NotificationMessage       = "message"
)

type Notification struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"-"`
	Type       string    `json:"type"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}
