package domain

import (
	"time"

	"github.com/google/uuid"
)

type DashboardStats struct {
	UserID         uuid.UUID `json:"-"`
	MatchRequests  int       `json:"match_requests"`
	ActiveMatches  int       `json:"active_matches"`
	MessageCount   int       `json:"message_count"`
	UnreadMessages int       `json:"unread_messages"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StatsDelta is applied atomically; resulting counters never drop below zero.
type StatsDelta struct {
	MatchRequests int
	ActiveMatches int
	MessageCount  int
}
