package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

const MatchActive = "active"

type MatchRequest struct {
	ID          uuid.UUID  `json:"id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	ReceiverID  uuid.UUID  `json:"receiver_id"`
	SenderName  string     `json:"sender_name"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	// Joined fields
	ReceiverName string `json:"receiver_name,omitempty"`
}

func (r *MatchRequest) Terminal() bool {
	return r.Status == RequestAccepted || r.Status == RequestRejected
}

// Match is one side of an accepted request, owned by UserID and pointing at OtherUserID.
type Match struct {
	UserID      uuid.UUID `json:"-"`
	OtherUserID uuid.UUID `json:"user_id"`
	Status      string    `json:"status"`
	MatchedAt   time.Time `json:"matched_at"`
	// Joined fields
	OtherName     string  `json:"name,omitempty"`
	OtherPhotoURL *string `json:"photo_url,omitempty"`
}
