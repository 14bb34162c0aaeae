package domain

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	ID              uuid.UUID  `json:"id"`
	User1ID         uuid.UUID  `json:"user1_id"`
	User2ID         uuid.UUID  `json:"user2_id"`
	LastMessage     string     `json:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	// Joined fields for frontend
	OtherUserID       uuid.UUID `json:"other_user_id"`
	OtherUserName     string    `json:"other_user_name"`
	OtherUserPhotoURL *string   `json:"other_user_photo_url,omitempty"`
	Unread            int       `json:"unread"`
}

func (c *Chat) HasParticipant(userID uuid.UUID) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Other returns the participant that is not userID.
func (c *Chat) Other(userID uuid.UUID) uuid.UUID {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// CanonicalPair orders two user ids so the smaller string comes first.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

type Message struct {
	ID         uuid.UUID `json:"id"`
	ChatID     uuid.UUID `json:"chat_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Text       string    `json:"text"`
	Type       string    `json:"type"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"timestamp"`
}
