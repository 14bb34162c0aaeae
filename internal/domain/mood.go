package domain

import (
	"time"

	"github.com/google/uuid"
)

var Moods = []string{"great", "good", "okay", "tired", "stressed", "sad"}

type Mood struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Mood      string    `json:"mood"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}
