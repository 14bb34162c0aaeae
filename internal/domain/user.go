package domain

import (
	"time"

	"github.com/google/uuid"
)

// Answers maps a quiz question id to the chosen option value.
type Answers map[string]string

type QuizKind string

const (
	QuizPrimary    QuizKind = "primary"
	QuizThisOrThat QuizKind = "this-or-that"
)

func (k QuizKind) Valid() bool {
	return k == QuizPrimary || k == QuizThisOrThat
}

type User struct {
	ID                    uuid.UUID  `json:"id"`
	Email                 string     `json:"email"`
	Name                  string     `json:"name"`
	PasswordHash          string     `json:"-"`
	Gender                string     `json:"gender,omitempty"`
	PhotoURL              *string    `json:"photo_url,omitempty"`
	Bio                   string     `json:"bio,omitempty"`
	Age                   *int       `json:"age,omitempty"`
	Occupation            string     `json:"occupation,omitempty"`
	Hostel                string     `json:"hostel,omitempty"`
	MoveInDate            *time.Time `json:"move_in_date,omitempty"`
	QuizAnswers           Answers    `json:"quiz_answers,omitempty"`
	QuizCompleted         bool       `json:"quiz_completed"`
	QuizCompletedAt       *time.Time `json:"quiz_completed_at,omitempty"`
	ThisOrThat            Answers    `json:"this_or_that,omitempty"`
	ThisOrThatCompleted   bool       `json:"this_or_that_completed"`
	ThisOrThatCompletedAt *time.Time `json:"this_or_that_completed_at,omitempty"`
	CurrentMood           string     `json:"current_mood,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// AnswersFor returns the answers of the given quiz, or nil if that quiz was never completed.
func (u *User) AnswersFor(kind QuizKind) Answers {
	switch kind {
	case QuizThisOrThat:
		if !u.ThisOrThatCompleted {
			return nil
		}
		return u.ThisOrThat
	default:
		if !u.QuizCompleted {
			return nil
		}
		return u.QuizAnswers
	}
}

// ProfileUpdate carries the editable profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Gender     *string    `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	PhotoURL   *string    `json:"photo_url,omitempty" validate:"omitempty,url"`
	Bio        *string    `json:"bio,omitempty" validate:"omitempty,max=500"`
	Age        *int       `json:"age,omitempty" validate:"omitempty,min=16,max=100"`
	Occupation *string    `json:"occupation,omitempty" validate:"omitempty,max=100"`
	Hostel     *string    `json:"hostel,omitempty" validate:"omitempty,hostel"`
	MoveInDate *time.Time `json:"move_in_date,omitempty"`
}

// Hostels lists the accepted hostel codes.
var Hostels = []string{
	"Hostel-A", "Hostel-B", "Hostel-C", "Hostel-D", "Hostel-E", "Hostel-FRF", "Hostel-G",
	"Hostel-H", "Hostel-I", "Hostel-J", "Hostel-K", "Hostel-L", "Hostel-M", "Hostel-N",
	"Hostel-O", "Hostel-PG", "Hostel-Q",
}

func IsHostel(code string) bool {
	for _, h := range Hostels {
		if h == code {
			return true
		}
	}
	return false
}
