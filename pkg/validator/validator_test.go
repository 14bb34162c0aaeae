package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vedran77/roomie/internal/domain"
)

type registerBody struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,password"`
}

func TestStructReportsJSONFields(t *testing.T) {
	errs := Struct(registerBody{Email: "nope", Name: "A", Password: "short"})

	assert.True(t, errs.HasErrors())
	assert.Equal(t, "Invalid email address", errs["email"])
	assert.Equal(t, "Name must be at least 2 characters", errs["name"])
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])
}

func TestStructValid(t *testing.T) {
	errs := Struct(registerBody{Email: "a@b.co", Name: "Ann", Password: "Secret123"})
	assert.False(t, errs.HasErrors())
}

func TestPasswordProblem(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"Secret123", ""},
		{"secret123", "Password must contain at least one uppercase letter"},
		{"SECRETPASS", "Password must contain at least one lowercase letter, one number"},
		{"Ab1", "Password must be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, passwordProblem(tt.password))
		})
	}
}

func TestHostelAndOptionalFields(t *testing.T) {
	bad := "nowhere"
	errs := Struct(domain.ProfileUpdate{Hostel: &bad})
	assert.Equal(t, "Unknown hostel", errs["hostel"])

	good := domain.Hostels[0]
	errs = Struct(domain.ProfileUpdate{Hostel: &good})
	assert.False(t, errs.HasErrors())

	assert.False(t, Struct(domain.ProfileUpdate{}).HasErrors())
}

func TestNotBlank(t *testing.T) {
	type body struct {
		Text string `json:"text" validate:"notblank,max=5"`
	}
	assert.Equal(t, "Text is required", Struct(body{Text: "   "})["text"])
	assert.Equal(t, "Text is too long", Struct(body{Text: "toolong"})["text"])
}

func TestQuizAnswers(t *testing.T) {
	type body struct {
		Answers domain.Answers `json:"answers" validate:"quizanswers"`
	}

	tests := []struct {
		name    string
		answers domain.Answers
		ok      bool
	}{
		{"nil", nil, true},
		{"normal", domain.Answers{"sleep": "early", "pets": ""}, true},
		{"blank id", domain.Answers{"  ": "x"}, false},
		{"long answer", domain.Answers{"q": strings.Repeat("a", maxAnswerLen+1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(body{Answers: tt.answers})
			assert.Equal(t, !tt.ok, errs.HasErrors())
		})
	}
}
