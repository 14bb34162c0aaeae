package compat

import (
	"context"
	"sort"

	"github.com/vedran77/roomie/internal/domain"
)

type Dimension string

const (
	Lifestyle   Dimension = "lifestyle"
	Cleanliness Dimension = "cleanliness"
	Schedule    Dimension = "schedule"
	Social      Dimension = "social"
	Values      Dimension = "values"
)

var Dimensions = []Dimension{Lifestyle, Cleanliness, Schedule, Social, Values}

// questionDimension covers question ids of both quizzes.
var questionDimension = map[string]Dimension{
	"dietaryRestrictions": Lifestyle,
	"vegOrNonveg":         Lifestyle,
	"teaOrCoffee":         Lifestyle,
	"homeOrMess":          Lifestyle,
	"netflixOrYoutube":    Lifestyle,
	"decoratedOrSimple":   Lifestyle,

	"cleanOrChill":    Cleanliness,
	"roomEnvironment": Cleanliness,

	"morningOrNight":   Schedule,
	"lightsPreference": Schedule,
	"silenceOrMusic":   Schedule,
	"acOrFan":          Schedule,

	"socializeFrequency":    Social,
	"comfortableWithGuests": Social,
	"talkativeOrQuiet":      Social,
	"partyOrRelax":          Social,

	"comfortableWithDifferentBelief": Values,
	"department":                     Values,
	"graduatingYear":                 Values,
	"city":                           Values,
}

// Profile is the input of a breakdown: every answer a user gave plus where they live.
type Profile struct {
	Answers domain.Answers `json:"answers"`
	Hostel  string         `json:"hostel"`
}

// ProfileOf collects both quizzes of u. Question ids of the two quizzes do not overlap.
func ProfileOf(u *domain.User) Profile {
	answers := make(domain.Answers, len(u.QuizAnswers)+len(u.ThisOrThat))
	for q, v := range u.AnswersFor(domain.QuizPrimary) {
		answers[q] = v
	}
	for q, v := range u.AnswersFor(domain.QuizThisOrThat) {
		answers[q] = v
	}
	return Profile{Answers: answers, Hostel: u.Hostel}
}

type Breakdown struct {
	Lifestyle      int      `json:"lifestyle"`
	Cleanliness    int      `json:"cleanliness"`
	Schedule       int      `json:"schedule"`
	Social         int      `json:"social"`
	Values         int      `json:"values"`
	Overall        int      `json:"overall"`
	Label          string   `json:"label"`
	HousingMatches bool     `json:"housingMatches"`
	Highlights     []string `json:"highlights"`
}

func (b *Breakdown) set(d Dimension, v int) {
	switch d {
	case Lifestyle:
		b.Lifestyle = v
	case Cleanliness:
		b.Cleanliness = v
	case Schedule:
		b.Schedule = v
	case Social:
		b.Social = v
	case Values:
		b.Values = v
	}
}

// Provider computes a breakdown for a pair of profiles.
type Provider interface {
	Breakdown(ctx context.Context, a, b Profile) (*Breakdown, error)
}

// Local computes breakdowns in process.
type Local struct{}

func (Local) Breakdown(_ context.Context, a, b Profile) (*Breakdown, error) {
	return Compute(a, b), nil
}

// Compute scores each dimension over the shared questions that belong to it.
func Compute(a, b Profile) *Breakdown {
	shared := make(map[Dimension]int)
	agree := make(map[Dimension]int)
	highlights := []string{}

	for q, av := range a.Answers {
		bv, ok := b.Answers[q]
		if !ok {
			continue
		}
		d, ok := questionDimension[q]
		if !ok {
			continue
		}
		shared[d]++
		if av == bv {
			agree[d]++
			highlights = append(highlights, q)
		}
	}
	sort.Strings(highlights)

	out := &Breakdown{
		HousingMatches: a.Hostel != "" && a.Hostel == b.Hostel,
		Highlights:     highlights,
	}
	sum := 0
	for _, d := range Dimensions {
		v := percent(agree[d], shared[d])
		out.set(d, v)
		sum += v
	}
	out.Overall = percent(sum, 100*len(Dimensions))
	out.Label = Label(out.Overall)
	return out
}
