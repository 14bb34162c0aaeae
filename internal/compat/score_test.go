package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vedran77/roomie/internal/domain"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Answers
		want int
	}{
		{"half agree", domain.Answers{"a": "x", "b": "y"}, domain.Answers{"a": "x", "b": "z"}, 50},
		{"empty side", domain.Answers{}, domain.Answers{"a": "x"}, 0},
		{"both nil", nil, nil, 0},
		{"disjoint keys", domain.Answers{"a": "x"}, domain.Answers{"b": "x"}, 0},
		{"only shared keys count", domain.Answers{"a": "x", "c": "q"}, domain.Answers{"a": "x", "d": "r"}, 100},
		{"one third rounds down", domain.Answers{"a": "1", "b": "2", "c": "3"}, domain.Answers{"a": "1", "b": "x", "c": "x"}, 33},
		{"two thirds rounds up", domain.Answers{"a": "1", "b": "2", "c": "3"}, domain.Answers{"a": "1", "b": "2", "c": "x"}, 67},
		{"case sensitive", domain.Answers{"a": "Yes"}, domain.Answers{"a": "yes"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.a, tt.b))
		})
	}
}

func TestScoreSymmetricAndBounded(t *testing.T) {
	samples := []domain.Answers{
		{},
		{"a": "x"},
		{"a": "x", "b": "y"},
		{"a": "y", "b": "y", "c": "z"},
		{"b": "y", "c": "w", "d": "v"},
		{"a": "x", "b": "y", "c": "z", "d": "v", "e": "u", "f": "t", "g": "s"},
	}

	for _, a := range samples {
		for _, b := range samples {
			s := Score(a, b)
			assert.Equal(t, s, Score(b, a))
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
		if len(a) > 0 {
			assert.Equal(t, 100, Score(a, a))
		}
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Excellent", Label(85))
	assert.Equal(t, "Good", Label(84))
	assert.Equal(t, "Average", Label(50))
	assert.Equal(t, "Below Average", Label(30))
	assert.Equal(t, "Poor", Label(29))
}
