// Package compat scores how closely two users' quiz answers agree.
package compat

import "github.com/vedran77/roomie/internal/domain"

// Score returns the share of agreeing answers over the questions both users answered,
// as a whole percentage rounded half up. No shared questions scores 0.
func Score(a, b domain.Answers) int {
	shared, agree := 0, 0
	for q, av := range a {
		bv, ok := b[q]
		if !ok {
			continue
		}
		shared++
		if av == bv {
			agree++
		}
	}
	return percent(agree, shared)
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

// Label buckets an overall score the way the profile card shows it.
func Label(score int) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Average"
	case score >= 30:
		return "Below Average"
	default:
		return "Poor"
	}
}
