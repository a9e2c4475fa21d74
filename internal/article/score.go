package article

import (
	"time"
	"unicode/utf8"
)

// Score computes an article's rank weight at a fixed point in time. It is
// a pure function: the same article and now always give the same score.
// Exactly one recency band and one engagement band apply, bands are never
// summed.
func Score(a Article, now time.Time) float64 {
	score := 0.0

	switch age := now.Sub(a.Published); {
	case age <= 12*time.Hour:
		score += 40
	case age <= 24*time.Hour:
		score += 30
	case age <= 48*time.Hour:
		score += 20
	}

	switch {
	case a.Engagement > 500:
		score += 40
	case a.Engagement > 200:
		score += 30
	case a.Engagement > 100:
		score += 20
	case a.Engagement > 50:
		score += 10
	}

	switch a.Quality {
	case QualityHigh:
		score += 20
	case QualityNews:
		score += 10
	}

	if utf8.RuneCountInString(a.Summary) > 100 {
		score += 10
	}

	return score
}

// ScoreAll stamps scores in place.
func ScoreAll(items []Article, now time.Time) {
	for i := range items {
		items[i].Score = Score(items[i], now)
	}
}
