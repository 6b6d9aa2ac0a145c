// Package trending computes the time-decayed engagement score used to rank
// blog posts.
package trending

import (
	"math"
	"time"
)

const (
	// decayRate is the exponential decay constant per day of age.
	decayRate = 0.1

	likeWeight    = 2.0
	commentWeight = 3.0
	viewWeight    = 0.1
	shareWeight   = 5.0
)

// Metrics holds the engagement counters of a post.
type Metrics struct {
	Views    int
	Likes    int
	Comments int
	Shares   int
}

// Engagement returns the weighted raw engagement value, before decay.
func Engagement(m Metrics) float64 {
	return float64(m.Likes)*likeWeight +
		float64(m.Comments)*commentWeight +
		float64(m.Views)*viewWeight +
		float64(m.Shares)*shareWeight
}

// Score computes the trending score for a post. ref is publishedAt when set,
// otherwise createdAt. Future-dated ref (clock skew) never scores above full
// freshness: decay is clamped to 1.0.
func Score(m Metrics, ref time.Time, now time.Time) float64 {
	ageDays := now.Sub(ref).Seconds() / 86400
	decay := math.Exp(-decayRate * ageDays)
	if decay > 1 {
		decay = 1
	}
	return Engagement(m) * decay
}
