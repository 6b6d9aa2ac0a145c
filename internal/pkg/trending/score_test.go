package trending

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreFreshPostEqualsEngagement(t *testing.T) {
	m := Metrics{Views: 100, Likes: 10, Comments: 5, Shares: 2}
	now := time.Now()

	score := Score(m, now, now)
	assert.InDelta(t, Engagement(m), score, 1e-9)
}

func TestScoreTenDaysOld(t *testing.T) {
	m := Metrics{Views: 100, Likes: 10, Comments: 5, Shares: 2}
	now := time.Now()
	ref := now.Add(-10 * 24 * time.Hour)

	require.InDelta(t, 55.0, Engagement(m), 1e-9)

	score := Score(m, ref, now)
	assert.InDelta(t, 55.0*math.Exp(-1.0), score, 1e-6)
}

func TestScoreNonIncreasingWithAge(t *testing.T) {
	m := Metrics{Views: 50, Likes: 7, Comments: 3, Shares: 1}
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	prev := math.Inf(1)
	for days := 0; days <= 30; days += 3 {
		now := ref.Add(time.Duration(days) * 24 * time.Hour)
		score := Score(m, ref, now)
		assert.LessOrEqual(t, score, prev, "score must not increase as the post ages")
		prev = score
	}
}

func TestScoreIncreasingInEachComponent(t *testing.T) {
	base := Metrics{Views: 10, Likes: 10, Comments: 10, Shares: 10}
	now := time.Now()
	ref := now.Add(-48 * time.Hour)
	baseline := Score(base, ref, now)

	bumps := []Metrics{
		{Views: 11, Likes: 10, Comments: 10, Shares: 10},
		{Views: 10, Likes: 11, Comments: 10, Shares: 10},
		{Views: 10, Likes: 10, Comments: 11, Shares: 10},
		{Views: 10, Likes: 10, Comments: 10, Shares: 11},
	}
	for _, m := range bumps {
		assert.Greater(t, Score(m, ref, now), baseline)
	}
}

func TestScoreClampsFutureDatedRef(t *testing.T) {
	m := Metrics{Likes: 1}
	now := time.Now()
	future := now.Add(24 * time.Hour)

	assert.InDelta(t, Engagement(m), Score(m, future, now), 1e-9,
		"future-dated content must not score above full freshness")
}

func TestScoreZeroMetrics(t *testing.T) {
	assert.Zero(t, Score(Metrics{}, time.Now().Add(-time.Hour), time.Now()))
}
