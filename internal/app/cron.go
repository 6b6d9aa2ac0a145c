package app

import (
	"time"

	pkgcron "github.com/inkpress/core/internal/pkg/cron"
)

const trendingRefreshInterval = 10 * time.Minute

// registerCronJobs registers all scheduled background jobs. Trending
// scores decay with age, so they go stale without periodic recomputes.
func (a *App) registerCronJobs() {
	a.sched.Register(pkgcron.Job{
		Name:     "refresh_trending_scores",
		Interval: trendingRefreshInterval,
		Fn:       a.blogSvc.RefreshTrendingScores,
	})
}
