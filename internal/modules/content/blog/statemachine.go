package blog

import (
	"fmt"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	"github.com/inkpress/core/internal/pkg/slug"
	"github.com/inkpress/core/internal/pkg/trending"
)

// moderatedStatuses may only ever be set by admin actors, regardless of the
// current state.
var moderatedStatuses = map[models.BlogStatus]bool{
	models.StatusApproved: true,
	models.StatusRejected: true,
	models.StatusHidden:   true,
}

// ownerTargets lists the transitions a non-admin owner may perform.
var ownerTargets = map[models.BlogStatus][]models.BlogStatus{
	models.StatusDraft:    {models.StatusPending},
	models.StatusRejected: {models.StatusPending},
}

// adminTargets lists the transitions an admin may perform.
var adminTargets = map[models.BlogStatus][]models.BlogStatus{
	models.StatusDraft:    {models.StatusApproved, models.StatusRejected, models.StatusHidden},
	models.StatusPending:  {models.StatusApproved, models.StatusRejected},
	models.StatusApproved: {models.StatusHidden, models.StatusRejected},
	models.StatusRejected: {models.StatusApproved, models.StatusHidden},
	models.StatusHidden:   {models.StatusApproved},
}

// TransitionInput carries everything a status change needs beyond the post
// itself. SlugTaken is consulted only when approval membership changes.
type TransitionInput struct {
	Target     models.BlogStatus
	ActorRole  models.Role
	ReviewerID string
	Notes      string
	Now        time.Time
	SlugTaken  slug.TakenFunc
}

// CanTransition validates the status change against the transition table.
// Permission is checked before state legality: a non-admin asking for a
// moderated status is always denied, whatever the current state.
func CanTransition(from, to models.BlogStatus, role models.Role) error {
	if !to.Valid() {
		return coreerrors.NewValidation("status", fmt.Sprintf("unknown status %q", to))
	}
	if moderatedStatuses[to] && !role.IsAdmin() {
		return fmt.Errorf("set status %q: %w", to, coreerrors.ErrPermissionDenied)
	}

	table := ownerTargets
	if role.IsAdmin() {
		table = adminTargets
	}
	for _, allowed := range table[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", coreerrors.ErrInvalidTransition, from, to)
}

// ApplyTransition validates and applies a status change to b in memory,
// maintaining publishedAt, the review trail, the slug partition and the
// trending score. The caller persists the result.
func ApplyTransition(b *models.BlogModel, in TransitionInput) error {
	if err := CanTransition(b.Status, in.Target, in.ActorRole); err != nil {
		return err
	}

	wasApproved := b.Status == models.StatusApproved
	b.Status = in.Target

	switch in.Target {
	case models.StatusApproved:
		// publishedAt is stamped exactly once; re-approval keeps the original.
		if b.PublishedAt == nil {
			published := in.Now
			b.PublishedAt = &published
		}
		b.AdminNotes = ""
		markReviewed(b, in)
	case models.StatusRejected:
		b.AdminNotes = in.Notes
		markReviewed(b, in)
	default:
		b.AdminNotes = ""
	}

	// Entering or leaving the approved partition redraws the slug: probing on
	// the way in, plain base slug on the way out.
	nowApproved := in.Target == models.StatusApproved
	if wasApproved != nowApproved && in.SlugTaken != nil {
		allocated, err := slug.Allocate(b.Title, b.ID, nowApproved, in.SlugTaken)
		if err != nil {
			return err
		}
		b.Slug = allocated
	}

	RecomputeScore(b, in.Now)
	return nil
}

func markReviewed(b *models.BlogModel, in TransitionInput) {
	if !in.ActorRole.IsAdmin() || in.ReviewerID == "" {
		return
	}
	reviewer := in.ReviewerID
	reviewedAt := in.Now
	b.ReviewedBy = &reviewer
	b.ReviewedAt = &reviewedAt
}

// RecomputeScore refreshes the stored trending score from the current
// counters and publish age. Idempotent for a fixed now.
func RecomputeScore(b *models.BlogModel, now time.Time) {
	b.TrendingScore = trending.Score(trending.Metrics{
		Views:    b.Metrics.Views,
		Likes:    b.Metrics.Likes,
		Comments: b.Metrics.Comments,
		Shares:   b.Metrics.Shares,
	}, b.ScoreReference(), now)
}
