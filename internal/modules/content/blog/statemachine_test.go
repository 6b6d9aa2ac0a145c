package blog

import (
	"testing"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(status models.BlogStatus) *models.BlogModel {
	b := &models.BlogModel{
		Title:    "Hello World!!",
		Slug:     "hello-world",
		Status:   status,
		AuthorID: "author-1",
	}
	b.ID = "blog-1"
	b.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return b
}

func noCollision(slug, excludeID string) (bool, error) { return false, nil }

func TestCanTransitionTable(t *testing.T) {
	tests := []struct {
		name string
		from models.BlogStatus
		to   models.BlogStatus
		role models.Role
		want error
	}{
		{"owner submits draft", models.StatusDraft, models.StatusPending, models.RoleUser, nil},
		{"owner resubmits rejected", models.StatusRejected, models.StatusPending, models.RoleUser, nil},
		{"owner cannot approve", models.StatusPending, models.StatusApproved, models.RoleUser, coreerrors.ErrPermissionDenied},
		{"owner cannot hide", models.StatusApproved, models.StatusHidden, models.RoleUser, coreerrors.ErrPermissionDenied},
		{"owner cannot submit approved", models.StatusApproved, models.StatusPending, models.RoleUser, coreerrors.ErrInvalidTransition},
		{"admin approves draft", models.StatusDraft, models.StatusApproved, models.RoleAdmin, nil},
		{"admin approves pending", models.StatusPending, models.StatusApproved, models.RoleAdmin, nil},
		{"admin rejects pending", models.StatusPending, models.StatusRejected, models.RoleAdmin, nil},
		{"admin hides approved", models.StatusApproved, models.StatusHidden, models.RoleAdmin, nil},
		{"admin rejects approved", models.StatusApproved, models.StatusRejected, models.RoleAdmin, nil},
		{"admin re-approves rejected", models.StatusRejected, models.StatusApproved, models.RoleAdmin, nil},
		{"admin shows hidden", models.StatusHidden, models.StatusApproved, models.RoleAdmin, nil},
		{"admin cannot hide pending", models.StatusPending, models.StatusHidden, models.RoleAdmin, coreerrors.ErrInvalidTransition},
		{"admin cannot set pending", models.StatusDraft, models.StatusPending, models.RoleAdmin, coreerrors.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.role)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestNonAdminApprovalAlwaysDenied(t *testing.T) {
	// Permission beats state legality, whatever the source status.
	for _, from := range []models.BlogStatus{
		models.StatusDraft, models.StatusPending, models.StatusApproved,
		models.StatusRejected, models.StatusHidden,
	} {
		err := CanTransition(from, models.StatusApproved, models.RoleUser)
		assert.ErrorIs(t, err, coreerrors.ErrPermissionDenied, "from %s", from)
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	err := CanTransition(models.StatusDraft, "published", models.RoleAdmin)
	assert.True(t, coreerrors.IsValidation(err))
}

func TestApproveStampsPublishedAtOnce(t *testing.T) {
	b := newPost(models.StatusPending)
	firstApproval := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, ApplyTransition(b, TransitionInput{
		Target:     models.StatusApproved,
		ActorRole:  models.RoleAdmin,
		ReviewerID: "admin-1",
		Now:        firstApproval,
		SlugTaken:  noCollision,
	}))
	require.NotNil(t, b.PublishedAt)
	assert.Equal(t, firstApproval, *b.PublishedAt)
	require.NotNil(t, b.ReviewedBy)
	assert.Equal(t, "admin-1", *b.ReviewedBy)

	// Reject, then approve again later: publishedAt must keep its first value.
	require.NoError(t, ApplyTransition(b, TransitionInput{
		Target:     models.StatusRejected,
		ActorRole:  models.RoleAdmin,
		ReviewerID: "admin-1",
		Notes:      "needs a better introduction",
		Now:        firstApproval.Add(time.Hour),
		SlugTaken:  noCollision,
	}))
	require.NoError(t, ApplyTransition(b, TransitionInput{
		Target:     models.StatusApproved,
		ActorRole:  models.RoleAdmin,
		ReviewerID: "admin-2",
		Now:        firstApproval.Add(48 * time.Hour),
		SlugTaken:  noCollision,
	}))
	assert.Equal(t, firstApproval, *b.PublishedAt)
}

func TestRejectionStoresNotesAndReviewClearsThem(t *testing.T) {
	b := newPost(models.StatusPending)
	now := time.Now()

	require.NoError(t, ApplyTransition(b, TransitionInput{
		Target:     models.StatusRejected,
		ActorRole:  models.RoleAdmin,
		ReviewerID: "admin-1",
		Notes:      "too short, expand the examples",
		Now:        now,
		SlugTaken:  noCollision,
	}))
	assert.Equal(t, "too short, expand the examples", b.AdminNotes)

	// Any later status change that is not itself a rejection clears the notes.
	require.NoError(t, ApplyTransition(b, TransitionInput{
		Target:     models.StatusApproved,
		ActorRole:  models.RoleAdmin,
		ReviewerID: "admin-1",
		Now:        now.Add(time.Hour),
		SlugTaken:  noCollision,
	}))
	assert.Empty(t, b.AdminNotes)
}

func TestApprovalProbesSlugPartition(t *testing.T) {
	b := newPost(models.StatusPending)
	taken := func(slug, excludeID string) (bool, error) {
		return slug == "hello-world", nil
	}

	require.NoError(t, ApplyTransition(b, TransitionInput{
		Target:    models.StatusApproved,
		ActorRole: models.RoleAdmin,
		Now:       time.Now(),
		SlugTaken: taken,
	}))
	assert.Equal(t, "hello-world-1", b.Slug)
}

func TestLeavingApprovedPartitionRestoresBaseSlug(t *testing.T) {
	b := newPost(models.StatusApproved)
	b.Slug = "hello-world-1"
	published := time.Now().Add(-24 * time.Hour)
	b.PublishedAt = &published

	require.NoError(t, ApplyTransition(b, TransitionInput{
		Target:    models.StatusHidden,
		ActorRole: models.RoleAdmin,
		Now:       time.Now(),
		SlugTaken: noCollision,
	}))
	assert.Equal(t, "hello-world", b.Slug)
	assert.Equal(t, published, *b.PublishedAt, "hiding must not clear publishedAt")
}

func TestTransitionRecomputesScore(t *testing.T) {
	b := newPost(models.StatusPending)
	b.Metrics = models.BlogMetrics{Views: 100, Likes: 10, Comments: 5, Shares: 2}

	now := time.Now()
	require.NoError(t, ApplyTransition(b, TransitionInput{
		Target:    models.StatusApproved,
		ActorRole: models.RoleAdmin,
		Now:       now,
		SlugTaken: noCollision,
	}))
	// Freshly approved: decay is 1.0, score equals raw engagement.
	assert.InDelta(t, 55.0, b.TrendingScore, 1e-9)
}
