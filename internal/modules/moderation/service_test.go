package moderation

import (
	"errors"
	"testing"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBlogStore struct {
	posts   map[string]*models.BlogModel
	deleted []string
}

func newFakeBlogStore(posts ...*models.BlogModel) *fakeBlogStore {
	s := &fakeBlogStore{posts: map[string]*models.BlogModel{}}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (s *fakeBlogStore) GetByID(id string) (*models.BlogModel, error) {
	b, ok := s.posts[id]
	if !ok {
		return nil, coreerrors.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *fakeBlogStore) Save(b *models.BlogModel) error {
	s.posts[b.ID] = b
	return nil
}

func (s *fakeBlogStore) Delete(id string) error {
	delete(s.posts, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeBlogStore) SlugTaken(slug, excludeID string) (bool, error) {
	for id, b := range s.posts {
		if id != excludeID && b.Status == models.StatusApproved && b.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeCascadeStore struct {
	rows int64
	err  error
	hits int
}

func (s *fakeCascadeStore) DeleteAllByBlog(blogID string) (int64, error) {
	s.hits++
	if s.err != nil {
		return 0, s.err
	}
	return s.rows, nil
}

type fakeAuthorStats struct {
	deltas map[string]int
	err    error
}

func (s *fakeAuthorStats) IncrementBlogCount(userID string, delta int) error {
	if s.err != nil {
		return s.err
	}
	if s.deltas == nil {
		s.deltas = map[string]int{}
	}
	s.deltas[userID] += delta
	return nil
}

func pendingPost(id string) *models.BlogModel {
	b := &models.BlogModel{
		Title:    "Hello World!!",
		Slug:     "hello-world",
		Status:   models.StatusPending,
		AuthorID: "author-1",
	}
	b.ID = id
	b.CreatedAt = time.Now().Add(-time.Hour)
	return b
}

func newService(blogs BlogStore) *Service {
	return NewService(blogs, &fakeCascadeStore{}, &fakeCascadeStore{}, &fakeAuthorStats{}, zap.NewNop())
}

func TestReviewApprove(t *testing.T) {
	store := newFakeBlogStore(pendingPost("b1"))
	svc := newService(store)

	got, err := svc.Review("b1", models.StatusApproved, "", "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	require.NotNil(t, got.PublishedAt)
	assert.Equal(t, "hello-world", got.Slug)

	persisted, err := store.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, persisted.Status)
}

func TestReviewSecondApprovalGetsSuffixedSlug(t *testing.T) {
	first := pendingPost("b1")
	first.Status = models.StatusApproved
	second := pendingPost("b2")

	store := newFakeBlogStore(first, second)
	svc := newService(store)

	got, err := svc.Review("b2", models.StatusApproved, "", "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", got.Slug)
}

func TestReviewRejectionRequiresReason(t *testing.T) {
	store := newFakeBlogStore(pendingPost("b1"))
	svc := newService(store)

	_, err := svc.Review("b1", models.StatusRejected, "", "admin-1", models.RoleAdmin)
	assert.True(t, coreerrors.IsValidation(err))

	_, err = svc.Review("b1", models.StatusRejected, "too short", "admin-1", models.RoleAdmin)
	assert.True(t, coreerrors.IsValidation(err), "reasons under 10 characters are rejected")

	got, err := svc.Review("b1", models.StatusRejected, "valid reason text", "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "valid reason text", got.AdminNotes)
	assert.Equal(t, models.StatusRejected, got.Status)
}

func TestReviewInvalidDecision(t *testing.T) {
	svc := newService(newFakeBlogStore(pendingPost("b1")))

	_, err := svc.Review("b1", models.StatusHidden, "", "admin-1", models.RoleAdmin)
	assert.True(t, coreerrors.IsValidation(err))
}

func TestReviewNonAdminDenied(t *testing.T) {
	svc := newService(newFakeBlogStore(pendingPost("b1")))

	_, err := svc.Review("b1", models.StatusApproved, "", "user-1", models.RoleUser)
	assert.ErrorIs(t, err, coreerrors.ErrPermissionDenied)
}

func TestReviewMissingPost(t *testing.T) {
	svc := newService(newFakeBlogStore())

	_, err := svc.Review("nope", models.StatusApproved, "", "admin-1", models.RoleAdmin)
	assert.ErrorIs(t, err, coreerrors.ErrNotFound)
}

func TestReviewAllowsReReviewOfApprovedPost(t *testing.T) {
	post := pendingPost("b1")
	post.Status = models.StatusApproved
	published := time.Now().Add(-48 * time.Hour)
	post.PublishedAt = &published

	svc := newService(newFakeBlogStore(post))

	got, err := svc.Review("b1", models.StatusRejected, "previously approved in error", "admin-2", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, published, *got.PublishedAt)
}

func TestToggleVisibilityRoundTrip(t *testing.T) {
	post := pendingPost("b1")
	post.Status = models.StatusApproved
	published := time.Now().Add(-24 * time.Hour)
	post.PublishedAt = &published

	store := newFakeBlogStore(post)
	svc := newService(store)

	hidden, err := svc.ToggleVisibility("b1", "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusHidden, hidden.Status)

	shown, err := svc.ToggleVisibility("b1", "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, shown.Status)
	assert.Equal(t, published, *shown.PublishedAt, "re-publishing must not re-stamp publishedAt")
}

func TestToggleVisibilityNonAdminDenied(t *testing.T) {
	post := pendingPost("b1")
	post.Status = models.StatusApproved

	svc := newService(newFakeBlogStore(post))

	_, err := svc.ToggleVisibility("b1", "user-1", models.RoleUser)
	assert.ErrorIs(t, err, coreerrors.ErrPermissionDenied)
}

func TestToggleFeatured(t *testing.T) {
	store := newFakeBlogStore(pendingPost("b1"))
	svc := newService(store)

	got, err := svc.ToggleFeatured("b1", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, got.IsFeatured)
	assert.Equal(t, models.StatusPending, got.Status, "featuring must not change status")

	got, err = svc.ToggleFeatured("b1", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, got.IsFeatured)

	_, err = svc.ToggleFeatured("b1", models.RoleUser)
	assert.ErrorIs(t, err, coreerrors.ErrPermissionDenied)
}

func TestDeleteCascades(t *testing.T) {
	store := newFakeBlogStore(pendingPost("b1"))
	comments := &fakeCascadeStore{rows: 3}
	likes := &fakeCascadeStore{rows: 2}
	authors := &fakeAuthorStats{}
	svc := NewService(store, comments, likes, authors, zap.NewNop())

	require.NoError(t, svc.Delete("b1", "admin-1", models.RoleAdmin))
	assert.Equal(t, 1, comments.hits)
	assert.Equal(t, 1, likes.hits)
	assert.Equal(t, -1, authors.deltas["author-1"])
	assert.Equal(t, []string{"b1"}, store.deleted)
}

func TestDeleteOwnerAllowed(t *testing.T) {
	store := newFakeBlogStore(pendingPost("b1"))
	svc := newService(store)

	require.NoError(t, svc.Delete("b1", "author-1", models.RoleUser))
	assert.Equal(t, []string{"b1"}, store.deleted)
}

func TestDeleteStrangerDenied(t *testing.T) {
	svc := newService(newFakeBlogStore(pendingPost("b1")))

	err := svc.Delete("b1", "someone-else", models.RoleUser)
	assert.ErrorIs(t, err, coreerrors.ErrPermissionDenied)
}

func TestDeleteContinuesPastCascadeFailure(t *testing.T) {
	store := newFakeBlogStore(pendingPost("b1"))
	comments := &fakeCascadeStore{err: errors.New("collection offline")}
	likes := &fakeCascadeStore{rows: 2}
	authors := &fakeAuthorStats{}
	svc := NewService(store, comments, likes, authors, zap.NewNop())

	require.NoError(t, svc.Delete("b1", "admin-1", models.RoleAdmin),
		"a failed cascade sub-step must not abort the delete")
	assert.Equal(t, 1, likes.hits)
	assert.Equal(t, -1, authors.deltas["author-1"])
	assert.Equal(t, []string{"b1"}, store.deleted)
}
