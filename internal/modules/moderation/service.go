// Package moderation orchestrates admin actions on blog posts: review
// decisions, visibility and feature toggles, and delete-with-cascade.
package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/modules/content/blog"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	"go.uber.org/zap"
)

const minRejectionReasonLength = 10

// BlogStore is the storage collaborator for posts. *blog.Service satisfies it.
type BlogStore interface {
	GetByID(id string) (*models.BlogModel, error)
	Save(b *models.BlogModel) error
	Delete(id string) error
	SlugTaken(slug, excludeID string) (bool, error)
}

// CommentStore removes dependent comments during a cascade.
type CommentStore interface {
	DeleteAllByBlog(blogID string) (int64, error)
}

// LikeStore removes dependent likes during a cascade.
type LikeStore interface {
	DeleteAllByBlog(blogID string) (int64, error)
}

// AuthorStats maintains per-author aggregate counters.
type AuthorStats interface {
	IncrementBlogCount(userID string, delta int) error
}

// Service coordinates moderation actions. Collaborators are injected at
// construction; there is no model registry lookup.
type Service struct {
	blogs    BlogStore
	comments CommentStore
	likes    LikeStore
	authors  AuthorStats
	logger   *zap.Logger
}

func NewService(blogs BlogStore, comments CommentStore, likes LikeStore, authors AuthorStats, logger *zap.Logger) *Service {
	return &Service{blogs: blogs, comments: comments, likes: likes, authors: authors, logger: logger}
}

// Review resolves a post with an approve or reject decision. No precondition
// on the current status beyond the transition table: already-reviewed posts
// may be re-reviewed.
func (s *Service) Review(id string, decision models.BlogStatus, notes, reviewerID string, role models.Role) (*models.BlogModel, error) {
	switch decision {
	case models.StatusApproved, models.StatusRejected:
	default:
		return nil, coreerrors.NewValidation("decision", fmt.Sprintf("must be %q or %q", models.StatusApproved, models.StatusRejected))
	}

	notes = strings.TrimSpace(notes)
	if decision == models.StatusRejected && len(notes) < minRejectionReasonLength {
		return nil, coreerrors.NewValidation("notes",
			fmt.Sprintf("rejection reason must be at least %d characters", minRejectionReasonLength))
	}

	b, err := s.blogs.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := blog.ApplyTransition(b, blog.TransitionInput{
		Target:     decision,
		ActorRole:  role,
		ReviewerID: reviewerID,
		Notes:      notes,
		Now:        time.Now(),
		SlugTaken:  s.blogs.SlugTaken,
	}); err != nil {
		return nil, err
	}

	if err := s.blogs.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ToggleFeatured flips the featured flag. Status is untouched.
func (s *Service) ToggleFeatured(id string, role models.Role) (*models.BlogModel, error) {
	if !role.IsAdmin() {
		return nil, fmt.Errorf("toggle featured: %w", coreerrors.ErrPermissionDenied)
	}

	b, err := s.blogs.GetByID(id)
	if err != nil {
		return nil, err
	}
	b.IsFeatured = !b.IsFeatured
	blog.RecomputeScore(b, time.Now())

	if err := s.blogs.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ToggleVisibility flips a post between hidden and approved. Re-publishing a
// hidden post does not re-stamp publishedAt; it was already set.
func (s *Service) ToggleVisibility(id, reviewerID string, role models.Role) (*models.BlogModel, error) {
	b, err := s.blogs.GetByID(id)
	if err != nil {
		return nil, err
	}

	target := models.StatusHidden
	if b.Status == models.StatusHidden {
		target = models.StatusApproved
	}

	if err := blog.ApplyTransition(b, blog.TransitionInput{
		Target:     target,
		ActorRole:  role,
		ReviewerID: reviewerID,
		Now:        time.Now(),
		SlugTaken:  s.blogs.SlugTaken,
	}); err != nil {
		return nil, err
	}

	if err := s.blogs.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a post and its dependent records. Admin or owner only.
//
// The cascade is best-effort and sequential: comments, likes, the author's
// counter, then the post. A failed sub-step is logged and the cascade keeps
// going; there is no cross-record transaction, so callers must tolerate
// partial completion after a crash.
func (s *Service) Delete(id, actorID string, role models.Role) error {
	b, err := s.blogs.GetByID(id)
	if err != nil {
		return err
	}
	if !role.IsAdmin() && b.AuthorID != actorID {
		return fmt.Errorf("delete post: %w", coreerrors.ErrPermissionDenied)
	}

	if n, err := s.comments.DeleteAllByBlog(id); err != nil {
		s.logger.Warn("comment cascade failed", zap.String("blog", id), zap.Error(err))
	} else if n > 0 {
		s.logger.Info("comments removed in cascade", zap.String("blog", id), zap.Int64("count", n))
	}

	if n, err := s.likes.DeleteAllByBlog(id); err != nil {
		s.logger.Warn("like cascade failed", zap.String("blog", id), zap.Error(err))
	} else if n > 0 {
		s.logger.Info("likes removed in cascade", zap.String("blog", id), zap.Int64("count", n))
	}

	if err := s.authors.IncrementBlogCount(b.AuthorID, -1); err != nil {
		s.logger.Warn("author blog count decrement failed", zap.String("author", b.AuthorID), zap.Error(err))
	}

	return s.blogs.Delete(id)
}
