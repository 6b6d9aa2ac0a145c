package blog

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/readingtime"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	titleMinLength = 3
	titleMaxLength = 100
)

// AuthorStats is the user collaborator maintaining per-author aggregates.
type AuthorStats interface {
	IncrementBlogCount(userID string, delta int) error
}

// Service handles blog post business logic.
type Service struct {
	db          *gorm.DB
	logger      *zap.Logger
	authorStats AuthorStats
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// SetAuthorStats wires up the author aggregate collaborator (optional).
func (s *Service) SetAuthorStats(as AuthorStats) { s.authorStats = as }

// SlugTaken reports whether another approved post already uses the slug.
// This is the lookup the allocator probes against: only the approved
// partition counts.
func (s *Service) SlugTaken(slugStr, excludeID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.BlogModel{}).
		Where("slug = ? AND status = ? AND id <> ?", slugStr, models.StatusApproved, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByID fetches a single post by ID.
func (s *Service) GetByID(id string) (*models.BlogModel, error) {
	var b models.BlogModel
	if err := s.db.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coreerrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetBySlug fetches a post by slug. Public callers only see approved posts;
// among approved posts the slug is unique, so First is deterministic there.
func (s *Service) GetBySlug(slugStr string, publicOnly bool) (*models.BlogModel, error) {
	tx := s.db.Where("slug = ?", slugStr)
	if publicOnly {
		tx = tx.Where("status = ?", models.StatusApproved)
	}
	var b models.BlogModel
	if err := tx.First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coreerrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns a paginated list of posts. Non-admin callers only see the
// approved partition; the status filter is an admin affordance.
func (s *Service) List(q pagination.Query, lq ListQuery, admin bool) ([]models.BlogModel, response.Pagination, error) {
	tx := s.db.Model(&models.BlogModel{})

	if admin {
		if lq.Status != nil && *lq.Status != "" {
			tx = tx.Where("status = ?", *lq.Status)
		}
	} else {
		tx = tx.Where("status = ?", models.StatusApproved)
	}
	if lq.Author != nil && *lq.Author != "" {
		tx = tx.Where("author_id = ?", *lq.Author)
	}
	if lq.Tag != nil && *lq.Tag != "" {
		tx = tx.Where("JSON_CONTAINS(tags, ?)", fmt.Sprintf("%q", *lq.Tag))
	}

	if lq.Sort != nil && *lq.Sort == "trending" {
		tx = tx.Order("trending_score DESC, created_at DESC")
	} else {
		tx = tx.Order("is_pinned DESC, created_at DESC")
	}

	var posts []models.BlogModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// Trending returns the top approved posts by trending score.
func (s *Service) Trending(limit int) ([]models.BlogModel, error) {
	var posts []models.BlogModel
	err := s.db.Where("status = ?", models.StatusApproved).
		Order("trending_score DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Featured returns approved posts flagged by admins.
func (s *Service) Featured(limit int) ([]models.BlogModel, error) {
	var posts []models.BlogModel
	err := s.db.Where("status = ? AND is_featured = ?", models.StatusApproved, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Create inserts a new post. Authors start in draft (or submit straight to
// pending); only admins may create a post directly approved.
func (s *Service) Create(actorID string, role models.Role, dto *CreateBlogDTO) (*models.BlogModel, error) {
	if err := validateTitle(dto.Title); err != nil {
		return nil, err
	}

	requested := models.StatusDraft
	if dto.Status != nil && *dto.Status != "" {
		requested = models.BlogStatus(*dto.Status)
		switch requested {
		case models.StatusDraft, models.StatusPending, models.StatusApproved:
		default:
			return nil, coreerrors.NewValidation("status", fmt.Sprintf("cannot create a post as %q", requested))
		}
	}

	now := time.Now()
	b := models.BlogModel{
		Title:            dto.Title,
		Content:          dto.Content,
		Summary:          dto.Summary,
		Status:           models.StatusDraft,
		AuthorID:         actorID,
		Tags:             dto.Tags,
		IsCommentEnabled: true,
		ReadingTime:      readingtime.Minutes(dto.Content),
	}
	if dto.IsCommentEnabled != nil {
		b.IsCommentEnabled = *dto.IsCommentEnabled
	}

	// Drafts take the base slug unconditionally; approval-time probing
	// happens in the transition below.
	allocated, err := slug.Allocate(b.Title, "", false, s.SlugTaken)
	if err != nil {
		return nil, err
	}
	b.Slug = allocated
	RecomputeScore(&b, now)

	if requested != models.StatusDraft {
		// Submitting at create time is an owner action even for admins;
		// creating directly approved is the admin path.
		effectiveRole := models.RoleUser
		if requested == models.StatusApproved {
			effectiveRole = role
		}
		if err := ApplyTransition(&b, TransitionInput{
			Target:     requested,
			ActorRole:  effectiveRole,
			ReviewerID: actorID,
			Now:        now,
			SlugTaken:  s.SlugTaken,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.db.Create(&b).Error; err != nil {
		return nil, err
	}

	if s.authorStats != nil {
		if err := s.authorStats.IncrementBlogCount(actorID, 1); err != nil {
			s.logger.Warn("author blog count increment failed",
				zap.String("author", actorID), zap.Error(err))
		}
	}
	return &b, nil
}

// Update patches a post's content fields. Owners may edit their own posts;
// admins may edit any. A title change re-derives the slug, probing only if
// the post is currently approved.
func (s *Service) Update(id, actorID string, role models.Role, dto *UpdateBlogDTO) (*models.BlogModel, error) {
	b, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !role.IsAdmin() && b.AuthorID != actorID {
		return nil, fmt.Errorf("edit post: %w", coreerrors.ErrPermissionDenied)
	}
	if dto.IsPinned != nil && !role.IsAdmin() {
		return nil, fmt.Errorf("set pinned: %w", coreerrors.ErrPermissionDenied)
	}

	if dto.Title != nil && *dto.Title != b.Title {
		if err := validateTitle(*dto.Title); err != nil {
			return nil, err
		}
		b.Title = *dto.Title
		allocated, err := slug.Allocate(b.Title, b.ID, b.Status == models.StatusApproved, s.SlugTaken)
		if err != nil {
			return nil, err
		}
		b.Slug = allocated
	}
	if dto.Content != nil && *dto.Content != b.Content {
		b.Content = *dto.Content
		b.ReadingTime = readingtime.Minutes(b.Content)
	}
	if dto.Summary != nil {
		b.Summary = *dto.Summary
	}
	if dto.Tags != nil {
		b.Tags = dto.Tags
	}
	if dto.IsCommentEnabled != nil {
		b.IsCommentEnabled = *dto.IsCommentEnabled
	}
	if dto.IsPinned != nil {
		b.IsPinned = *dto.IsPinned
	}

	RecomputeScore(b, time.Now())
	if err := s.db.Save(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// Submit moves an owner's draft (or rejected post) into the review queue.
func (s *Service) Submit(id, actorID string, role models.Role) (*models.BlogModel, error) {
	b, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !role.IsAdmin() && b.AuthorID != actorID {
		return nil, fmt.Errorf("submit post: %w", coreerrors.ErrPermissionDenied)
	}

	// Submitting is an owner-side transition regardless of the actor's role.
	if err := ApplyTransition(b, TransitionInput{
		Target:    models.StatusPending,
		ActorRole: models.RoleUser,
		Now:       time.Now(),
		SlugTaken: s.SlugTaken,
	}); err != nil {
		return nil, err
	}
	if err := s.db.Save(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// Save persists a post that was mutated in memory (e.g. by a transition).
func (s *Service) Save(b *models.BlogModel) error {
	return s.db.Save(b).Error
}

// Delete removes a post record. Cascades live in the moderation workflow.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.BlogModel{}, "id = ?", id).Error
}

// IncrementView counts one deduplicated view and refreshes the score. The
// caller has already decided this view counts.
func (s *Service) IncrementView(id string) error {
	b, err := s.GetByID(id)
	if err != nil {
		return err
	}
	b.Metrics.Views++
	RecomputeScore(b, time.Now())
	return s.db.Model(b).Updates(map[string]interface{}{
		"metric_views":   b.Metrics.Views,
		"trending_score": b.TrendingScore,
	}).Error
}

// AdjustCommentCount moves the comment counter by delta and refreshes the score.
func (s *Service) AdjustCommentCount(blogID string, delta int) error {
	return s.adjustCounter(blogID, delta, func(m *models.BlogMetrics) *int { return &m.Comments }, "metric_comments")
}

// AdjustLikeCount moves the like counter by delta and refreshes the score.
func (s *Service) AdjustLikeCount(blogID string, delta int) error {
	return s.adjustCounter(blogID, delta, func(m *models.BlogMetrics) *int { return &m.Likes }, "metric_likes")
}

// AdjustShareCount moves the share counter by delta and refreshes the score.
func (s *Service) AdjustShareCount(blogID string, delta int) error {
	return s.adjustCounter(blogID, delta, func(m *models.BlogMetrics) *int { return &m.Shares }, "metric_shares")
}

func (s *Service) adjustCounter(blogID string, delta int, field func(*models.BlogMetrics) *int, column string) error {
	b, err := s.GetByID(blogID)
	if err != nil {
		return err
	}
	counter := field(&b.Metrics)
	*counter += delta
	if *counter < 0 {
		*counter = 0
	}
	RecomputeScore(b, time.Now())
	return s.db.Model(b).Updates(map[string]interface{}{
		column:           *counter,
		"trending_score": b.TrendingScore,
	}).Error
}

// RefreshTrendingScores recomputes the stored score of every approved post so
// persisted ordering tracks decay. Run periodically from the scheduler.
func (s *Service) RefreshTrendingScores(ctx context.Context) error {
	now := time.Now()
	var batch []models.BlogModel
	return s.db.WithContext(ctx).
		Where("status = ?", models.StatusApproved).
		FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				b := &batch[i]
				RecomputeScore(b, now)
				if err := s.db.Model(b).UpdateColumn("trending_score", b.TrendingScore).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < titleMinLength || n > titleMaxLength {
		return coreerrors.NewValidation("title",
			fmt.Sprintf("must be between %d and %d characters", titleMinLength, titleMaxLength))
	}
	return nil
}
