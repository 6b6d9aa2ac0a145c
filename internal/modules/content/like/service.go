package like

import (
	"errors"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BlogGate is the slice of the blog service likes depend on.
type BlogGate interface {
	GetByID(id string) (*models.BlogModel, error)
	AdjustLikeCount(blogID string, delta int) error
}

type Service struct {
	db     *gorm.DB
	blogs  BlogGate
	logger *zap.Logger
}

func NewService(db *gorm.DB, blogs BlogGate, logger *zap.Logger) *Service {
	return &Service{db: db, blogs: blogs, logger: logger}
}

// Toggle flips the (blog, user) like. Returns true when the post ends
// up liked, false when the like was removed.
func (s *Service) Toggle(blogID, userID string) (bool, error) {
	blog, err := s.blogs.GetByID(blogID)
	if err != nil {
		return false, err
	}
	if blog.Status != models.StatusApproved {
		return false, coreerrors.ErrNotFound
	}

	var existing models.LikeModel
	err = s.db.First(&existing, "blog_id = ? AND user_id = ?", blogID, userID).Error
	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return false, err
		}
		s.adjust(blogID, -1)
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := models.LikeModel{BlogID: blogID, UserID: userID}
		if err := s.db.Create(&row).Error; err != nil {
			return false, err
		}
		s.adjust(blogID, 1)
		return true, nil
	default:
		return false, err
	}
}

// Liked reports whether the user currently likes the post.
func (s *Service) Liked(blogID, userID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.LikeModel{}).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Count(&count).Error
	return count > 0, err
}

// DeleteAllByBlog removes every like on a post. Used by the moderation
// cascade.
func (s *Service) DeleteAllByBlog(blogID string) (int64, error) {
	res := s.db.Where("blog_id = ?", blogID).Delete(&models.LikeModel{})
	return res.RowsAffected, res.Error
}

func (s *Service) adjust(blogID string, delta int) {
	if err := s.blogs.AdjustLikeCount(blogID, delta); err != nil {
		s.logger.Warn("failed to adjust like count",
			zap.String("blog_id", blogID), zap.Error(err))
	}
}
