package comment

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxCommentLength = 2000

// BlogGate is the slice of the blog service comments depend on.
type BlogGate interface {
	GetByID(id string) (*models.BlogModel, error)
	AdjustCommentCount(blogID string, delta int) error
}

type Service struct {
	db     *gorm.DB
	blogs  BlogGate
	logger *zap.Logger
}

func NewService(db *gorm.DB, blogs BlogGate, logger *zap.Logger) *Service {
	return &Service{db: db, blogs: blogs, logger: logger}
}

// ListByBlog returns top-level comments for a post, oldest first, with
// replies preloaded under each parent.
func (s *Service) ListByBlog(blogID string, q pagination.Query) ([]models.CommentModel, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("blog_id = ? AND parent_id IS NULL", blogID).
		Order("created_at ASC")

	var comments []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &comments)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return comments, pag, nil
}

func (s *Service) Create(blogID, authorID, ip, agent string, dto *CreateCommentDTO) (*models.CommentModel, error) {
	text, err := validateText(dto.Text)
	if err != nil {
		return nil, err
	}

	var author models.UserModel
	if err := s.db.First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coreerrors.ErrPermissionDenied
		}
		return nil, err
	}
	authorName := author.Username
	if author.Name != "" {
		authorName = author.Name
	}

	blog, err := s.blogs.GetByID(blogID)
	if err != nil {
		return nil, err
	}
	if blog.Status != models.StatusApproved {
		return nil, coreerrors.ErrNotFound
	}
	if !blog.IsCommentEnabled {
		return nil, coreerrors.NewValidation("blog", "comments are disabled on this post")
	}

	c := models.CommentModel{
		BlogID:     blogID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		IP:         ip,
		Agent:      agent,
	}
	if dto.ParentID != nil && *dto.ParentID != "" {
		parent, err := s.getParent(blogID, *dto.ParentID)
		if err != nil {
			return nil, err
		}
		c.ParentID = &parent.ID
	}

	if err := s.db.Create(&c).Error; err != nil {
		return nil, err
	}
	if err := s.blogs.AdjustCommentCount(blogID, 1); err != nil {
		s.logger.Warn("failed to bump comment count",
			zap.String("blog_id", blogID), zap.Error(err))
	}
	return &c, nil
}

// getParent enforces one-level threading: the parent must live on the
// same post and must itself be a top-level comment.
func (s *Service) getParent(blogID, parentID string) (*models.CommentModel, error) {
	var parent models.CommentModel
	if err := s.db.First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coreerrors.NewValidation("parent_id", "parent comment not found")
		}
		return nil, err
	}
	if parent.BlogID != blogID {
		return nil, coreerrors.NewValidation("parent_id", "parent comment belongs to another post")
	}
	if parent.ParentID != nil {
		return nil, coreerrors.NewValidation("parent_id", "replies cannot be nested")
	}
	return &parent, nil
}

// Delete removes a comment and its replies. Only the comment author or
// an admin may delete.
func (s *Service) Delete(id, actorID string, role models.Role) error {
	var c models.CommentModel
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return coreerrors.ErrNotFound
		}
		return err
	}
	if c.AuthorID != actorID && !role.IsAdmin() {
		return coreerrors.ErrPermissionDenied
	}

	removed := int64(1)
	res := s.db.Where("parent_id = ?", c.ID).Delete(&models.CommentModel{})
	if res.Error != nil {
		return res.Error
	}
	removed += res.RowsAffected

	if err := s.db.Delete(&c).Error; err != nil {
		return err
	}
	if err := s.blogs.AdjustCommentCount(c.BlogID, -int(removed)); err != nil {
		s.logger.Warn("failed to lower comment count",
			zap.String("blog_id", c.BlogID), zap.Error(err))
	}
	return nil
}

// DeleteAllByBlog removes every comment on a post. Used by the
// moderation cascade; counters are gone with the post, so none are
// adjusted here.
func (s *Service) DeleteAllByBlog(blogID string) (int64, error) {
	res := s.db.Where("blog_id = ?", blogID).Delete(&models.CommentModel{})
	return res.RowsAffected, res.Error
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", coreerrors.NewValidation("text", "comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return "", coreerrors.NewValidation("text", "comment text is too long")
	}
	return text, nil
}
