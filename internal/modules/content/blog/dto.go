package blog

import (
	"time"

	"github.com/inkpress/core/internal/models"
)

// CreateBlogDTO is the request body for creating a post.
type CreateBlogDTO struct {
	Title            string   `json:"title"   binding:"required"`
	Content          string   `json:"content" binding:"required"`
	Summary          string   `json:"summary"`
	Tags             []string `json:"tags"`
	Status           *string  `json:"status"` // admins may create directly approved
	IsCommentEnabled *bool    `json:"isCommentEnabled"`
}

// UpdateBlogDTO is the request body for updating a post (all fields optional).
type UpdateBlogDTO struct {
	Title            *string  `json:"title"`
	Content          *string  `json:"content"`
	Summary          *string  `json:"summary"`
	Tags             []string `json:"tags"`
	IsCommentEnabled *bool    `json:"isCommentEnabled"`
	IsPinned         *bool    `json:"isPinned"` // admin only
}

// ListQuery holds query params for listing posts.
type ListQuery struct {
	Status *string `form:"status"` // admin only
	Author *string `form:"author"`
	Tag    *string `form:"tag"`
	Sort   *string `form:"sort"` // "recent" (default) | "trending"
}

// blogResponse is the API response shape for a post.
type blogResponse struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Slug             string             `json:"slug"`
	Content          string             `json:"content,omitempty"`
	Summary          string             `json:"summary"`
	Status           models.BlogStatus  `json:"status"`
	AuthorID         string             `json:"authorId"`
	PublishedAt      *time.Time         `json:"publishedAt"`
	ReviewedBy       *string            `json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time         `json:"reviewedAt,omitempty"`
	AdminNotes       string             `json:"adminNotes,omitempty"`
	Metrics          models.BlogMetrics `json:"metrics"`
	TrendingScore    float64            `json:"trendingScore"`
	IsFeatured       bool               `json:"isFeatured"`
	IsPinned         bool               `json:"isPinned"`
	IsCommentEnabled bool               `json:"isCommentEnabled"`
	ReadingTime      int                `json:"readingTime"`
	Tags             []string           `json:"tags"`
	Created          time.Time          `json:"created"`
	Modified         *time.Time         `json:"modified"`
}

// toResponse serializes a post. Review fields are only included for
// moderators and the owner.
func toResponse(b *models.BlogModel, includeReview bool) blogResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	var modified *time.Time
	if !b.UpdatedAt.IsZero() {
		modifiedAt := b.UpdatedAt
		modified = &modifiedAt
	}
	resp := blogResponse{
		ID:               b.ID,
		Title:            b.Title,
		Slug:             b.Slug,
		Content:          b.Content,
		Summary:          b.Summary,
		Status:           b.Status,
		AuthorID:         b.AuthorID,
		PublishedAt:      b.PublishedAt,
		Metrics:          b.Metrics,
		TrendingScore:    b.TrendingScore,
		IsFeatured:       b.IsFeatured,
		IsPinned:         b.IsPinned,
		IsCommentEnabled: b.IsCommentEnabled,
		ReadingTime:      b.ReadingTime,
		Tags:             tags,
		Created:          b.CreatedAt,
		Modified:         modified,
	}
	if includeReview {
		resp.ReviewedBy = b.ReviewedBy
		resp.ReviewedAt = b.ReviewedAt
		resp.AdminNotes = b.AdminNotes
	}
	return resp
}

// toListResponse serializes posts for list endpoints, dropping the full
// content body.
func toListResponse(posts []models.BlogModel, includeReview bool) []blogResponse {
	items := make([]blogResponse, len(posts))
	for i, p := range posts {
		items[i] = toResponse(&p, includeReview)
		items[i].Content = ""
	}
	return items
}
