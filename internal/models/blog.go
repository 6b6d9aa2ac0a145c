package models

import "time"

// BlogStatus is the lifecycle state of a blog post.
type BlogStatus string

const (
	StatusDraft    BlogStatus = "draft"
	StatusPending  BlogStatus = "pending"
	StatusApproved BlogStatus = "approved"
	StatusRejected BlogStatus = "rejected"
	StatusHidden   BlogStatus = "hidden"
)

// Valid reports whether s is a known status value.
func (s BlogStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusHidden:
		return true
	}
	return false
}

// StringSlice is a []string that serializes as JSON in MySQL.
type StringSlice []string

// BlogMetrics holds the engagement counters of a post.
type BlogMetrics struct {
	Views    int `json:"views"    gorm:"default:0"`
	Likes    int `json:"likes"    gorm:"default:0"`
	Comments int `json:"comments" gorm:"default:0"`
	Shares   int `json:"shares"   gorm:"default:0"`
}

// BlogModel is a blog post.
//
// Slug carries a plain (non-unique) index: uniqueness only holds among
// approved posts and is enforced by the slug allocator, not the schema.
type BlogModel struct {
	Base
	Title   string `json:"title"   gorm:"not null"`
	Slug    string `json:"slug"    gorm:"index;not null"`
	Content string `json:"content" gorm:"type:longtext"`
	Summary string `json:"summary"`

	Status   BlogStatus `json:"status"    gorm:"type:varchar(16);default:'draft';index"`
	AuthorID string     `json:"author_id" gorm:"type:char(36);not null;index"`

	PublishedAt *time.Time `json:"published_at"`
	ReviewedBy  *string    `json:"reviewed_by" gorm:"type:char(36)"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	AdminNotes  string     `json:"admin_notes"`

	Metrics       BlogMetrics `json:"metrics"        gorm:"embedded;embeddedPrefix:metric_"`
	TrendingScore float64     `json:"trending_score" gorm:"default:0;index"`

	IsFeatured       bool `json:"is_featured"        gorm:"default:false;index"`
	IsPinned         bool `json:"is_pinned"          gorm:"default:false"`
	IsCommentEnabled bool `json:"is_comment_enabled" gorm:"default:true"`

	ReadingTime int         `json:"reading_time" gorm:"default:0"`
	Tags        StringSlice `json:"tags"         gorm:"type:json;serializer:json"`
}

func (BlogModel) TableName() string { return "blogs" }

// ScoreReference returns the timestamp the trending decay is measured from:
// publishedAt once set, createdAt before first approval.
func (b *BlogModel) ScoreReference() time.Time {
	if b.PublishedAt != nil {
		return *b.PublishedAt
	}
	return b.CreatedAt
}
