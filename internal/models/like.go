package models

// LikeModel records a single user's like on a blog post. One row per
// (blog, user) pair; liking again removes the row.
type LikeModel struct {
	Base
	BlogID string `json:"blog_id" gorm:"type:char(36);not null;uniqueIndex:idx_blog_user"`
	UserID string `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_blog_user"`
}

func (LikeModel) TableName() string { return "likes" }
