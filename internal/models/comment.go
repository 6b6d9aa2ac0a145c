package models

// CommentModel represents a reader comment on a blog post.
type CommentModel struct {
	Base
	BlogID     string  `json:"blog_id"     gorm:"type:char(36);not null;index"`
	AuthorID   string  `json:"author_id"   gorm:"type:char(36);index"`
	AuthorName string  `json:"author_name" gorm:"not null"`
	Text       string  `json:"text"        gorm:"type:text;not null"`
	ParentID   *string `json:"parent_id"   gorm:"type:char(36);index"`
	IP         string  `json:"-"`
	Agent      string  `json:"-"           gorm:"type:varchar(512)"`

	Replies []CommentModel `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

func (CommentModel) TableName() string { return "comments" }
