package comment

// CreateCommentDTO is the payload for posting a comment on a blog post.
type CreateCommentDTO struct {
	Text     string  `json:"text" binding:"required"`
	ParentID *string `json:"parent_id"`
}
