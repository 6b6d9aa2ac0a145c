package moderation

// ReviewDTO is the request body for a review decision.
type ReviewDTO struct {
	Decision string `json:"decision" binding:"required"` // "approved" | "rejected"
	Notes    string `json:"notes"`
}
