package moderation

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/coreerrors"
	"github.com/inkpress/core/internal/pkg/response"
)

// Handler handles moderation HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts moderation routes. Review and toggles are admin-only;
// delete is open to the owner too, with the service enforcing ownership.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.DELETE("/blogs/:id", authMW, h.delete)

	admin := rg.Group("/admin/blogs", authMW, middleware.AdminOnly())
	admin.POST("/:id/review", h.review)
	admin.POST("/:id/feature", h.toggleFeatured)
	admin.POST("/:id/visibility", h.toggleVisibility)
}

// review POST /admin/blogs/:id/review
func (h *Handler) review(c *gin.Context) {
	var dto ReviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Review(
		c.Param("id"),
		models.BlogStatus(dto.Decision),
		dto.Notes,
		middleware.CurrentUserID(c),
		middleware.CurrentRole(c),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.ModerationDecisions.WithLabelValues(string(post.Status)).Inc()
	response.OK(c, reviewResponse(post))
}

// toggleFeatured POST /admin/blogs/:id/feature
func (h *Handler) toggleFeatured(c *gin.Context) {
	post, err := h.svc.ToggleFeatured(c.Param("id"), middleware.CurrentRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": post.ID, "isFeatured": post.IsFeatured})
}

// toggleVisibility POST /admin/blogs/:id/visibility
func (h *Handler) toggleVisibility(c *gin.Context) {
	post, err := h.svc.ToggleVisibility(c.Param("id"), middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": post.ID, "status": post.Status})
}

// delete DELETE /blogs/:id  [auth: owner or admin]
func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		if errors.Is(err, coreerrors.ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func reviewResponse(b *models.BlogModel) gin.H {
	resp := gin.H{
		"id":         b.ID,
		"status":     b.Status,
		"adminNotes": b.AdminNotes,
		"slug":       b.Slug,
	}
	if b.PublishedAt != nil {
		resp["publishedAt"] = b.PublishedAt.Format(time.RFC3339)
	}
	return resp
}
