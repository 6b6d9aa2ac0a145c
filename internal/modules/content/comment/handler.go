package comment

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
)

type Handler struct{ service *Service }

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	r.GET("/blogs/:id/comments", h.list)

	authed := r.Group("", authMW)
	authed.POST("/blogs/:id/comments", h.create)
	authed.DELETE("/comments/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	comments, pag, err := h.service.ListByBlog(c.Param("id"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, comments, pag)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	created, err := h.service.Create(
		c.Param("id"),
		middleware.CurrentUserID(c),
		c.ClientIP(),
		c.Request.UserAgent(),
		&dto,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

func (h *Handler) delete(c *gin.Context) {
	err := h.service.Delete(c.Param("id"), middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
