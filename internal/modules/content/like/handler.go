package like

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/pkg/response"
)

type Handler struct{ service *Service }

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	authed := r.Group("", authMW)
	authed.POST("/blogs/:id/like", h.toggle)
	authed.GET("/blogs/:id/like", h.status)
}

func (h *Handler) toggle(c *gin.Context) {
	liked, err := h.service.Toggle(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"liked": liked})
}

func (h *Handler) status(c *gin.Context) {
	liked, err := h.service.Liked(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"liked": liked})
}
