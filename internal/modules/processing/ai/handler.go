package ai

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/pkg/response"
)

type Handler struct{ service *Service }

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

// Register mounts the summary endpoint under the admin group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.POST("/ai/summary/:id", h.summarize)
	admin.GET("/ai/status", h.status)
}

func (h *Handler) summarize(c *gin.Context) {
	blog, err := h.service.SummarizeBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": blog.ID, "summary": blog.Summary})
}

func (h *Handler) status(c *gin.Context) {
	response.OK(c, gin.H{"enabled": h.service.Enabled()})
}
