package legacyimport

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/pkg/response"
)

const maxArchiveSize = 256 << 20

type Handler struct{ service *Service }

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

// Register mounts the import endpoint under the admin group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.POST("/import/legacy", h.importArchive)
}

func (h *Handler) importArchive(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing archive upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxArchiveSize+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if len(data) > maxArchiveSize {
		response.BadRequest(c, "archive too large")
		return
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		response.BadRequest(c, "invalid zip archive")
		return
	}

	report, err := h.service.ImportFromZip(zr)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
