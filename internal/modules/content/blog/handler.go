package blog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/pkg/pagination"
	pkgredis "github.com/inkpress/core/internal/pkg/redis"
	"github.com/inkpress/core/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	viewDedupeWindow   = time.Hour
	defaultFeedLimit   = 10
	maxFeedLimit       = 50
	viewPersistTimeout = 5 * time.Second
)

// Handler handles blog HTTP requests.
type Handler struct {
	svc    *Service
	cache  *pkgredis.Client
	logger *zap.Logger
}

func NewHandler(svc *Service, cache *pkgredis.Client, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, cache: cache, logger: logger}
}

// RegisterRoutes mounts blog routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	blogs := rg.Group("/blogs")

	blogs.GET("", h.list)
	blogs.GET("/trending", h.trending)
	blogs.GET("/featured", h.featured)
	blogs.GET("/slug/:slug", h.getBySlug)
	blogs.POST("/:id/share", h.share)

	authed := blogs.Group("", authMW)
	authed.GET("/:id", h.getByID)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.POST("/:id/submit", h.submit)
}

// list GET /blogs
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	admin := middleware.IsAdmin(c)
	posts, pag, err := h.svc.List(q, lq, admin)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, toListResponse(posts, admin), pag)
}

// trending GET /blogs/trending
func (h *Handler) trending(c *gin.Context) {
	posts, err := h.svc.Trending(feedLimit(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toListResponse(posts, false))
}

// featured GET /blogs/featured
func (h *Handler) featured(c *gin.Context) {
	posts, err := h.svc.Featured(feedLimit(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toListResponse(posts, false))
}

// getBySlug GET /blogs/slug/:slug
//
// The public read path. Counting the view is decided here, at the caller
// side: redis keeps the (blog, visitor) dedupe window, and only a first
// sighting increments the counter.
func (h *Handler) getBySlug(c *gin.Context) {
	admin := middleware.IsAdmin(c)
	post, err := h.svc.GetBySlug(c.Param("slug"), !admin)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.countView(post.ID, visitorKey(c))
	response.OK(c, toResponse(post, admin))
}

// getByID GET /blogs/:id  [auth]
func (h *Handler) getByID(c *gin.Context) {
	post, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	admin := middleware.IsAdmin(c)
	if !admin && post.AuthorID != middleware.CurrentUserID(c) {
		response.Forbidden(c)
		return
	}
	response.OK(c, toResponse(post, true))
}

// create POST /blogs  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreateBlogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(middleware.CurrentUserID(c), middleware.CurrentRole(c), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(post, true))
}

// update PUT /blogs/:id  [auth]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateBlogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Update(c.Param("id"), middleware.CurrentUserID(c), middleware.CurrentRole(c), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(post, true))
}

// submit POST /blogs/:id/submit  [auth]
func (h *Handler) submit(c *gin.Context) {
	post, err := h.svc.Submit(c.Param("id"), middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(post, true))
}

// share POST /blogs/:id/share
func (h *Handler) share(c *gin.Context) {
	if err := h.svc.AdjustShareCount(c.Param("id"), 1); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// countView increments the view counter once per visitor per window.
// Fire-and-forget: the response does not wait, but failures are logged.
func (h *Handler) countView(blogID, visitor string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), viewPersistTimeout)
		defer cancel()

		first, err := h.cache.MarkViewed(ctx, blogID, visitor, viewDedupeWindow)
		if err != nil {
			h.logger.Warn("view dedupe check failed", zap.String("blog", blogID), zap.Error(err))
			return
		}
		if !first {
			return
		}
		if err := h.svc.IncrementView(blogID); err != nil {
			h.logger.Warn("view increment failed", zap.String("blog", blogID), zap.Error(err))
			return
		}
		middleware.ViewIncrements.Inc()
	}()
}

// visitorKey derives the per-viewer dedupe key from the client address and
// user agent.
func visitorKey(c *gin.Context) string {
	raw := c.ClientIP() + "|" + c.Request.UserAgent()
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}

func feedLimit(c *gin.Context) int {
	limit := defaultFeedLimit
	if raw, ok := c.GetQuery("limit"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return limit
}
