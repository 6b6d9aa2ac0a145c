package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/modules/auth/user"
	"github.com/inkpress/core/internal/modules/content/blog"
	"github.com/inkpress/core/internal/modules/content/comment"
	"github.com/inkpress/core/internal/modules/content/like"
	"github.com/inkpress/core/internal/modules/moderation"
	"github.com/inkpress/core/internal/modules/processing/ai"
	"github.com/inkpress/core/internal/modules/storage/legacyimport"
	pkgredis "github.com/inkpress/core/internal/pkg/redis"
	"github.com/inkpress/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/metrics", middleware.MetricsHandler())

	// Rate limiting and idempotence run on every API route (requires Redis).
	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	// Services; blog is the hub the others hang off.
	userSvc := user.NewService(db)
	blogSvc := blog.NewService(db, a.logger.Named("blog"))
	blogSvc.SetAuthorStats(userSvc)
	commentSvc := comment.NewService(db, blogSvc, a.logger.Named("comment"))
	likeSvc := like.NewService(db, blogSvc, a.logger.Named("like"))
	modSvc := moderation.NewService(blogSvc, commentSvc, likeSvc, userSvc, a.logger.Named("moderation"))
	aiSvc := ai.NewService(a.cfg.OpenAI, blogSvc, a.logger.Named("ai"))
	importSvc := legacyimport.NewService(db, a.logger.Named("import"))

	a.blogSvc = blogSvc

	user.NewHandler(userSvc).RegisterRoutes(api, authMW)
	blog.NewHandler(blogSvc, rc, a.logger.Named("blog")).RegisterRoutes(api, authMW)
	comment.NewHandler(commentSvc).RegisterRoutes(api, authMW)
	like.NewHandler(likeSvc).RegisterRoutes(api, authMW)
	moderation.NewHandler(modSvc).RegisterRoutes(api, authMW)

	admin := api.Group("/admin", authMW, middleware.AdminOnly())
	ai.NewHandler(aiSvc).RegisterRoutes(admin)
	legacyimport.NewHandler(importSvc).RegisterRoutes(admin)
}
