package cmd

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/config"
	"tg-miniapp-backend/internal/handlers"
	"tg-miniapp-backend/internal/metrics"
	"tg-miniapp-backend/internal/middleware"
	"tg-miniapp-backend/internal/repository"
	"tg-miniapp-backend/internal/services"
	"tg-miniapp-backend/internal/websocket"
)

// routerDeps is everything the HTTP layer is built from. Storage and Limiter may be nil.
type routerDeps struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Repo    repository.Repository
	Swipes  handlers.Swiper
	Reports *services.ReportService
	Storage handlers.Uploader
	Limiter middleware.Counter
	Hub     *websocket.Hub
}

func setupRoutes(d routerDeps) *gin.Engine {
	cfg, log := d.Config, d.Logger

	authHandler := handlers.NewAuthHandler(d.Repo, d.Repo, cfg, log)
	datingHandler := handlers.NewDatingHandler(d.Repo, d.Swipes, log)
	listingHandler := handlers.NewListingHandler(d.Repo, log)
	reportHandler := handlers.NewReportHandler(d.Reports, d.Storage, log)
	adminHandler := handlers.NewAdminHandler(d.Repo, d.Reports, log)
	wsHandler := handlers.NewWSHandler(d.Hub)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(metrics.HTTPMetricsMiddleware())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.AuthRequired(cfg.JWTSecret)
	userRequired := middleware.UserRequired(d.Repo, log)
	swipeLimit := middleware.RateLimit(d.Limiter, "swipe", cfg.SwipeRateLimit, time.Minute, log)
	reportLimit := middleware.RateLimit(d.Limiter, "report", cfg.ReportRateLimit, time.Hour, log)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/telegram", authHandler.Telegram)
			auth.POST("/moderator", authHandler.Moderator)
		}

		dating := v1.Group("/dating")
		dating.Use(authRequired, userRequired)
		{
			dating.GET("/profile", datingHandler.GetProfile)
			dating.PUT("/profile", datingHandler.SaveProfile)
			dating.POST("/profile/activate", datingHandler.ActivateProfile)
			dating.POST("/profile/deactivate", datingHandler.DeactivateProfile)
			dating.GET("/feed", datingHandler.Feed)
			dating.POST("/swipes", swipeLimit, datingHandler.Swipe)
			dating.GET("/matches", datingHandler.Matches)
			dating.POST("/reports", reportLimit, reportHandler.ReportUser)
		}

		listings := v1.Group("/listings")
		listings.Use(authRequired, userRequired)
		{
			listings.POST("/:section", listingHandler.Create)
			listings.GET("/:section", listingHandler.List)
			listings.GET("/:section/:id", listingHandler.Get)
			listings.POST("/:section/:id/reports", reportLimit, reportHandler.ReportListing)
		}

		v1.POST("/reports/attachments", authRequired, userRequired, reportLimit, reportHandler.UploadAttachment)

		v1.GET("/ws", authRequired, userRequired, wsHandler.Connect)

		admin := v1.Group("/admin")
		admin.Use(authRequired, middleware.ModeratorRequired(d.Repo, log))
		{
			admin.GET("/reports", adminHandler.GetReports)
			admin.POST("/reports/:kind/:id/resolve", adminHandler.ResolveReport)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.PUT("/listings/:section/:id/status", adminHandler.UpdateListingStatus)
			admin.GET("/stats", adminHandler.GetStats)
		}
	}

	return router
}
