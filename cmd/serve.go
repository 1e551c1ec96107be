package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"tg-miniapp-backend/internal/database"
	"tg-miniapp-backend/internal/events"
	"tg-miniapp-backend/internal/handlers"
	"tg-miniapp-backend/internal/middleware"
	"tg-miniapp-backend/internal/rabbitmq"
	"tg-miniapp-backend/internal/redis"
	repogorm "tg-miniapp-backend/internal/repository/gorm"
	"tg-miniapp-backend/internal/services"
	"tg-miniapp-backend/internal/telegram"
	"tg-miniapp-backend/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the Mini App API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.Initialize(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get *sql.DB: %w", err)
	}
	defer sqlDB.Close()
	repo := repogorm.NewGormRepository(db)

	// Redis is optional: without it rate limits are off and realtime stays on this instance.
	var (
		limiter middleware.Counter
		broker  websocket.Broker
	)
	if cfg.RedisURL != "" {
		rc, err := redis.Initialize(cfg.RedisURL, logger)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, continuing without rate limits and cross-instance realtime")
		} else {
			defer rc.Close()
			limiter, broker = rc, rc
		}
	}

	// Realtime
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	relay := websocket.NewRelay(hub, broker, logger)
	go relay.Run(ctx)

	// Event sinks
	amqp := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer amqp.Close()
	sinks := []events.Sink{amqp, relay}
	if cfg.TelegramNotify && cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramBotToken)
		if err != nil {
			logger.WithError(err).Warn("telegram notifications disabled")
		} else {
			sinks = append(sinks, telegram.NewNotifier(bot, repo, logger))
		}
	}
	bus := events.NewBus(logger, sinks...)
	defer bus.Close()
	logger.WithField("amqp", rabbitmq.PublisherMode(amqp)).WithField("sinks", len(sinks)).Info("event bus ready")

	// Attachment storage
	var uploader handlers.Uploader
	if cfg.StorageEnabled() {
		storage, err := services.NewStorageService(cfg, logger)
		if err != nil {
			logger.WithError(err).Warn("attachment uploads disabled")
		} else {
			bctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := storage.EnsureBucket(bctx); err != nil {
				logger.WithError(err).Warn("failed to ensure attachment bucket")
			}
			cancel()
			uploader = storage
		}
	}

	if err := handlers.RegisterValidators(); err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	router := setupRoutes(routerDeps{
		Config:  cfg,
		Logger:  logger,
		Repo:    repo,
		Swipes:  services.NewSwipeService(repo, bus, logger),
		Reports: services.NewReportService(repo, bus, logger),
		Storage: uploader,
		Limiter: limiter,
		Hub:     hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.WithError(err).Warn("abnormal shutdown")
	}
	logger.Info("server stopped")
	return nil
}
