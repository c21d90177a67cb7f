package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetup-api/core/cache"
	"meetup-api/core/config"
	"meetup-api/core/constants"
	"meetup-api/core/database"
	"meetup-api/core/logger"
	"meetup-api/core/middleware"
	"meetup-api/core/push"
	"meetup-api/core/queue"
	"meetup-api/modules/event"
	"meetup-api/modules/notification"
	"meetup-api/modules/presence"
	"meetup-api/modules/reminder"
	"meetup-api/modules/review"
	"meetup-api/modules/user"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run wires every module, starts the HTTP server and the task worker, and
// blocks until SIGINT/SIGTERM.
func Run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Logger.Level, cfg.Logger.Pretty)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer redisCache.Close()

	queueClient, err := queue.NewClient(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("init queue client: %w", err)
	}
	defer queueClient.Close()

	queueInspector, err := queue.NewInspector(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("init queue inspector: %w", err)
	}

	worker, err := queue.NewServer(cfg.Redis.URL, constants.QueueDefault, constants.QueueReminders)
	if err != nil {
		return fmt.Errorf("init task worker: %w", err)
	}

	var sender push.Sender
	if cfg.Push.Enabled {
		sender = push.NewExpoSender(cfg.Push.ExpoURL)
	} else {
		sender = push.NoopSender{}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.New()
	api := e.Group("/api/v1")
	public := api.Group("/public")
	private := api.Group("/private")

	notifSvc := notification.Init(private, db, sender, mw)
	reminderSvc := reminder.Init(queueClient, queueInspector)
	userRepo := user.Init(public, private, db, notifSvc, mw)
	eventRepo := event.Init(private, db, reminderSvc, notifSvc, userRepo, mw)
	reminder.RegisterWorker(worker, eventRepo, notifSvc)
	review.Init(private, db, eventRepo, mw)
	presence.Init(private, redisCache, userRepo, mw)

	if err := worker.Start(); err != nil {
		return fmt.Errorf("start task worker: %w", err)
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", err)
		}
	}()
	logger.Info("Server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
