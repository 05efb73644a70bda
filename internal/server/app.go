// Package server initializes and runs the storage backend: it selects a
// storage engine, mounts the HTTP API and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/scenesync/internal/logging"
	"github.com/dmitrijs2005/scenesync/internal/server/auth"
	"github.com/dmitrijs2005/scenesync/internal/server/config"
	"github.com/dmitrijs2005/scenesync/internal/server/handlers"
	"github.com/dmitrijs2005/scenesync/internal/server/storage"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager storage.Manager
	router  *gin.Engine
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var (
		manager storage.Manager
		err     error
	)
	if cfg.DatabaseDSN == "" {
		logger.Warn(context.Background(), "no database DSN configured, using in-memory storage")
		manager = storage.NewMemoryManager()
	} else {
		manager, err = storage.NewPostgresManager(context.Background(), cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	app := &App{config: cfg, logger: logger, manager: manager}
	app.router = app.buildRouter()

	return app, nil
}

func (app *App) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Browser clients hit the storage server cross-origin.
	corsConfig := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "If-Match", "X-Scene-Version"},
		ExposeHeaders:   []string{"ETag"},
		MaxAge:          12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v2")
	if app.config.AuthSecret != "" {
		api.Use(auth.Middleware(app.config.AuthSecret))
	}

	h := handlers.New(app.manager.Scenes(), app.manager.Blobs(), app.logger, app.config.MaxBodyBytes)
	h.Register(api)

	return router
}

// Router exposes the configured engine; tests mount it on httptest servers.
func (app *App) Router() http.Handler {
	return app.router
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting storage server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return app.manager.Close()
}
