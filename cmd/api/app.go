package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"listings/internal/config"
	"listings/internal/location"
	"listings/internal/notice"
	"listings/internal/profile"
	"listings/internal/providers/profiles"
)

// App encapsulates application dependencies
type App struct {
	engine          *gin.Engine
	api             huma.API
	logger          *slog.Logger
	locationService location.Service
	profileService  profile.Service
	noticeService   notice.Service
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	dataset, err := location.OpenDataset(cfg.App.DatasetPath)
	if err != nil {
		return nil, err
	}

	locationService, err := location.NewLocationService(dataset, cfg.Upstream.UserAgent, cfg.Upstream.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create location service: %w", err)
	}

	profileClient := profiles.NewClient(logger, cfg.Upstream.BaseURL, cfg.Upstream.UserAgent, cfg.Upstream.Timeout)

	redisStore := notice.NewRedisStore(notice.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), "notice:")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisStore.Ping(ctx); err != nil {
		// Dismissals fail until Redis is back, reads degrade to showing the notice
		logger.Warn("redis unavailable at startup", "addr", cfg.Redis.Addr, "error", err)
	}

	gin.SetMode(cfg.Server.GinMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Create Huma API on top of gin
	humaConfig := huma.DefaultConfig("Listings API", "1.0.0")
	humaConfig.Info.Description = "Location search and profile listings for the directory"
	humaConfig.Info.Contact = &huma.Contact{
		Name:  "API Support",
		Email: "support@example.com",
	}
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://localhost%s", cfg.GetServerAddr()), Description: "Development server"},
	}

	api := humagin.New(engine, humaConfig)

	// Swagger UI reads the document huma generates
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json")))

	app := &App{
		engine:          engine,
		api:             api,
		logger:          logger,
		locationService: locationService,
		profileService:  profile.NewProfileService(profileClient, cfg.App.PageSize, logger),
		noticeService:   notice.NewNoticeService(redisStore, logger),
	}

	logger.Info("application initialized", "counties", len(dataset))

	// Register routes
	app.registerRoutes()

	return app, nil
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
