// Package app wires the catalog's components together from a Config.
package app

import (
	"context"
	"fmt"

	"funko-catalog-api/internal/auth"
	"funko-catalog-api/internal/cache"
	"funko-catalog-api/internal/config"
	"funko-catalog-api/internal/database"
	"funko-catalog-api/internal/logging"
	"funko-catalog-api/internal/models"
	"funko-catalog-api/internal/realtime"
	"funko-catalog-api/internal/repository"
	"funko-catalog-api/internal/routes"
	"funko-catalog-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// App owns every long-lived component of a running catalog.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	DB       *gorm.DB
	Notifier *realtime.Notifier
	Service  *service.FunkoService
	Issuer   *auth.TokenIssuer
}

// New opens the database and builds the service graph described by cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logger := logging.New(logCfg)

	db, err := database.Open(cfg.Database.Path, cfg.Database.LogLevel)
	if err != nil {
		return nil, err
	}
	return build(ctx, cfg, logger, db)
}

func build(ctx context.Context, cfg *config.Config, logger zerolog.Logger, db *gorm.DB) (*App, error) {
	c, err := cache.New[string, models.Funko](cfg.Cache.MaxSize, cfg.Cache.TTL)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("create cache: %w", err)
	}

	repo := repository.NewGormFunkoRepository(db, repository.Options{
		StrictNameLookup: cfg.Repository.StrictNameLookup,
	})
	notifier := realtime.NewNotifier()

	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Notifier: notifier,
		Service:  service.NewFunkoService(repo, c, notifier),
		Issuer:   auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL),
	}

	logging.FromContext(logging.WithContext(ctx, logger)).Debug().
		Str("database", cfg.Database.Path).
		Int("cache_max_size", c.MaxSize()).
		Dur("cache_ttl", c.TTL()).
		Msg("application initialised")
	return a, nil
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return logging.WithContext(ctx, a.Logger)
}

// Router builds the HTTP handler tree.
func (a *App) Router() *gin.Engine {
	if a.Config.Server.Mode != "" {
		gin.SetMode(a.Config.Server.Mode)
	}
	return routes.SetupRoutes(routes.Dependencies{
		DB:       a.DB,
		Service:  a.Service,
		Notifier: a.Notifier,
		Issuer:   a.Issuer,
		Logger:   a.Logger,

		LoginRate:  a.Config.Server.LoginRateLimit.RequestsPerSecond,
		LoginBurst: a.Config.Server.LoginRateLimit.Burst,
	})
}

// Close stops the service and releases the database.
func (a *App) Close() error {
	a.Service.Shutdown()
	if err := database.Close(a.DB); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
