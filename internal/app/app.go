package app

import (
	"context"
	"fmt"
	"net/http"

	"gift-tracker-go/internal/config"
	"gift-tracker-go/internal/db"
	importsdomain "gift-tracker-go/internal/domain/imports"
	mergedomain "gift-tracker-go/internal/domain/merge"
	registrydomain "gift-tracker-go/internal/domain/registry"
	"gift-tracker-go/internal/metrics"
	registryrepo "gift-tracker-go/internal/repository/registry"
	"gift-tracker-go/internal/transport/httpserver"
	"gift-tracker-go/internal/transport/httpserver/handler"
	"gift-tracker-go/pkg/logger"
	"gorm.io/gorm"
)

type Services struct {
	Resolver  *registrydomain.Resolver
	Directory *registrydomain.Directory
	Imports   *importsdomain.Service
	Merge     *mergedomain.Service
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	db         *gorm.DB
	services   Services
	httpServer *http.Server
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg, log)
}

func NewWithConfig(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(ctx, dbConn, cfg.DB.Driver, log); err != nil {
			_ = db.Close(dbConn)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	recorder := metrics.New()
	repo := registryrepo.NewGorm(dbConn)
	resolver := registrydomain.NewResolver(repo, recorder)
	services := Services{
		Resolver:  resolver,
		Directory: registrydomain.NewDirectory(repo),
		Imports:   importsdomain.NewService(repo, resolver, recorder),
		Merge:     mergedomain.NewService(repo, recorder),
	}

	log.Info("app: initializing router")
	handlers := handler.New(services.Resolver, services.Directory, services.Imports, services.Merge, log)
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = recorder.Handler()
	}
	router := httpserver.NewRouter(cfg, handlers, metricsHandler, log)

	return &App{
		cfg:        cfg,
		log:        log,
		db:         dbConn,
		services:   services,
		httpServer: httpserver.New(cfg, router),
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Services() Services {
	return a.services
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return db.Close(a.db)
}
