package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/data/db"
	"github.com/studyhall/lms-backend/internal/events"
	lmshttp "github.com/studyhall/lms-backend/internal/http"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Bus      events.Bus

	server *lmshttp.Server
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	bus, err := events.NewRedisBus(log)
	if err != nil {
		log.Warn("redis unavailable, events disabled", "error", err)
		bus = events.NewNoopBus()
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, bus)
	handlerset := wireHandlers(theDB, log, serviceset)
	authMW := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, authMW)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Bus:      bus,
		server:   &lmshttp.Server{Engine: router},
	}, nil
}

func (a *App) Run() error {
	a.Log.Info("Starting HTTP server", "port", a.Cfg.Port)
	return a.server.Run(":" + a.Cfg.Port)
}

func (a *App) Shutdown(ctx context.Context) error {
	defer a.Log.Sync()
	if err := a.Bus.Close(); err != nil {
		a.Log.Warn("close event bus", "error", err)
	}
	return a.server.Shutdown(ctx)
}
