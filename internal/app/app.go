package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/astrovows/starlight-backend/internal/catalog"
	rediscache "github.com/astrovows/starlight-backend/internal/clients/redis"
	"github.com/astrovows/starlight-backend/internal/db"
	"github.com/astrovows/starlight-backend/internal/handlers"
	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/observability"
	"github.com/astrovows/starlight-backend/internal/repos"
	"github.com/astrovows/starlight-backend/internal/server"
	"github.com/astrovows/starlight-backend/internal/services"
	"github.com/astrovows/starlight-backend/internal/utils"
)

type App struct {
	Log     *logger.Logger
	Cfg     Config
	Router  *gin.Engine
	Catalog *services.CatalogService

	cache        rediscache.SuggestionCache
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
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
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "starlight-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	// Catalog engine.
	fetcher := catalog.NewHTTPFetcher(log)
	loader := catalog.NewLoader(fetcher, cfg.CatalogFetchTimeout, log)
	catalogSvc := services.NewCatalogService(loader, cfg.CatalogURL, cfg.CatalogDecompressed, cfg.CatalogWarmDelay, log)

	// AI generator collaborator; the resolver degrades without it.
	var stargen services.StarGenClient
	if utils.GetEnv("STARGEN_BASE_URL", "", nil) != "" {
		stargen, err = services.NewStarGenClient(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init stargen client: %w", err)
		}
	} else {
		log.Warn("STARGEN_BASE_URL not set, AI suggestion stage disabled")
	}

	resolver, err := services.NewSuggestionService(catalogSvc, stargen, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init suggestion service: %w", err)
	}

	// Optional redis suggestion cache.
	var cache rediscache.SuggestionCache
	if utils.GetEnv("REDIS_ADDR", "", nil) != "" {
		cache, err = rediscache.NewSuggestionCache(log)
		if err != nil {
			log.Warn("redis suggestion cache unavailable, continuing without it", "error", err)
			cache = nil
		}
	}

	// Persistence edge for dedications.
	var dedicationHandler *handlers.DedicationHandler
	if cfg.DedicationsEnabled {
		dbSvc, err := db.NewService(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init database: %w", err)
		}
		if err := dbSvc.AutoMigrateAll(); err != nil {
			log.Sync()
			return nil, fmt.Errorf("database automigrate: %w", err)
		}
		dedicationRepo := repos.NewDedicationRepo(dbSvc.DB(), log)
		dedicationHandler = handlers.NewDedicationHandler(dedicationRepo, catalogSvc, log)
	}

	router := server.NewRouter(server.RouterConfig{
		Log:               log,
		HealthHandler:     handlers.NewHealthHandler(),
		StarHandler:       handlers.NewStarHandler(catalogSvc, log),
		SuggestionHandler: handlers.NewSuggestionHandler(resolver, cache, log),
		DedicationHandler: dedicationHandler,
		CatalogHandler:    handlers.NewCatalogHandler(catalogSvc, log),
		AllowOrigins:      cfg.AllowOrigins,
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		Router:       router,
		Catalog:      catalogSvc,
		cache:        cache,
		otelShutdown: otelShutdown,
	}, nil
}

// Start kicks off the deferred background catalog warm-up.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Catalog.StartBackgroundWarm(ctx)
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("listening", "addr", a.Cfg.Addr)
	return a.Router.Run(a.Cfg.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	a.Log.Sync()
}
