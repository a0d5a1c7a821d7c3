package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/astrovows/starlight-backend/internal/handlers"
	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/middleware"
)

type RouterConfig struct {
	Log               *logger.Logger
	HealthHandler     *handlers.HealthHandler
	StarHandler       *handlers.StarHandler
	SuggestionHandler *handlers.SuggestionHandler
	DedicationHandler *handlers.DedicationHandler
	CatalogHandler    *handlers.CatalogHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("starlight-backend"))
	router.Use(middleware.RequestLogger(cfg.Log))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/stars", cfg.StarHandler.ListStars)
		api.GET("/stars/:id", cfg.StarHandler.GetStar)

		api.GET("/suggestions/:emotion", cfg.SuggestionHandler.GetSuggestions)

		if cfg.DedicationHandler != nil {
			api.POST("/dedications", cfg.DedicationHandler.Create)
			api.GET("/dedications", cfg.DedicationHandler.List)
			api.GET("/dedications/:id", cfg.DedicationHandler.GetByID)
		}

		api.GET("/catalog/status", cfg.CatalogHandler.Status)
		api.POST("/catalog/reload", cfg.CatalogHandler.Reload)
	}

	return router
}
