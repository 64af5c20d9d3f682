package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lexgen/lexgen-backend/internal/handlers"
	"github.com/lexgen/lexgen-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware      *middleware.AuthMiddleware
	CaseHandler         *handlers.CaseHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	UserHandler         *handlers.UserHandler
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

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

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/cases/screen", cfg.CaseHandler.Screen)
		api.POST("/cases/generate", cfg.CaseHandler.Generate)
		api.POST("/cases/sessions", cfg.CaseHandler.StartSession)
		api.POST("/cases/sessions/:id/messages", cfg.CaseHandler.PostMessage)
		api.GET("/cases", cfg.CaseHandler.List)
		api.GET("/cases/:id", cfg.CaseHandler.Get)
		api.PUT("/cases/:id/content", cfg.CaseHandler.SaveContent)

		api.GET("/subscription", cfg.SubscriptionHandler.GetSubscription)
		api.GET("/overview", cfg.SubscriptionHandler.Overview)

		api.GET("/me", cfg.UserHandler.GetMe)
	}

	return router
}
