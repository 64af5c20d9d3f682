package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lexgen/lexgen-backend/internal/config"
	"github.com/lexgen/lexgen-backend/internal/db"
	"github.com/lexgen/lexgen-backend/internal/handlers"
	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/middleware"
	"github.com/lexgen/lexgen-backend/internal/repos"
	"github.com/lexgen/lexgen-backend/internal/server"
	"github.com/lexgen/lexgen-backend/internal/services"
	"github.com/lexgen/lexgen-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "", nil)
	if jwtSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}
	maxRetries := utils.GetEnvAsInt("GENERATION_MAX_RETRIES", 2, log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Policy
	policy, err := config.LoadPolicy(log)
	if err != nil {
		log.Fatal("Could not load policy config", "error", err)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	subscriptionRepo := repos.NewSubscriptionRepo(thePG, log)
	legalCaseRepo := repos.NewLegalCaseRepo(thePG, log)
	aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	moderationService := services.NewModerationService(log, policy.Moderation)
	turnClassifier := services.NewHeuristicTurnClassifier(policy.Conversation)
	geminiClient, err := services.NewGeminiClient(log)
	if err != nil {
		log.Fatal("Could not init GeminiClient", "error", err)
	}
	sessionStore, err := services.NewRedisSessionStore(log)
	if err != nil {
		log.Warn("Redis init failed, falling back to in-memory session store", "error", err)
		sessionStore = services.NewMemorySessionStore()
	}
	caseGenService := services.NewCaseGenerationService(
		thePG, log,
		moderationService, turnClassifier, geminiClient, sessionStore,
		subscriptionRepo, legalCaseRepo, aiCallLogRepo,
		maxRetries,
	)
	caseService := services.NewCaseService(thePG, log, legalCaseRepo, subscriptionRepo)
	subscriptionService := services.NewSubscriptionService(thePG, log, subscriptionRepo, legalCaseRepo)
	userService := services.NewUserService(thePG, log, userRepo)

	// Handlers
	caseHandler := handlers.NewCaseHandler(caseGenService, caseService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	userHandler := handlers.NewUserHandler(userService)
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:      authMiddleware,
		CaseHandler:         caseHandler,
		SubscriptionHandler: subscriptionHandler,
		UserHandler:         userHandler,
		AllowOrigins:        origins,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
