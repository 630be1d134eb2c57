package main

import (
	"fmt"
	"os"

	"github.com/tripacker/tripacker-backend/internal/db"
	"github.com/tripacker/tripacker-backend/internal/handlers"
	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/repos"
	"github.com/tripacker/tripacker-backend/internal/server"
	"github.com/tripacker/tripacker-backend/internal/services"
	"github.com/tripacker/tripacker-backend/internal/sse"
	"github.com/tripacker/tripacker-backend/internal/utils"
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

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	tripRepo := repos.NewTripRepo(thePG, log)
	itemRepo := repos.NewItemRepo(thePG, log)
	tagRepo := repos.NewTagRepo(thePG, log)
	specialListRepo := repos.NewSpecialListRepo(thePG, log)
	specialListItemRepo := repos.NewSpecialListItemRepo(thePG, log)
	generatedListRepo := repos.NewGeneratedListRepo(thePG, log)
	generatedListItemRepo := repos.NewGeneratedListItemRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub...")
	sseHub := sse.NewSSEHub(log)

	// Services
	log.Info("Setting up services...")
	llmClient, err := services.NewOpenRouterClient(log)
	if err != nil {
		log.Error("Could not init OpenRouterClient", "error", err)
		os.Exit(1)
	}
	authService, err := services.NewAuthService(thePG, log, userRepo, userTokenRepo)
	if err != nil {
		log.Error("Could not init AuthService", "error", err)
		os.Exit(1)
	}
	userService := services.NewUserService(thePG, log, userRepo)
	tripService := services.NewTripService(thePG, log, tripRepo)
	itemService := services.NewItemService(thePG, log, itemRepo)
	specialListService := services.NewSpecialListService(thePG, log, specialListRepo, specialListItemRepo, itemRepo, tagRepo)
	promptBuilder := services.NewPromptBuilder(log)
	packingGenerator := services.NewPackingGenerator(log, llmClient, promptBuilder)
	generatedListService := services.NewGeneratedListService(
		thePG,
		log,
		packingGenerator,
		sseHub,
		tripRepo,
		generatedListRepo,
		generatedListItemRepo,
		specialListRepo,
	)

	// Handlers
	log.Info("Setting up handlers...")
	router := server.NewRouter(server.RouterDeps{
		Log:           log,
		AuthService:   authService,
		Healthcheck:   handlers.NewHealthcheckHandler(),
		Auth:          handlers.NewAuthHandler(authService),
		User:          handlers.NewUserHandler(userService),
		Trip:          handlers.NewTripHandler(tripService, generatedListService),
		GeneratedList: handlers.NewGeneratedListHandler(generatedListService),
		SpecialList:   handlers.NewSpecialListHandler(specialListService),
		Item:          handlers.NewItemHandler(itemService),
		SSE:           handlers.NewSSEHandler(sseHub),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
