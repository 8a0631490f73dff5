// Sleep Forecast API
//
// REST API that forecasts sleep quality from nightly diary entries.
//
//	@title			Sleep Forecast API
//	@version		1.0
//	@description	Record nightly sleep diary entries and forecast sleep efficiency 1-7 nights ahead with a per-user latent dynamics model.
//
//	@BasePath	/v1
//
//	@tag.name			users
//	@tag.description	User management endpoints
//
//	@tag.name			diary
//	@tag.description	Sleep diary entry endpoints
//
//	@tag.name			forecast
//	@tag.description	Sleep forecasting endpoints
//
//	@tag.name			forecast-insights
//	@tag.description	LLM-narrated forecast endpoints
//
//	@tag.name			model
//	@tag.description	Shared model diagnostics
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/noctalab/sleep-forecast/internal/api"
	"github.com/noctalab/sleep-forecast/internal/api/handler"
	"github.com/noctalab/sleep-forecast/internal/config"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/noctalab/sleep-forecast/internal/forecast"
	"github.com/noctalab/sleep-forecast/internal/langfuse"
	"github.com/noctalab/sleep-forecast/internal/llm"
	"github.com/noctalab/sleep-forecast/internal/repository"
	"github.com/noctalab/sleep-forecast/internal/seed"
	"github.com/noctalab/sleep-forecast/internal/service"
	"github.com/noctalab/sleep-forecast/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Initialize tracing (no-op when Langfuse is not configured)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "sleep-forecast-api")
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Tracer shutdown error: %v", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&domain.User{}, &domain.DiaryEntry{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if cfg.Seed {
		log.Println("Seeding database with sample data (SEED=true)...")
		if err := seed.Run(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize the forecasting engine
	engineCfg := forecast.DefaultConfig()
	engineCfg.Seed = cfg.EngineSeed
	engineCfg.LearningRate = cfg.LearningRate
	engineCfg.MinHistoryEntries = cfg.MinHistoryEntries
	engine, err := forecast.NewEngine(engineCfg)
	if err != nil {
		log.Fatalf("Failed to create forecasting engine: %v", err)
	}
	engine.Initialize()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)

	// Initialize services
	loader := service.NewEngineLoader(engine, diaryRepo)
	userService := service.NewUserService(userRepo)
	diaryService := service.NewDiaryService(diaryRepo, userRepo, loader)
	forecastService := service.NewForecastService(engine, userRepo, loader)

	// Initialize OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIForecastModel)
	if openaiClient == nil {
		log.Println("Warning: OpenAI API key not configured, insights endpoint will be unavailable")
	} else if cfg.LangfusePromptName != "" {
		// Prefer a prompt managed in Langfuse over the built-in one
		prompt, err := langfuse.LoadPrompt(ctx, langfuse.PromptLoaderConfig{
			BaseURL:    cfg.LangfuseBaseURL,
			PublicKey:  cfg.LangfusePublicKey,
			SecretKey:  cfg.LangfuseSecretKey,
			PromptName: cfg.LangfusePromptName,
			SavePath:   ".prompts/" + cfg.LangfusePromptName + ".txt",
		})
		if err != nil {
			log.Printf("Warning: failed to load prompt %q, using built-in: %v", cfg.LangfusePromptName, err)
		} else {
			openaiClient.SetSystemPrompt(prompt)
		}
	}

	// Initialize Langfuse client for feedback scoring
	langfuseClient := langfuse.NewClient(langfuse.Config{
		BaseURL:     cfg.LangfuseBaseURL,
		PublicKey:   cfg.LangfusePublicKey,
		SecretKey:   cfg.LangfuseSecretKey,
		Environment: cfg.LangfuseEnv,
	})

	// Initialize insights service
	insightsService := service.NewInsightsService(forecastService, openaiClient, loader)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	diaryHandler := handler.NewDiaryHandler(diaryService)
	forecastHandler := handler.NewForecastHandler(forecastService)
	insightsHandler := handler.NewInsightsHandler(insightsService, langfuseClient)

	// Setup router
	router := api.NewRouter(userHandler, diaryHandler, forecastHandler, insightsHandler)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
