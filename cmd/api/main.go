package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medtriage/backend/internal/adapters/cache"
	"github.com/medtriage/backend/internal/adapters/database"
	"github.com/medtriage/backend/internal/adapters/search"
	"github.com/medtriage/backend/internal/adapters/storage"
	"github.com/medtriage/backend/internal/api/handlers"
	"github.com/medtriage/backend/internal/api/middleware"
	"github.com/medtriage/backend/internal/api/routes"
	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/domain/providers"
	"github.com/medtriage/backend/internal/domain/repositories"
	"github.com/medtriage/backend/internal/infrastructure/clients/postgres"
	"github.com/medtriage/backend/internal/infrastructure/clients/redis"
	"github.com/medtriage/backend/internal/infrastructure/clients/typesense"
	"github.com/medtriage/backend/internal/infrastructure/observability"
	"github.com/medtriage/backend/internal/knowledge"
	"github.com/medtriage/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Load the knowledge base, falling back to the built-in tables
	base := knowledge.Default()
	if cfg.Knowledge.Path != "" {
		loaded, err := knowledge.Load(cfg.Knowledge.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Knowledge.Path).Msg("Failed to load knowledge base")
		}
		base = loaded
		log.Info().Str("path", cfg.Knowledge.Path).Msg("Knowledge base loaded from file")
	}

	// Initialize the patient record store
	var patientRepo repositories.PatientRepository
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()
		patientRepo = database.NewPatientAdapter(pgClient)
		log.Info().Msg("Patient store backed by PostgreSQL")
	default:
		fileRepo, err := storage.NewFilePatientAdapter(cfg.Store.FilePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Store.FilePath).Msg("Failed to open patient store file")
		}
		patientRepo = fileRepo
		log.Info().Str("path", cfg.Store.FilePath).Msg("Patient store backed by file")
	}

	// Initialize Redis client; the application works without caching
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client; continuing without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized successfully")
	}

	// Initialize Typesense symptom search if enabled
	var symptomIndex *search.SymptomIndexAdapter
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense client")
		} else {
			adapter := search.NewSymptomIndexAdapter(tsClient)
			if err := adapter.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
			} else if err := adapter.IndexKnowledge(ctx, base); err != nil {
				log.Warn().Err(err).Msg("Failed to index symptom knowledge")
			} else {
				symptomIndex = adapter
				log.Info().Msg("Typesense symptom index ready")
			}
		}
	}

	// Initialize services
	conditionService := services.NewConditionService(base)
	if cacheProvider != nil {
		conditionService.SetCache(cacheProvider)
	}
	patternService := services.NewPatternService()
	riskService := services.NewRiskService(base)
	recommendationService := services.NewRecommendationService(base)
	patientService := services.NewPatientService(patientRepo)
	intakeService := services.NewIntakeService(
		conditionService,
		patternService,
		riskService,
		recommendationService,
		patientService,
	)

	// Initialize handlers
	triageHandler := handlers.NewTriageHandler(
		conditionService,
		patternService,
		riskService,
		recommendationService,
		intakeService,
	)
	patientHandler := handlers.NewPatientHandler(patientService)

	var symptomHandler *handlers.SymptomHandler
	if symptomIndex != nil {
		symptomHandler = handlers.NewSymptomHandler(symptomIndex)
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("Cache middleware initialized successfully")
	}

	router := routes.NewRouter(
		triageHandler,
		patientHandler,
		symptomHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
