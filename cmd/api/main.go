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

	"github.com/zatekoja/fitbookingdesign/backend/internal/adapters/cache"
	"github.com/zatekoja/fitbookingdesign/backend/internal/adapters/database"
	"github.com/zatekoja/fitbookingdesign/backend/internal/adapters/events"
	"github.com/zatekoja/fitbookingdesign/backend/internal/adapters/search"
	"github.com/zatekoja/fitbookingdesign/backend/internal/api/handlers"
	"github.com/zatekoja/fitbookingdesign/backend/internal/api/middleware"
	"github.com/zatekoja/fitbookingdesign/backend/internal/api/routes"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/providers"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional; the server runs without it
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional; caching and eventing degrade gracefully without it
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client; running without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client; search disabled")
		typesenseClient = nil
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	// Adapters
	userAdapter := database.NewUserAdapter(pgClient)
	brandAdapter := database.NewBrandAdapter(pgClient)

	baseFacilityAdapter := database.NewFacilityAdapter(pgClient)
	var facilityAdapter repositories.FacilityRepository = baseFacilityAdapter
	if cacheProvider != nil {
		facilityAdapter = database.NewCachedFacilityAdapter(baseFacilityAdapter, cacheProvider, metrics)
	}

	scheduleAdapter := database.NewScheduleAdapter(pgClient)
	holidayAdapter := database.NewHolidayAdapter(pgClient)
	packageAdapter := database.NewPackageAdapter(pgClient)
	packageTypeAdapter := database.NewPackageTypeAdapter(pgClient)
	promotionAdapter := database.NewPromotionAdapter(pgClient)
	reviewAdapter := database.NewReviewAdapter(pgClient)
	cartAdapter := database.NewCartAdapter(pgClient)
	purchaseAdapter := database.NewPurchaseAdapter(pgClient)
	billAdapter := database.NewBillAdapter(pgClient)
	subscriptionAdapter := database.NewSubscriptionAdapter(pgClient)

	var searchRepo repositories.FacilitySearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := typesenseClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	// Services
	authService := services.NewAuthService(userAdapter, &cfg.JWT)
	facilityService := services.NewFacilityService(brandAdapter, facilityAdapter, searchRepo, eventBus)
	scheduleService := services.NewScheduleService(scheduleAdapter, holidayAdapter, facilityAdapter)
	packageService := services.NewPackageService(packageAdapter, packageTypeAdapter, facilityAdapter)
	promotionService := services.NewPromotionService(promotionAdapter, facilityAdapter)
	reviewService := services.NewReviewService(reviewAdapter, facilityService)
	cartService := services.NewCartService(cartAdapter, packageAdapter, facilityAdapter, promotionAdapter)
	purchaseService := services.NewPurchaseService(purchaseAdapter, billAdapter, eventBus, metrics)
	subscriptionService := services.NewSubscriptionService(
		subscriptionAdapter,
		packageAdapter,
		eventBus,
		cfg.Jobs.SubscriptionExpiryInterval,
	)
	subscriptionService.Start()
	defer subscriptionService.Stop()

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
		}
	}

	// Authorization
	gate := authz.NewGate(authz.DefaultGateConfig())
	resolver := authz.NewOwnershipResolver(
		brandAdapter,
		facilityAdapter,
		scheduleAdapter,
		holidayAdapter,
		packageAdapter,
		packageTypeAdapter,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	brandHandler := handlers.NewBrandHandler(facilityService, resolver)
	facilityHandler := handlers.NewFacilityHandler(facilityService, resolver)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, resolver)
	packageHandler := handlers.NewPackageHandler(packageService, resolver)
	promotionHandler := handlers.NewPromotionHandler(promotionService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	cartHandler := handlers.NewCartHandler(cartService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, resolver)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, gate)
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		authHandler,
		brandHandler,
		facilityHandler,
		scheduleHandler,
		packageHandler,
		promotionHandler,
		reviewHandler,
		cartHandler,
		purchaseHandler,
		subscriptionHandler,
		authMiddleware,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Error during server shutdown")
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
