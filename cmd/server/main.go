package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance_tracker/internal/analytics"
	"finance_tracker/internal/config"
	"finance_tracker/internal/handler"
	"finance_tracker/internal/logger"
	"finance_tracker/internal/middleware"
	"finance_tracker/internal/notify"
	"finance_tracker/internal/repository"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"
)

func main() {
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	if cfg.GinMode == gin.DebugMode {
		log = logger.NewConsole(cfg.LogLevel)
	}
	if envErr != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load DB config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	if err := config.RunMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Budget alert publisher ---
	var publisher notify.Publisher = notify.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to AMQP broker")
		}
		publisher = amqpPublisher
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("budget alerts enabled")
	}
	defer publisher.Close()

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)
	normalizer := analytics.NewNormalizer(analytics.FixedZone(cfg.ReportTZOffsetMinutes))
	lastGood := cache.New(cfg.ReportCacheTTL, 2*cfg.ReportCacheTTL)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	transactionRepo := repository.NewTransactionRepository(dbPool)
	budgetRepo := repository.NewBudgetRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, publisher)
	transactionService := service.NewTransactionService(transactionRepo, budgetService, normalizer)
	reportService := service.NewReportService(transactionRepo, budgetService, normalizer, lastGood)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(dbPool)

	// --- Initialize Middlewares ---
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rateLimiter.Cleanup()
			}
		}
	}()

	// --- Setup Gin Router ---
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS(cfg.CORSAllowedOrigins))
	router.GET("/health", healthHandler.Health)

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(rateLimiter.Middleware())
	authHandler.RegisterAuthRoutes(apiGroup)

	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(jwtUtil), rateLimiter.Middleware())
	transactionHandler.RegisterTransactionRoutes(protected)
	budgetHandler.RegisterBudgetRoutes(protected)
	reportHandler.RegisterReportRoutes(protected)

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exiting")
}
