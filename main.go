package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/achievers-club/mentoring-service/internal/cache"
	"github.com/achievers-club/mentoring-service/internal/config"
	"github.com/achievers-club/mentoring-service/internal/events"
	"github.com/achievers-club/mentoring-service/internal/handlers"
	"github.com/achievers-club/mentoring-service/internal/repositories/graph"
	"github.com/achievers-club/mentoring-service/internal/repositories/postgres"
	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
	"github.com/achievers-club/mentoring-service/internal/validator"
	"github.com/achievers-club/mentoring-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database, migrating the schema
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Failed to initialize Redis, continuing without cache", "error", err)
			redisClient = nil
		}
	}

	// Directory client
	tokens := graph.NewTokenSource(ctx, graph.CredentialsConfig{
		TenantID:     cfg.Directory.TenantID,
		ClientID:     cfg.Directory.ClientID,
		ClientSecret: cfg.Directory.ClientSecret,
		TokenURL:     cfg.Directory.TokenURL,
	})
	directory := graph.NewDirectoryGraph(graph.GraphConfig{
		BaseURL:             cfg.Directory.GraphBaseURL,
		ApplicationObjectID: cfg.Directory.AppObjectID,
		ServicePrincipalID:  cfg.Directory.ServicePrincipalID,
		Timeout:             cfg.Directory.Timeout,
	}, tokens, nil, slogLogger.With("component", "directory"))

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
		Directory:   directory,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	publisher, err := events.NewWatermillPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.Events.KafkaBrokers,
		Topic:        cfg.Events.Topic,
	}, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(repoManager.GetRepository(), publisher, slogLogger, validator.New(), services.ServiceManagerConfig{
		RoleIDs:              cfg.Directory.RoleIDs,
		WebAppURL:            cfg.WebAppURL,
		ProvisioningClaimTTL: cfg.ProvisioningClaimTTL,
	})
	if err := serviceManager.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Session tokens are verified against the directory's signing keys
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.Auth.JWKSURL})
	if err != nil {
		log.Fatalf("Failed to load signing keys: %v", err)
	}
	revocations := cache.NewRevocationStore(cache.NewCacheManager(redisClient).Session)
	authMiddleware := handlers.NewAuthMiddleware(jwks, revocations, serviceManager.Access(), handlers.AuthConfig{
		Issuer:       cfg.Auth.Issuer,
		Audience:     cfg.Auth.Audience,
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.IsProduction(),
		Leeway:       time.Minute,
	}, logger)

	handlerManager := handlers.NewHandlerManager(serviceManager, authMiddleware, logger)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.WebAppURL)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := serviceManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	// Closes the database and redis
	if err := repoManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to close repositories", "error", err)
	}

	logger.Info("Server exited")
}
