package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/hbnb/backend/internal/adapters/auth"
	"github.com/zatekoja/hbnb/backend/internal/adapters/database"
	"github.com/zatekoja/hbnb/backend/internal/adapters/memory"
	"github.com/zatekoja/hbnb/backend/internal/api/handlers"
	"github.com/zatekoja/hbnb/backend/internal/api/routes"
	"github.com/zatekoja/hbnb/backend/internal/application/services"
	"github.com/zatekoja/hbnb/backend/internal/domain/providers"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
	"github.com/zatekoja/hbnb/backend/pkg/config"
	"github.com/zatekoja/hbnb/backend/pkg/retry"
	"github.com/zatekoja/hbnb/backend/pkg/secrets"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Secrets must be in the environment before configuration is read
	if _, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv(), retry.DefaultConfig()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets from Vault")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Server.LogLevel)

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
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
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open entity store")
	}
	defer closeStore()

	denylist, closeDenylist := openDenylist(cfg)
	defer closeDenylist()

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewJWTProvider(&cfg.Auth, denylist)
	engine := services.NewEngine(store, hasher, tokens)

	router := routes.NewRouter(
		handlers.NewUserHandler(engine.Users),
		handlers.NewPlaceHandler(engine.Places),
		handlers.NewReviewHandler(engine.Reviews),
		handlers.NewAmenityHandler(engine.Amenities),
		handlers.NewAuthHandler(engine.Auth),
		handlers.NewHealthHandler(store),
		engine.Auth,
		metrics,
		cfg.Server.AllowedOrigins,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("store", cfg.Store.Driver).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, func(), error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("Using in-memory entity store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	pgClient, err := postgres.NewClientWithRetry(ctx, &cfg.Database, retry.DefaultConfig())
	if err != nil {
		return nil, nil, err
	}
	store := database.NewStore(pgClient)
	if cfg.Store.AutoSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			pgClient.Close()
			return nil, nil, err
		}
	}
	log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Database).Msg("PostgreSQL store ready")
	return store, func() { pgClient.Close() }, nil
}

// openDenylist prefers Redis so revocations survive restarts and are shared
// between replicas. Without Redis each process keeps its own list.
func openDenylist(cfg *config.Config) (providers.TokenDenylist, func()) {
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err == nil {
			log.Info().Str("host", cfg.Redis.Host).Msg("Token revocation backed by Redis")
			return auth.NewRedisDenylist(redisClient), func() { redisClient.Close() }
		}
		log.Warn().Err(err).Msg("Failed to initialize Redis client; revocations stay in process memory")
	}
	return auth.NewLocalDenylist(), func() {}
}
