package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/hbnb/backend/internal/adapters/auth"
	"github.com/zatekoja/hbnb/backend/internal/adapters/database"
	"github.com/zatekoja/hbnb/backend/internal/application/services"
	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
	"github.com/zatekoja/hbnb/backend/pkg/config"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
	"github.com/zatekoja/hbnb/backend/pkg/retry"
	"github.com/zatekoja/hbnb/backend/pkg/secrets"
)

func main() {
	var email, password, firstName, lastName string

	flag.StringVar(&email, "email", os.Getenv("ADMIN_EMAIL"), "Administrator email")
	flag.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "Administrator password")
	flag.StringVar(&firstName, "first-name", envOr("ADMIN_FIRST_NAME", "Admin"), "Administrator first name")
	flag.StringVar(&lastName, "last-name", envOr("ADMIN_LAST_NAME", "HBnB"), "Administrator last name")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv(), retry.DefaultConfig()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets from Vault")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("hbnb-createadmin", cfg.Server.Env, cfg.Server.LogLevel)

	if cfg.Store.Driver != config.StoreDriverPostgres {
		log.Fatal().Str("driver", cfg.Store.Driver).Msg("Administrators can only be created in the PostgreSQL store")
	}
	if email == "" || password == "" {
		log.Fatal().Msg("Both -email and -password (or ADMIN_EMAIL and ADMIN_PASSWORD) are required")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgClient.Close()

	store := database.NewStore(pgClient)
	if cfg.Store.AutoSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure schema")
		}
	}

	users := services.NewUserService(store, auth.NewBcryptHasher(cfg.Auth.BcryptCost), services.NewLifecycle(services.CascadeRules))

	// Nobody is logged in yet, so the tool acts as an administrator itself
	bootstrap := &entities.Actor{IsAdmin: true}
	user, err := users.Register(ctx, bootstrap, validation.Payload{
		entities.FieldFirstName: firstName,
		entities.FieldLastName:  lastName,
		entities.FieldEmail:     email,
		entities.FieldPassword:  password,
		entities.FieldIsAdmin:   true,
	})
	if apperrors.Is(err, apperrors.ErrorTypeConflict) {
		log.Warn().Str("email", email).Msg("A user with this email already exists; nothing to do")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create administrator")
	}

	log.Info().Str("id", user.ID).Str("email", user.Email).Msg("Administrator created")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
