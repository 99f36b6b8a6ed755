package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/hbnb/backend/internal/adapters/auth"
	"github.com/zatekoja/hbnb/backend/internal/adapters/database"
	"github.com/zatekoja/hbnb/backend/internal/application/services"
	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
	"github.com/zatekoja/hbnb/backend/pkg/config"
)

// Seeds a development database with demo hosts, places, amenities and
// reviews. Everything goes through the engine so seeded rows obey the same
// rules as API traffic.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("hbnb-seed", cfg.Server.Env, cfg.Server.LogLevel)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	ctx := context.Background()
	store := database.NewStore(pgClient)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Warn().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				place_amenities,
				reviews,
				places,
				amenities,
				users
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	// The cheapest cost keeps seeding fast; demo passwords are public anyway
	engine := services.NewEngine(store, auth.NewBcryptHasher(4), nil)
	admin := &entities.Actor{IsAdmin: true}

	// 1. Seed amenities
	amenityIDs := map[string]string{}
	for _, name := range []string{"WiFi", "Kitchen", "Parking", "Pool", "Air conditioning"} {
		amenity, err := engine.Amenities.Create(ctx, admin, validation.Payload{"name": name})
		if err != nil {
			log.Warn().Err(err).Str("amenity", name).Msg("Failed to create amenity")
			continue
		}
		amenityIDs[name] = amenity.ID
	}

	// 2. Seed hosts and guests
	people := []validation.Payload{
		{"first_name": "Ada", "last_name": "Okafor", "email": "ada@hbnb.dev", "password": "password123"},
		{"first_name": "Tunde", "last_name": "Bello", "email": "tunde@hbnb.dev", "password": "password123"},
		{"first_name": "Claire", "last_name": "Martin", "email": "claire@hbnb.dev", "password": "password123"},
	}
	var actors []*entities.Actor
	for _, p := range people {
		user, err := engine.Users.Register(ctx, admin, p)
		if err != nil {
			log.Warn().Err(err).Interface("email", p["email"]).Msg("Failed to create user")
			continue
		}
		actors = append(actors, &entities.Actor{ID: user.ID})
	}
	if len(actors) < 2 {
		log.Fatal().Msg("Not enough users to seed places and reviews; rerun with RESET_DB=true")
	}

	// 3. Seed places owned by the first two users
	places := []struct {
		owner   *entities.Actor
		payload validation.Payload
		extras  []string
	}{
		{actors[0], validation.Payload{"title": "Lekki beach house", "description": "Ocean view, sleeps six", "price": 185.5, "latitude": 6.4474, "longitude": 3.4723}, []string{"WiFi", "Pool", "Parking"}},
		{actors[0], validation.Payload{"title": "Ikoyi studio", "price": 60, "latitude": 6.4549, "longitude": 3.4366}, []string{"WiFi", "Air conditioning"}},
		{actors[1], validation.Payload{"title": "Abuja family home", "description": "Quiet street near the park", "price": 120, "latitude": 9.0765, "longitude": 7.3986}, []string{"Kitchen", "Parking"}},
	}

	type seeded struct{ id, ownerID string }
	var created []seeded
	for _, p := range places {
		var ids []string
		for _, name := range p.extras {
			if id, ok := amenityIDs[name]; ok {
				ids = append(ids, id)
			}
		}
		p.payload["amenities"] = ids
		place, err := engine.Places.Create(ctx, p.owner, p.payload)
		if err != nil {
			log.Warn().Err(err).Interface("title", p.payload["title"]).Msg("Failed to create place")
			continue
		}
		created = append(created, seeded{id: place.ID, ownerID: p.owner.ID})
	}

	// 4. Seed reviews; owners cannot review their own places so every
	// reviewer is someone else
	reviews := 0
	for i, place := range created {
		for j, reviewer := range actors {
			if place.ownerID == reviewer.ID {
				continue
			}
			_, err := engine.Reviews.Create(ctx, reviewer, validation.Payload{
				"text":     "Lovely stay, would book again",
				"rating":   5 - (i+j)%3,
				"place_id": place.id,
			})
			if err != nil {
				log.Warn().Err(err).Str("place_id", place.id).Msg("Failed to create review")
				continue
			}
			reviews++
		}
	}

	log.Info().
		Int("amenities", len(amenityIDs)).
		Int("users", len(actors)).
		Int("places", len(created)).
		Int("reviews", reviews).
		Msg("Seeding complete")
}
