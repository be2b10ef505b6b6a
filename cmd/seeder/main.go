package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"travel_hotels/internal/adapters/observability"
	"travel_hotels/internal/app"
	"travel_hotels/internal/shared"
	"travel_hotels/internal/storage"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Str("store", cfg.StoreDriver).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file failed")
	}
	recs, err := app.DecodeSeed(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}

	repo, closeRepo, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer closeRepo()

	// no cache or events: seeded hotels are new, nothing to invalidate or announce
	b := app.NewBookingService(repo, nil, nil)
	rep, err := b.SeedHotels(ctx, recs, cfg.SeedWorkers)
	if err != nil {
		log.Error().Err(err).Msg("seeding interrupted")
	}
	log.Info().Int("created", rep.Created).Int("failed", rep.Failed).Msg("seeding completed")
}
