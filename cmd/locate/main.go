package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/adapters/tripadvisor"
	"hotel_reviews/internal/domain"
	"hotel_reviews/internal/shared"
)

// locate fills in missing location_ids in a hotels file by searching the
// provider for each hotel name, then rewrites the file in place.
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	file := flag.String("file", cfg.HotelsFile, "hotels JSON file to update")
	flag.Parse()

	client, err := tripadvisor.New(cfg.ProviderBase, cfg.ProviderKey, cfg.MaxRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("provider client init failed")
	}

	recs, err := shared.LoadHotelRecords(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("load hotels file failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	found, missing := 0, 0
	for i, rec := range recs {
		if rec.LocationID != "" || rec.Name == "" {
			continue
		}
		id, err := client.SearchLocation(ctx, rec.Name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Warn().Str("hotel", rec.Name).Msg("no search result")
				missing++
				continue
			}
			log.Fatal().Err(err).Str("hotel", rec.Name).Msg("search failed")
		}
		recs[i].LocationID = domain.FlexID(strconv.FormatInt(id, 10))
		found++
		log.Info().Str("hotel", rec.Name).Int64("location_id", id).Msg("resolved")
	}

	if found > 0 {
		if err := shared.SaveHotelRecords(*file, recs); err != nil {
			log.Fatal().Err(err).Msg("rewrite hotels file failed")
		}
	}
	log.Info().Int("resolved", found).Int("unresolved", missing).Msg("locate done")
	if missing > 0 {
		os.Exit(1)
	}
}
