package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/adapters/filecache"
	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/adapters/tripadvisor"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/shared"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

// fetchreviews pulls recent reviews for one location and stores the new
// ones. With -name the location is validated first; without it the fetch is
// unvalidated.
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	id := flag.Int64("id", 0, "provider location id (required)")
	name := flag.String("name", "", "expected hotel name; empty skips validation")
	limit := flag.Int("limit", cfg.ReviewLimit, "maximum reviews to fetch")
	flag.Parse()

	if *id <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	client, err := tripadvisor.New(cfg.ProviderBase, cfg.ProviderKey, cfg.MaxRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("provider client init failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := mysqlrepo.New(db)
	validator := app.NewValidator(client, filecache.New(cfg.CacheFile))
	ing := app.NewIngestionService(client, repo, validator, nil, *limit)

	added, err := ing.IngestReviews(ctx, *id, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("review ingestion failed")
	}
	log.Info().Int64("location_id", *id).Int("added", added).Msg("done")
}
