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
	redisad "hotel_reviews/internal/adapters/redis"
	"hotel_reviews/internal/adapters/tripadvisor"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/shared"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

// populate loads a hotels file into the database: validated against the
// provider by default, unvalidated with -fallback (or FALLBACK_POPULATION).
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	file := flag.String("file", cfg.HotelsFile, "hotels JSON file to load")
	fallback := flag.Bool("fallback", cfg.FallbackPopulation, "skip provider validation and pacing")
	flag.Parse()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	var validator *app.Validator
	if !*fallback {
		client, err := tripadvisor.New(cfg.ProviderBase, cfg.ProviderKey, cfg.MaxRetries)
		if err != nil {
			log.Fatal().Err(err).Msg("provider client init failed")
		}
		validator = app.NewValidator(client, filecache.New(cfg.CacheFile))
	}

	recs, err := shared.LoadHotelRecords(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("load hotels file failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := mysqlrepo.New(db)
	qcache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pop := app.NewPopulationService(repo, validator, qcache, *fallback, cfg.PopulateDelay)

	res, err := pop.PopulateHotels(ctx, recs)
	if err != nil {
		log.Fatal().Err(err).Msg("population failed")
	}
	// an abort is an absorbed degradation, not a script failure; rows staged
	// before it are already committed
	log.Info().
		Int("added", res.Added).
		Int("skipped", res.Skipped).
		Bool("aborted", res.Aborted).
		Msg("population done")
}
