package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_reviews/internal/adapters/filecache"
	server "hotel_reviews/internal/adapters/http_server"
	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/adapters/openai"
	redisad "hotel_reviews/internal/adapters/redis"
	"hotel_reviews/internal/adapters/tripadvisor"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/shared"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.ProviderKey == "" {
		log.Fatal().Msg("API_KEY must be set")
	}
	if cfg.OpenAIKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY must be set")
	}

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	qcache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	details := filecache.New(cfg.CacheFile)

	client, err := tripadvisor.New(cfg.ProviderBase, cfg.ProviderKey, cfg.MaxRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("provider client init failed")
	}
	analyzer, err := openai.New(cfg.OpenAIBase, cfg.OpenAIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("analyzer init failed")
	}

	validator := app.NewValidator(client, details)
	q := app.NewQueryService(repo, qcache, cfg.CacheTTL)
	ing := app.NewIngestionService(client, repo, validator, qcache, cfg.ReviewLimit)
	an := app.NewAnalysisService(repo, analyzer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// best-effort startup population from the hotels file; the API serves
	// whatever is already stored if this fails
	populateOnStart(ctx, cfg, repo, validator, qcache)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, I: ing, A: an})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shctx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func populateOnStart(ctx context.Context, cfg shared.Config, repo *mysqlrepo.Repo, v *app.Validator, qcache *redisad.Cache) {
	recs, err := shared.LoadHotelRecords(cfg.HotelsFile)
	if err != nil {
		log.Warn().Err(err).Msg("startup population skipped")
		return
	}
	pop := app.NewPopulationService(repo, v, qcache, cfg.FallbackPopulation, cfg.PopulateDelay)
	res, err := pop.PopulateHotels(ctx, recs)
	if err != nil {
		log.Error().Err(err).Msg("startup population failed")
		return
	}
	log.Info().
		Int("added", res.Added).
		Int("skipped", res.Skipped).
		Bool("aborted", res.Aborted).
		Msg("startup population done")
}
