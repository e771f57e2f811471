package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	ProviderBase string
	ProviderKey  string
	MaxRetries   int
	ReviewLimit  int

	OpenAIBase string
	OpenAIKey  string

	CacheFile  string
	HotelsFile string

	PopulateDelay      time.Duration
	FallbackPopulation bool

	CacheTTL time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:             env("APP_ENV", "prod"),
		HTTPAddr:           env("HTTP_ADDR", ":8080"),
		MetricsAddr:        env("METRICS_ADDR", ""),
		MySQLDSN:           env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel_reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:          env("REDIS_ADDR", "localhost:6379"),
		RedisPass:          env("REDIS_PASSWORD", ""),
		RedisDB:            atoi("REDIS_DB", 0),
		ProviderBase:       env("TRIPADVISOR_BASE_URL", "https://api.content.tripadvisor.com/api/v1"),
		ProviderKey:        env("API_KEY", ""),
		MaxRetries:         atoi("MAX_RETRIES", 3),
		ReviewLimit:        atoi("REVIEW_LIMIT", 5),
		OpenAIBase:         env("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIKey:          env("OPENAI_API_KEY", ""),
		CacheFile:          env("CACHE_FILE", "data/hotel_details_cache.json"),
		HotelsFile:         env("HOTELS_FILE", "data/hotels.json"),
		PopulateDelay:      time.Duration(atoi("POPULATE_DELAY_MS", 500)) * time.Millisecond,
		FallbackPopulation: envBool("FALLBACK_POPULATION"),
		CacheTTL:           time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.ProviderKey == "" {
		log.Warn().Msg("API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string) bool {
	b, err := strconv.ParseBool(os.Getenv(k))
	return err == nil && b
}
