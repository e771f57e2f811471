package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrNoReviews   = errors.New("no reviews stored")
	ErrRateLimited = errors.New("provider rate limit: retries exhausted")

	// ErrAnalysisInput is a caller fault (400); ErrAnalysisParse is a server
	// fault like any other upstream failure (500).
	ErrAnalysisInput = errors.New("analysis: no reviews provided")
	ErrAnalysisParse = errors.New("analysis: no section found in response")
)

type HotelRepository interface {
	// Write paths. Each call is one transaction; a failure rolls the whole
	// batch back.
	InsertHotels(ctx context.Context, hs []Hotel) error
	InsertReviews(ctx context.Context, rs []Review) error

	// Read paths
	HotelByLocation(ctx context.Context, locationID int64) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
	ListReviews(ctx context.Context, locationID int64) ([]Review, error)
	LatestReviews(ctx context.Context, locationID int64, limit int) ([]Review, error)
	ReviewExists(ctx context.Context, reviewID int64) (bool, error)
}

// ProviderClient is the outbound travel-data API surface.
type ProviderClient interface {
	SearchLocation(ctx context.Context, query string) (int64, error)
	GetDetails(ctx context.Context, locationID int64) (map[string]any, error)
	GetReviews(ctx context.Context, locationID int64, limit int) ([]map[string]any, error)
}

// DetailCache holds previously validated provider detail payloads, keyed by
// the string form of the location id. Lookups never fail: a corrupt or
// missing backing store reads as absent.
type DetailCache interface {
	Get(locationID string) (map[string]any, bool)
	Put(locationID string, payload map[string]any)
}

// QueryCache is the read-path cache in front of the repository.
type QueryCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Analyzer summarizes recent reviews for one hotel.
type Analyzer interface {
	Analyze(ctx context.Context, hotel Hotel, reviews []Review) (Analysis, error)
}
