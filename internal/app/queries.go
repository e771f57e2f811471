package app

import (
	"context"
	"fmt"
	"time"

	"hotel_reviews/internal/domain"
)

func hotelsKey() string          { return "hotels:all" }
func hotelKey(id int64) string   { return fmt.Sprintf("hotel:%d", id) }
func reviewsKey(id int64) string { return fmt.Sprintf("reviews:%d", id) }

// QueryService is the cached read path behind the HTTP API.
type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.QueryCache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.QueryCache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var hs []domain.Hotel
	if ok, _ := s.cache.Get(ctx, hotelsKey(), &hs); ok {
		return hs, nil
	}
	hs, err := s.repo.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, hotelsKey(), hs, int(s.cacheTTL.Seconds()))
	return hs, nil
}

func (s *QueryService) GetHotel(ctx context.Context, locationID int64) (domain.Hotel, error) {
	key := hotelKey(locationID)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.repo.HotelByLocation(ctx, locationID)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func (s *QueryService) ListReviews(ctx context.Context, locationID int64) ([]domain.Review, error) {
	key := reviewsKey(locationID)
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, locationID)
	if err != nil {
		return nil, err
	}

	// copy to avoid aliasing the repo's backing array in the cached value
	cp := make([]domain.Review, len(rs))
	copy(cp, rs)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

// LatestReviews bypasses the cache: analysis always sees the newest rows.
func (s *QueryService) LatestReviews(ctx context.Context, locationID int64, limit int) ([]domain.Review, error) {
	return s.repo.LatestReviews(ctx, locationID, limit)
}
