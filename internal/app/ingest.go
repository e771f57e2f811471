package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/domain"
)

// IngestionService pulls recent reviews for one location and stores the ones
// the database has not seen, as a single transaction per call.
type IngestionService struct {
	client    domain.ProviderClient
	repo      domain.HotelRepository
	validator *Validator
	qcache    domain.QueryCache // optional
	limit     int

	now func() time.Time
}

func NewIngestionService(client domain.ProviderClient, repo domain.HotelRepository, v *Validator, qcache domain.QueryCache, limit int) *IngestionService {
	if limit <= 0 {
		limit = 5
	}
	return &IngestionService{
		client:    client,
		repo:      repo,
		validator: v,
		qcache:    qcache,
		limit:     limit,
		now:       time.Now,
	}
}

// IngestReviews fetches and persists new reviews for a location. With an
// expected name it validates first and fails closed; an empty name skips
// validation entirely (legacy bulk path). Fetch and validation failures are
// absorbed into a zero count; only persistence failures come back as errors.
func (s *IngestionService) IngestReviews(ctx context.Context, locationID int64, expectedName string) (int, error) {
	if expectedName != "" {
		if res := s.validator.Validate(ctx, strconv.FormatInt(locationID, 10), expectedName); !res.OK {
			log.Error().
				Int64("location_id", locationID).
				Str("reason", string(res.Reason)).
				Msg("validation failed, no reviews will be fetched")
			return 0, nil
		}
	}

	payloads, err := s.client.GetReviews(ctx, locationID, s.limit)
	if err != nil {
		log.Error().Err(err).Int64("location_id", locationID).Msg("review fetch failed")
		return 0, nil
	}

	var batch []domain.Review
	for _, p := range payloads {
		rv, err := mapReview(p, s.now())
		if err != nil {
			log.Warn().Err(err).Int64("location_id", locationID).Msg("skipping malformed review")
			continue
		}
		exists, err := s.repo.ReviewExists(ctx, rv.ReviewID)
		if err != nil {
			return 0, fmt.Errorf("duplicate check for review %d: %w", rv.ReviewID, err)
		}
		if exists {
			log.Info().Int64("review_id", rv.ReviewID).Msg("skipping duplicate review")
			continue
		}
		batch = append(batch, rv)
	}
	if len(batch) == 0 {
		log.Info().Int64("location_id", locationID).Msg("no new reviews")
		return 0, nil
	}

	if err := s.repo.InsertReviews(ctx, batch); err != nil {
		return 0, fmt.Errorf("store reviews for location %d: %w", locationID, err)
	}
	if s.qcache != nil {
		_ = s.qcache.Del(ctx, reviewsKey(locationID))
	}
	log.Info().Int64("location_id", locationID).Int("added", len(batch)).Msg("reviews stored")
	return len(batch), nil
}
