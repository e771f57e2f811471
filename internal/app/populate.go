package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/domain"
)

// A population run stops consuming input once this many validation
// rejections accumulate; the counter never resets mid-batch. Rows staged
// before the abort still commit.
const maxValidationFailures = 2

type PopulateResult struct {
	Added   int
	Skipped int
	Aborted bool
}

// PopulationService inserts hotel records from an input file, one
// transaction per batch. Validation paces itself between provider calls;
// skip-validation mode omits both the calls and the pacing.
type PopulationService struct {
	repo           domain.HotelRepository
	validator      *Validator
	qcache         domain.QueryCache // optional
	skipValidation bool
	delay          time.Duration

	sleep func(ctx context.Context, d time.Duration) bool
}

func NewPopulationService(repo domain.HotelRepository, v *Validator, qcache domain.QueryCache, skipValidation bool, delay time.Duration) *PopulationService {
	return &PopulationService{
		repo:           repo,
		validator:      v,
		qcache:         qcache,
		skipValidation: skipValidation,
		delay:          delay,
		sleep:          sleepCtx,
	}
}

func (s *PopulationService) PopulateHotels(ctx context.Context, records []domain.HotelRecord) (PopulateResult, error) {
	var res PopulateResult
	var staged []domain.Hotel
	failures := 0

	for _, rec := range records {
		if rec.Name == "" || rec.Brand == "" || rec.LocationID == "" {
			log.Warn().Interface("record", rec).Msg("skipping hotel: missing required fields")
			res.Skipped++
			continue
		}

		id, err := strconv.ParseInt(rec.LocationID.String(), 10, 64)
		idOK := err == nil && id > 0
		if idOK {
			if existing, err := s.repo.HotelByLocation(ctx, id); err == nil {
				log.Info().
					Int64("location_id", id).
					Str("existing", existing.Name).
					Msg("skipping hotel: location_id already stored")
				res.Skipped++
				continue
			} else if !errors.Is(err, domain.ErrNotFound) {
				return res, err
			}
		}

		if s.skipValidation {
			log.Info().Str("hotel", rec.Name).Msg("validation skipped (fallback population)")
		} else {
			v := s.validator.Validate(ctx, rec.LocationID.String(), rec.Name)
			if !v.OK {
				log.Warn().
					Str("hotel", rec.Name).
					Str("location_id", rec.LocationID.String()).
					Str("reason", string(v.Reason)).
					Msg("skipping hotel: validation failed")
				res.Skipped++
				failures++
				if failures >= maxValidationFailures {
					log.Error().
						Str("location_id", rec.LocationID.String()).
						Msg("aborting population: two validation failures")
					res.Aborted = true
					break
				}
				continue
			}
		}

		if !idOK {
			// only reachable in skip-validation mode, where a bad id never
			// went through the validator
			log.Warn().Str("location_id", rec.LocationID.String()).Msg("skipping hotel: unusable location id")
			res.Skipped++
			continue
		}

		staged = append(staged, domain.Hotel{Name: rec.Name, Brand: rec.Brand, LocationID: id})
		res.Added++
		log.Info().Str("hotel", rec.Name).Msg("staged hotel")

		if !s.skipValidation {
			// pacing between provider calls
			if !s.sleep(ctx, s.delay) {
				return res, ctx.Err()
			}
		}
	}

	if len(staged) > 0 {
		if err := s.repo.InsertHotels(ctx, staged); err != nil {
			return res, err
		}
		if s.qcache != nil {
			_ = s.qcache.Del(ctx, hotelsKey())
		}
		log.Info().Int("added", res.Added).Int("skipped", res.Skipped).Msg("hotel population committed")
	} else {
		log.Info().Int("skipped", res.Skipped).Msg("no new hotels added")
	}
	return res, nil
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
