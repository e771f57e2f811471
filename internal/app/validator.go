package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/domain"
)

// RejectReason tags why a location failed validation. Rejections are plain
// values; the validator never returns an error to its callers.
type RejectReason string

const (
	ReasonBadID        RejectReason = "bad_id"
	ReasonFetchFailed  RejectReason = "fetch_failed"
	ReasonNotHotel     RejectReason = "not_hotel"
	ReasonNameMismatch RejectReason = "name_mismatch"
)

type Validation struct {
	OK      bool
	Reason  RejectReason
	Details map[string]any
}

func rejected(reason RejectReason) Validation {
	observability.ObserveReject(string(reason))
	return Validation{Reason: reason}
}

// Validator confirms that a location id refers to a hotel whose name
// plausibly matches the expected one, consulting the detail cache before the
// live API. A cache hit makes zero network calls.
type Validator struct {
	client domain.ProviderClient
	cache  domain.DetailCache
}

func NewValidator(client domain.ProviderClient, cache domain.DetailCache) *Validator {
	return &Validator{client: client, cache: cache}
}

func (v *Validator) Validate(ctx context.Context, rawID, expectedName string) Validation {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		log.Error().Str("location_id", rawID).Msg("location id is not a positive integer")
		return rejected(ReasonBadID)
	}
	key := strconv.FormatInt(id, 10)

	if payload, ok := v.cache.Get(key); ok {
		log.Info().Int64("location_id", id).Msg("validating against cached details")
		return v.check(id, expectedName, payload)
	}

	payload, err := v.client.GetDetails(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("location_id", id).Msg("detail fetch failed")
		return rejected(ReasonFetchFailed)
	}

	res := v.check(id, expectedName, payload)
	if res.OK {
		// Cached only after passing both rules, so a later hit for the same
		// hotel name never re-fetches.
		v.cache.Put(key, payload)
	}
	return res
}

func (v *Validator) check(id int64, expectedName string, payload map[string]any) Validation {
	category := strings.ToLower(lookupStr(payload, "category.name"))
	if category != "hotel" {
		log.Warn().Int64("location_id", id).Str("category", category).Msg("location is not a hotel")
		return rejected(ReasonNotHotel)
	}
	fetched := lookupStr(payload, "name")
	if !nameMatches(expectedName, fetched) {
		log.Warn().
			Int64("location_id", id).
			Str("expected", expectedName).
			Str("fetched", fetched).
			Msg("hotel name does not match")
		return rejected(ReasonNameMismatch)
	}
	return Validation{OK: true, Details: payload}
}

// nameMatches accepts a substring in either direction, or any whitespace
// token of the expected name appearing in the fetched one. Franchise suffixes
// and partial official names pass.
func nameMatches(expected, fetched string) bool {
	e := strings.ToLower(expected)
	f := strings.ToLower(fetched)
	if strings.Contains(f, e) || strings.Contains(e, f) {
		return true
	}
	for _, tok := range strings.Fields(e) {
		if strings.Contains(f, tok) {
			return true
		}
	}
	return false
}
