// Package tripadvisor talks to the travel-data content API. Every call is
// rate limited client side; HTTP 429 is retried with exponential backoff,
// anything else fails the call immediately.
package tripadvisor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/domain"
)

type Client struct {
	base       string
	key        string
	hc         *http.Client
	rl         *rate.Limiter
	maxRetries int

	// sleep is swappable so tests can observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) bool
}

func New(base, key string, maxRetries int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		base:       strings.TrimRight(base, "/"),
		key:        key,
		hc:         &http.Client{Timeout: 20 * time.Second},
		rl:         rate.NewLimiter(rate.Limit(2), 2),
		maxRetries: maxRetries,
		sleep:      sleepCtx,
	}, nil
}

func (c *Client) params(extra url.Values) url.Values {
	v := url.Values{}
	v.Set("key", c.key)
	v.Set("language", "fr")
	for k, vals := range extra {
		for _, x := range vals {
			v.Add(k, x)
		}
	}
	return v
}

// GetDetails fetches the detail payload for one location id.
func (c *Client) GetDetails(ctx context.Context, locationID int64) (map[string]any, error) {
	u := fmt.Sprintf("%s/location/%d/details?%s", c.base, locationID, c.params(nil).Encode())
	var out map[string]any
	if err := c.get(ctx, "details", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReviews fetches up to limit reviews for one location id. A payload
// without a data array reads as zero reviews, not as an error.
func (c *Client) GetReviews(ctx context.Context, locationID int64, limit int) ([]map[string]any, error) {
	extra := url.Values{}
	extra.Set("limit", strconv.Itoa(limit))
	u := fmt.Sprintf("%s/location/%d/reviews?%s", c.base, locationID, c.params(extra).Encode())

	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.get(ctx, "reviews", u, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		log.Info().Int64("location_id", locationID).Msg("no reviews returned")
	}
	return out.Data, nil
}

// SearchLocation returns the first search result's location id for a query.
func (c *Client) SearchLocation(ctx context.Context, query string) (int64, error) {
	extra := url.Values{}
	extra.Set("searchQuery", query)
	extra.Set("category", "hotels")
	u := fmt.Sprintf("%s/location/search?%s", c.base, c.params(extra).Encode())

	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.get(ctx, "search", u, &out); err != nil {
		return 0, err
	}
	if len(out.Data) == 0 {
		return 0, domain.ErrNotFound
	}
	id, ok := coerceID(out.Data[0]["location_id"])
	if !ok {
		return 0, fmt.Errorf("search result without usable location_id: %v", out.Data[0]["location_id"])
	}
	return id, nil
}

// get performs up to maxRetries attempts. Only 429 re-enters the loop,
// sleeping 2^attempt seconds; transport errors and other statuses abort the
// call on the spot.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("tripadvisor", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		observability.ObserveExternal("tripadvisor", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			wait := time.Duration(1<<attempt) * time.Second
			log.Info().
				Str("endpoint", endpoint).
				Dur("wait", wait).
				Msg("rate limited, retrying")
			if !c.sleep(ctx, wait) {
				return ctx.Err()
			}

		default:
			resp.Body.Close()
			return fmt.Errorf("tripadvisor %s: bad status %d", endpoint, resp.StatusCode)
		}
	}

	log.Error().Str("endpoint", endpoint).Int("attempts", c.maxRetries).Msg("retries exhausted")
	return domain.ErrRateLimited
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

// coerceID accepts the id as a JSON string or number.
func coerceID(v any) (int64, bool) {
	switch x := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	case float64:
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	}
	return 0, false
}
