package tripadvisor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hotel_reviews/internal/adapters/tripadvisor"
)

func TestGetDetails_NonRetryableStatusAbortsImmediately(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(500)
	}))
	defer ts.Close()

	cl, err := tripadvisor.New(ts.URL, "test-key", 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := cl.GetDetails(ctx, 1); err == nil {
		t.Fatalf("expected error for 500")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("non-429 must not be retried, got %d calls", n)
	}
}

func TestGetReviews_EmptyData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit param = %q, want 5", got)
		}
		if got := r.URL.Query().Get("language"); got != "fr" {
			t.Errorf("language param = %q, want fr", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer ts.Close()

	cl, _ := tripadvisor.New(ts.URL, "test-key", 3)
	revs, err := cl.GetReviews(context.Background(), 42, 5)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(revs) != 0 {
		t.Fatalf("expected no reviews, got %d", len(revs))
	}
}

func TestSearchLocation_FirstResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("category"); got != "hotels" {
			t.Errorf("category param = %q, want hotels", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{
			map[string]any{"location_id": "188151", "name": "Hotel Le Rivage"},
			map[string]any{"location_id": "999", "name": "Other"},
		}})
	}))
	defer ts.Close()

	cl, _ := tripadvisor.New(ts.URL, "test-key", 3)
	id, err := cl.SearchLocation(context.Background(), "Hotel Le Rivage")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id != 188151 {
		t.Fatalf("expected 188151, got %d", id)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := tripadvisor.New("http://x", "", 3); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
