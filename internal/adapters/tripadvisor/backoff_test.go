package tripadvisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// Two 429s then a 200 must produce exactly three calls with 1s and 2s waits.
func TestGet_BackoffOn429(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]any{"name": "Le Rivage"})
		}
	}))
	defer ts.Close()

	cl, err := New(ts.URL, "test-key", 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var waits []time.Duration
	cl.sleep = func(ctx context.Context, d time.Duration) bool {
		waits = append(waits, d)
		return true
	}

	got, err := cl.GetDetails(context.Background(), 123)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["name"] != "Le Rivage" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", n)
	}
	if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Fatalf("expected backoff 1s then 2s, got %v", waits)
	}
}

func TestGet_RetriesExhausted(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	cl, _ := New(ts.URL, "test-key", 3)
	cl.sleep = func(ctx context.Context, d time.Duration) bool { return true }

	if _, err := cl.GetDetails(context.Background(), 1); err == nil {
		t.Fatalf("expected terminal error after retry exhaustion")
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}
