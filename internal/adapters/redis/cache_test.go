package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "hotel_reviews/internal/adapters/redis"
	"hotel_reviews/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var miss domain.Hotel
	ok, err := c.Get(ctx, "hotel:1", &miss)
	if err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	in := domain.Hotel{Name: "Le Rivage", Brand: "Indep", LocationID: 188151}
	if err := c.Set(ctx, "hotel:188151", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.Hotel
	ok, err = c.Get(ctx, "hotel:188151", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}

	if err := c.Del(ctx, "hotel:188151"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "hotel:188151", &out)
	if ok {
		t.Fatalf("expected miss after delete")
	}
}
