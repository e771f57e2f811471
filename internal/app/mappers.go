package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hotel_reviews/internal/domain"
)

// Provider timestamp formats. publishedLayout is strict; anything else falls
// back to the ingestion wall clock. travelLayout failures leave the field
// absent instead.
const (
	publishedLayout = "2006-01-02T15:04:05-0700"
	travelLayout    = "2006-01"
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// int64At: integer from a path (float64/int/string forms all accepted,
// since JSON decoding and provider payloads disagree on number types).
func int64At(m map[string]any, path string) (int64, bool) {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/********** review mapper **********/

// mapReview builds one stored review from a raw provider payload. Missing
// id/location_id/rating/title/text fails just this review; optional fields
// degrade to their defaults.
func mapReview(m map[string]any, now time.Time) (domain.Review, error) {
	var rv domain.Review

	id, ok := int64At(m, "id")
	if !ok {
		return rv, fmt.Errorf("review payload missing id")
	}
	loc, ok := int64At(m, "location_id")
	if !ok {
		return rv, fmt.Errorf("review %d missing location_id", id)
	}
	rating, ok := int64At(m, "rating")
	if !ok {
		return rv, fmt.Errorf("review %d missing rating", id)
	}
	title := lookupStr(m, "title")
	text := lookupStr(m, "text")
	if title == "" || text == "" {
		return rv, fmt.Errorf("review %d missing title or text", id)
	}

	rv.ReviewID = id
	rv.LocationID = loc
	rv.Rating = int(rating)
	rv.Title = title
	rv.Text = text

	rv.PublishedDate = now
	if s := lookupStr(m, "published_date"); s != "" {
		if t, err := time.Parse(publishedLayout, s); err == nil {
			rv.PublishedDate = t
		}
	}
	if s := lookupStr(m, "travel_date"); s != "" {
		if t, err := time.Parse(travelLayout, s); err == nil {
			rv.TravelDate = &t
		}
	}

	rv.TripType = ptrStr(lookupStr(m, "trip_type"))
	if hv, ok := int64At(m, "helpful_votes"); ok {
		rv.HelpfulVotes = int(hv)
	}
	rv.Username = ptrStr(lookupStr(m, "user.username"))
	rv.URL = ptrStr(lookupStr(m, "url"))

	return rv, nil
}
