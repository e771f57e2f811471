// Package filecache persists validated provider detail payloads in a single
// JSON file keyed by location id. The file is read whole and rewritten whole;
// there is no incremental update and no expiry.
package filecache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/adapters/observability"
)

type Store struct{ path string }

func New(path string) *Store { return &Store{path: path} }

// Get returns the cached payload for a location id. A missing or unreadable
// backing file reads as absent; callers fall through to a live lookup.
func (s *Store) Get(locationID string) (map[string]any, bool) {
	m := s.load()
	p, ok := m[locationID]
	if ok {
		observability.ObserveCache("details", "hit")
	} else {
		observability.ObserveCache("details", "miss")
	}
	return p, ok
}

// Put rewrites the whole file with the entry added. Failures are logged and
// swallowed: a broken cache must never fail a validation that already
// succeeded against the live API.
func (s *Store) Put(locationID string, payload map[string]any) {
	m := s.load()
	m[locationID] = payload

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		log.Error().Err(err).Str("file", s.path).Msg("marshal detail cache failed")
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error().Err(err).Str("file", s.path).Msg("create cache dir failed")
			return
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		log.Error().Err(err).Str("file", s.path).Msg("write detail cache failed")
		return
	}
	observability.ObserveCache("details", "set")
}

// load degrades to an empty mapping on any read or decode failure; corrupt
// and missing files are indistinguishable from empty by contract.
func (s *Store) load() map[string]map[string]any {
	m := map[string]map[string]any{}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Str("file", s.path).Msg("read detail cache failed")
		}
		return m
	}
	if err := json.Unmarshal(b, &m); err != nil {
		log.Error().Err(err).Str("file", s.path).Msg("detail cache is not valid JSON, treating as empty")
		return map[string]map[string]any{}
	}
	return m
}
