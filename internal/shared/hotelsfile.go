package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hotel_reviews/internal/domain"
)

// LoadHotelRecords reads a hotels input file, a single JSON array of
// {name, brand, location_id} objects. location_id tolerates strings,
// numbers and null.
func LoadHotelRecords(path string) ([]domain.HotelRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hotels file %s: %w", path, err)
	}
	var recs []domain.HotelRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("parse hotels file %s: %w", path, err)
	}
	return recs, nil
}

// SaveHotelRecords rewrites the hotels file in place, pretty-printed so the
// file stays hand-editable.
func SaveHotelRecords(path string, recs []domain.HotelRecord) error {
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode hotels file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write hotels file %s: %w", path, err)
	}
	return nil
}
