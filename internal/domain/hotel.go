package domain

import "strings"

// Hotel as stored. Name is the natural key; LocationID is the external
// provider's identifier and must stay unique across the table.
type Hotel struct {
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	LocationID int64  `json:"location_id"`
}

// FlexID carries a location id that may arrive as a JSON string or number.
// Coercion to a positive integer happens in the validator, not here.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	if s == "null" {
		s = ""
	}
	*f = FlexID(s)
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + string(f) + `"`), nil
}

func (f FlexID) String() string { return string(f) }

// HotelRecord is one entry of a hotels input file before persistence.
type HotelRecord struct {
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	LocationID FlexID `json:"location_id"`
}
