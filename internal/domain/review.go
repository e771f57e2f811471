package domain

import "time"

// Review as stored. ReviewID is the provider's id and is unique across the
// whole table; re-ingestion must skip rows that already carry it.
type Review struct {
	ID            int64      `json:"id"`
	LocationID    int64      `json:"location_id"`
	ReviewID      int64      `json:"review_id"`
	PublishedDate time.Time  `json:"published_date"`
	Rating        int        `json:"rating"`
	Text          string     `json:"text"`
	Title         string     `json:"title"`
	TripType      *string    `json:"trip_type"`
	TravelDate    *time.Time `json:"travel_date"`
	HelpfulVotes  int        `json:"helpful_votes"`
	Username      *string    `json:"username"`
	URL           *string    `json:"url"`
}

// Analysis is the four-section sentiment summary produced for a hotel.
type Analysis struct {
	HotelName            string `json:"nom_hotel"`
	Brand                string `json:"marque"`
	NoteGlobale          string `json:"note_globale"`
	AnalyseDesSentiments string `json:"analyse_des_sentiments"`
	Insights             string `json:"insights"`
	Conclusion           string `json:"conclusion"`
}
