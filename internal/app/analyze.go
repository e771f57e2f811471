package app

import (
	"context"

	"hotel_reviews/internal/domain"
)

// analysisWindow is how many of the newest reviews feed the sentiment model.
const analysisWindow = 5

type AnalysisService struct {
	repo     domain.HotelRepository
	analyzer domain.Analyzer
}

func NewAnalysisService(repo domain.HotelRepository, analyzer domain.Analyzer) *AnalysisService {
	return &AnalysisService{repo: repo, analyzer: analyzer}
}

// AnalyzeHotel summarizes the last stored reviews for one hotel.
// ErrNotFound: unknown hotel. ErrNoReviews: nothing stored to analyze.
func (s *AnalysisService) AnalyzeHotel(ctx context.Context, locationID int64) (domain.Analysis, error) {
	h, err := s.repo.HotelByLocation(ctx, locationID)
	if err != nil {
		return domain.Analysis{}, err
	}
	last, err := s.repo.LatestReviews(ctx, locationID, analysisWindow)
	if err != nil {
		return domain.Analysis{}, err
	}
	if len(last) == 0 {
		return domain.Analysis{}, domain.ErrNoReviews
	}
	return s.analyzer.Analyze(ctx, h, last)
}
