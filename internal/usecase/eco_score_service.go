package usecase

import (
	"context"
	"math"

	"github.com/ecocart/backend/internal/domain"
	"github.com/ecocart/backend/internal/infrastructure/ecomodel"
	"github.com/ecocart/backend/internal/infrastructure/imaging"
)

// EcoScoreService predicts an eco score from a product photo
type EcoScoreService struct {
	model         domain.EcoScoreModel
	normalization ecomodel.Normalization
}

// NewEcoScoreService creates a new eco-score service. A nil model leaves the
// classifier disabled.
func NewEcoScoreService(model domain.EcoScoreModel, normalization ecomodel.Normalization) *EcoScoreService {
	return &EcoScoreService{
		model:         model,
		normalization: normalization,
	}
}

// Enabled reports whether a model is configured
func (s *EcoScoreService) Enabled() bool {
	return s.model != nil
}

// ScoreImage decodes, resizes and normalizes the photo, runs the model once
// and returns its output clamped to [0,100] and rounded to one decimal.
func (s *EcoScoreService) ScoreImage(ctx context.Context, imageData []byte) (float64, error) {
	if s.model == nil {
		return 0, domain.ErrClassifierUnavailable
	}

	img, _, err := imaging.Decode(imageData)
	if err != nil {
		return 0, err
	}

	raw, err := s.model.Predict(ctx, ecomodel.Preprocess(img, s.normalization))
	if err != nil {
		return 0, err
	}

	return roundScore(raw), nil
}

func roundScore(raw float64) float64 {
	if math.IsNaN(raw) {
		return 0
	}
	clamped := math.Max(0, math.Min(100, raw))
	return math.Round(clamped*10) / 10
}
