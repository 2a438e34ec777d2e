package predictor

import (
	"prediction-service/internal/models"
	"prediction-service/internal/scorer"
	"prediction-service/internal/schema"
)

// Service runs the full prediction pipeline for one request body:
// normalize -> validate all -> assemble -> score. It holds only read-only,
// process-wide state (the schema registry and the scoring backend) and is
// safe for concurrent use.
type Service struct {
	registry *schema.Registry
	scorer   scorer.Scorer
}

// NewService creates a prediction service over a loaded schema registry and
// scoring backend.
func NewService(registry *schema.Registry, sc scorer.Scorer) *Service {
	return &Service{registry: registry, scorer: sc}
}

// Predict takes a raw request body and returns one prediction per input
// record, in input order. Failures are typed: *models.MalformedInputError
// when the body is unusable, *models.BatchValidationError when any record
// fails validation, *models.ScoringError when the backend fails on a
// validated batch.
func (s *Service) Predict(body []byte) ([]float64, error) {
	records, err := Normalize(body)
	if err != nil {
		return nil, err
	}

	batch := Assemble(records, s.registry.Features())
	if !batch.OK() {
		return nil, &models.BatchValidationError{Total: len(records), Failures: batch.Failures}
	}

	predictions, err := s.scorer.Predict(batch.Vectors)
	if err != nil {
		return nil, err
	}
	return predictions, nil
}
