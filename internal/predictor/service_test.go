package predictor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prediction-service/internal/models"
	"prediction-service/internal/schema"
)

// --- Mock Scorer ---
type MockScorer struct {
	PredictFunc func(X [][]float64) ([]float64, error)
}

func (m *MockScorer) Predict(X [][]float64) ([]float64, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(X)
	}
	return nil, fmt.Errorf("PredictFunc not implemented")
}

// sumScorer predicts the sum of each row's features: deterministic and
// order-sensitive, which is what the ordering assertions need.
func sumScorer() *MockScorer {
	return &MockScorer{PredictFunc: func(X [][]float64) ([]float64, error) {
		out := make([]float64, len(X))
		for i, row := range X {
			for _, v := range row {
				out[i] += v
			}
		}
		return out, nil
	}}
}

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.json")
	content := `{
		"LotArea": "int",
		"YearBuilt": "int",
		"1stFlrSF": "int",
		"2ndFlrSF": "int",
		"FullBath": "int",
		"BedroomAbvGr": "int",
		"TotRmsAbvGrd": "int"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	reg, err := schema.Load(path)
	require.NoError(t, err)
	return reg
}

const validHouseJSON = `{"LotArea": 8450, "YearBuilt": 2003, "1stFlrSF": 856, "2ndFlrSF": 854, "FullBath": 2, "BedroomAbvGr": 3, "TotRmsAbvGrd": 8}`

func TestServicePredictSingleRecord(t *testing.T) {
	svc := NewService(testRegistry(t), sumScorer())

	preds, err := svc.Predict([]byte(validHouseJSON))
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, 8450.0+2003+856+854+2+3+8, preds[0])
}

func TestServicePredictBatchOrder(t *testing.T) {
	svc := NewService(testRegistry(t), sumScorer())
	body := fmt.Sprintf(`[%s, %s, %s]`, validHouseJSON, validHouseJSON, validHouseJSON)

	preds, err := svc.Predict([]byte(body))
	require.NoError(t, err)
	require.Len(t, preds, 3)
}

func TestServicePredictIsIdempotent(t *testing.T) {
	svc := NewService(testRegistry(t), sumScorer())

	first, err := svc.Predict([]byte(validHouseJSON))
	require.NoError(t, err)
	second, err := svc.Predict([]byte(validHouseJSON))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestServicePredictMalformedBody(t *testing.T) {
	svc := NewService(testRegistry(t), sumScorer())

	_, err := svc.Predict([]byte(`"not a record"`))
	require.Error(t, err)
	var malformed *models.MalformedInputError
	assert.True(t, errors.As(err, &malformed))
}

func TestServicePredictValidationFailure(t *testing.T) {
	svc := NewService(testRegistry(t), sumScorer())

	_, err := svc.Predict([]byte(`{"LotArea": 8450}`))
	require.Error(t, err)

	var invalid *models.BatchValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 1, invalid.Total)
	require.Len(t, invalid.Failures, 1)
	assert.Equal(t, 0, invalid.Failures[0].Index)
	// One missing violation per absent required field.
	assert.Len(t, invalid.Failures[0].Violations, 6)
}

func TestServicePredictScoringFailure(t *testing.T) {
	failing := &MockScorer{PredictFunc: func(X [][]float64) ([]float64, error) {
		return nil, &models.ScoringError{Reason: "backend unavailable"}
	}}
	svc := NewService(testRegistry(t), failing)

	_, err := svc.Predict([]byte(validHouseJSON))
	require.Error(t, err)
	var scoring *models.ScoringError
	assert.True(t, errors.As(err, &scoring))
}

func TestServicePredictNeverScoresInvalidBatch(t *testing.T) {
	called := false
	sc := &MockScorer{PredictFunc: func(X [][]float64) ([]float64, error) {
		called = true
		return make([]float64, len(X)), nil
	}}
	svc := NewService(testRegistry(t), sc)

	body := fmt.Sprintf(`[%s, {"LotArea": true}]`, validHouseJSON)
	_, err := svc.Predict([]byte(body))
	require.Error(t, err)
	assert.False(t, called, "scorer must not run when any record is invalid")
}
