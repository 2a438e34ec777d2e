package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prediction-service/internal/database"
	"prediction-service/internal/models"
	"prediction-service/internal/predictor"
)

// Health handles GET / as a liveness probe.
func Health(c *gin.Context) {
	log.Println("Main endpoint processing HTTP request")
	c.JSON(http.StatusOK, models.HealthResponse{Success: true, Message: "Hello, World!"})
}

// PredictHandler creates the gin.HandlerFunc for POST /predict. The body is
// either a single JSON object or an array of objects; the response is
// all-or-nothing — either one prediction per record in input order, or the
// complete set of per-record violations.
func PredictHandler(svc *predictor.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Println("Inference endpoint processing HTTP request")

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, "failed to read request body", nil)
			return
		}

		start := time.Now()
		predictions, err := svc.Predict(body)
		elapsed := time.Since(start)

		if err != nil {
			status, details := classify(err)
			log.Printf("Prediction request failed: %v", err)
			total := 0
			var invalid *models.BatchValidationError
			if errors.As(err, &invalid) {
				total = invalid.Total
			}
			audit(total, nil, err.Error(), elapsed)
			RespondWithError(c, status, err.Error(), details)
			return
		}

		log.Printf("Predictions made successfully for %d record(s)", len(predictions))
		audit(len(predictions), predictions, "", elapsed)
		RespondWithPredictions(c, http.StatusOK, predictions)
	}
}

// classify maps a pipeline error to an HTTP status and, for validation
// failures, the per-record detail list.
func classify(err error) (int, []models.RecordError) {
	var malformed *models.MalformedInputError
	var invalid *models.BatchValidationError
	var scoring *models.ScoringError
	switch {
	case errors.As(err, &malformed):
		return http.StatusBadRequest, nil
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Failures
	case errors.As(err, &scoring):
		return http.StatusInternalServerError, nil
	default:
		return http.StatusInternalServerError, nil
	}
}

func audit(recordCount int, predictions []float64, errSummary string, elapsed time.Duration) {
	entry := &models.PredictionLog{
		ID:          uuid.New(),
		RecordCount: recordCount,
		Success:     errSummary == "",
		Error:       errSummary,
		DurationMs:  elapsed.Milliseconds(),
	}
	if predictions != nil {
		if encoded, err := json.Marshal(predictions); err == nil {
			entry.Predictions = string(encoded)
		}
	}
	database.LogPrediction(entry)
}
