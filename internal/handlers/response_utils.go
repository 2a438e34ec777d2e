package handlers

import (
	"github.com/gin-gonic/gin"

	"prediction-service/internal/models"
)

// RespondWithError sends the standardized failure payload. Details should be
// non-nil only for record-level validation failures.
func RespondWithError(c *gin.Context, httpStatus int, summary string, details []models.RecordError) {
	c.JSON(httpStatus, models.ErrorResponse{
		Success: false,
		Error:   summary,
		Details: details,
	})
}

// RespondWithPredictions sends the success payload: one prediction per input
// record, in input order.
func RespondWithPredictions(c *gin.Context, httpStatus int, predictions []float64) {
	c.JSON(httpStatus, models.PredictResponse{
		Success:     true,
		Predictions: predictions,
	})
}
