package models

import (
	"time"

	"github.com/google/uuid"
)

// RawRecord is one unvalidated input record exactly as the caller supplied it:
// field name to arbitrary JSON value. It is only ever read, never mutated.
// Numbers are json.Number so int-vs-float fidelity survives until coercion.
type RawRecord map[string]interface{}

// Violation reasons reported per field.
const (
	ReasonMissing    = "missing"
	ReasonWrongType  = "wrong_type"
	ReasonOutOfRange = "out_of_range"
)

// FieldViolation describes one validation failure on one field of one record.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// RecordOutcome is the result of validating a single record: either an ordered
// numeric vector (one entry per feature, in declared feature order) or a
// non-empty list of violations. Index is the record's 0-based position in the
// caller's original input.
type RecordOutcome struct {
	Index      int
	Vector     []float64
	Violations []FieldViolation
}

// Valid reports whether the record passed every check.
func (o RecordOutcome) Valid() bool { return len(o.Violations) == 0 }

// RecordError pairs a failed record's input position with its violations.
type RecordError struct {
	Index      int              `json:"index"`
	Violations []FieldViolation `json:"violations"`
}

// BatchResult is the all-or-nothing outcome of validating a whole batch:
// either Vectors holds one validated vector per input record (in input order),
// or Failures lists every record that failed. Never both.
type BatchResult struct {
	Vectors  [][]float64
	Failures []RecordError
}

// OK reports whether every record in the batch validated.
func (b BatchResult) OK() bool { return len(b.Failures) == 0 }

// PredictResponse is the wire shape for a fully successful prediction request.
type PredictResponse struct {
	Success     bool      `json:"success"`
	Predictions []float64 `json:"predictions"`
}

// ErrorResponse is the wire shape for every failure. Details is present only
// for record-level validation failures.
type ErrorResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error"`
	Details []RecordError `json:"details,omitempty"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PredictionLog is one audit row per served /predict request.
type PredictionLog struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	Success     bool      `json:"success" gorm:"not null"`
	Predictions string    `json:"predictions,omitempty" gorm:"type:text"` // JSON-encoded []float64
	Error       string    `json:"error,omitempty" gorm:"type:text"`
	DurationMs  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
