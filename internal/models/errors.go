package models

import "fmt"

// SchemaLoadError means the feature schema source is missing, malformed, empty
// or contains duplicates. It is startup-fatal: the process must not serve
// traffic without an authoritative schema.
type SchemaLoadError struct {
	Reason string
}

func (e *SchemaLoadError) Error() string {
	return "failed to load feature schema: " + e.Reason
}

// MalformedInputError means the whole request body is unusable (unparsable
// JSON, or not an object / array of objects). It is request-level, not
// record-level: no validation ran at all.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return e.Reason
}

// BatchValidationError means at least one record in the batch failed
// validation. Failures holds every failed record with its complete violation
// list; records that passed are omitted but do not rescue the batch.
type BatchValidationError struct {
	Total    int
	Failures []RecordError
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d of %d record(s)", len(e.Failures), e.Total)
}

// ScoringError means the scoring backend failed on an already-validated batch.
// Validation should make this unreachable in the normal case, so it surfaces
// as a 500-class failure and is never retried by the service.
type ScoringError struct {
	Reason string
}

func (e *ScoringError) Error() string {
	return "prediction failed: " + e.Reason
}
