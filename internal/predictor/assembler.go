package predictor

import (
	"runtime"
	"sync"

	"prediction-service/internal/models"
	"prediction-service/internal/schema"
)

// Batches at or above this size are validated in parallel. Below it the
// goroutine overhead outweighs the per-record work.
const parallelThreshold = 64

// Assemble validates every record independently and gathers the outcomes in
// original input order. The batch is all-or-nothing: if any record fails, the
// result lists every failed record with its complete violations and no
// vectors; one bad record fails the whole request rather than being silently
// dropped. Per-record validation has no cross-record dependency, so large
// batches fan out across workers purely as an optimization; results are
// written by index, never raced for.
func Assemble(records []models.RawRecord, specs []schema.FeatureSpec) models.BatchResult {
	outcomes := make([]models.RecordOutcome, len(records))

	if len(records) >= parallelThreshold {
		var wg sync.WaitGroup
		workers := runtime.GOMAXPROCS(0)
		chunk := (len(records) + workers - 1) / workers
		for w := 0; w < workers; w++ {
			start := w * chunk
			end := start + chunk
			if end > len(records) {
				end = len(records)
			}
			if start >= end {
				continue
			}
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				for i := start; i < end; i++ {
					outcomes[i] = ValidateRecord(i, records[i], specs)
				}
			}(start, end)
		}
		wg.Wait()
	} else {
		for i, rec := range records {
			outcomes[i] = ValidateRecord(i, rec, specs)
		}
	}

	var failures []models.RecordError
	for _, outcome := range outcomes {
		if !outcome.Valid() {
			failures = append(failures, models.RecordError{Index: outcome.Index, Violations: outcome.Violations})
		}
	}
	if len(failures) > 0 {
		return models.BatchResult{Failures: failures}
	}

	vectors := make([][]float64, len(outcomes))
	for i, outcome := range outcomes {
		vectors[i] = outcome.Vector
	}
	return models.BatchResult{Vectors: vectors}
}
