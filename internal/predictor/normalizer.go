package predictor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"prediction-service/internal/models"
)

// Normalize parses a request body into a canonical ordered list of records,
// erasing the single/batch distinction: a single JSON object becomes a
// one-element list, an array of objects is kept in order. Everything else
// (unparsable JSON, scalars, null, an empty array, an array containing a
// non-object) fails with MalformedInputError before any validation runs.
// Downstream code always sees "a list of N>=1 records".
func Normalize(body []byte) ([]models.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var parsed interface{}
	if err := dec.Decode(&parsed); err != nil {
		return nil, &models.MalformedInputError{Reason: "invalid JSON input format"}
	}

	switch v := parsed.(type) {
	case map[string]interface{}:
		return []models.RawRecord{models.RawRecord(v)}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, &models.MalformedInputError{Reason: "input array must contain at least one record object"}
		}
		records := make([]models.RawRecord, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, &models.MalformedInputError{
					Reason: fmt.Sprintf("element %d is not a record object; input must be a JSON object or an array of objects", i),
				}
			}
			records[i] = models.RawRecord(obj)
		}
		return records, nil
	default:
		return nil, &models.MalformedInputError{Reason: "input must be a JSON object or an array of objects"}
	}
}
