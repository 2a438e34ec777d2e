package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"prediction-service/internal/models"
	"prediction-service/internal/schema"
)

// Year-like fields must fall in [minPlausibleYear, current year + 1].
const minPlausibleYear = 1800

// ValidateRecord checks one record against the feature specs in declared
// order: presence, type coercion, then range sanity. Checks never
// short-circuit at the first violation; the caller needs the complete error
// picture in one round trip. With zero violations the outcome carries the
// coerced feature vector in spec order; otherwise it carries every violation.
func ValidateRecord(index int, rec models.RawRecord, specs []schema.FeatureSpec) models.RecordOutcome {
	var violations []models.FieldViolation
	vector := make([]float64, 0, len(specs))

	for _, spec := range specs {
		raw, present := rec[spec.Name]
		if !present {
			if spec.Required {
				violations = append(violations, models.FieldViolation{
					Field:  spec.Name,
					Reason: models.ReasonMissing,
					Detail: "required field is missing",
				})
			} else {
				// Optional and absent: scored as zero.
				vector = append(vector, 0)
			}
			continue
		}

		value, detail := coerce(raw, spec.Type)
		if detail != "" {
			violations = append(violations, models.FieldViolation{
				Field:  spec.Name,
				Reason: models.ReasonWrongType,
				Detail: detail,
			})
			continue
		}

		if detail := checkRange(spec.Name, value); detail != "" {
			violations = append(violations, models.FieldViolation{
				Field:  spec.Name,
				Reason: models.ReasonOutOfRange,
				Detail: detail,
			})
			continue
		}

		vector = append(vector, value)
	}

	if len(violations) > 0 {
		return models.RecordOutcome{Index: index, Violations: violations}
	}
	return models.RecordOutcome{Index: index, Vector: vector}
}

// coerce converts a raw JSON value to the declared numeric type. It returns
// the coerced value, or a non-empty detail string on failure naming the
// offending value's JSON type. Booleans never coerce to numbers even though
// some runtimes treat them as integers.
func coerce(raw interface{}, t schema.FeatureType) (float64, string) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Sprintf("expected %s, got unparsable number %q", t, v.String())
		}
		if t == schema.TypeInteger && !isIntegral(v.String(), f) {
			return 0, fmt.Sprintf("expected integer, got number with fractional component (%s)", v.String())
		}
		return f, ""
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Sprintf("expected %s, got non-numeric string %q", t, v)
		}
		// ParseFloat accepts "NaN" and "Inf" spellings; neither is a usable
		// feature value and must not reach the scorer.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Sprintf("expected %s, got non-finite string %q", t, v)
		}
		if t == schema.TypeInteger && !isIntegral(strings.TrimSpace(v), f) {
			return 0, fmt.Sprintf("expected integer, got string with fractional component (%q)", v)
		}
		return f, ""
	case bool:
		return 0, fmt.Sprintf("expected %s, got boolean", t)
	case nil:
		return 0, fmt.Sprintf("expected %s, got null", t)
	case map[string]interface{}:
		return 0, fmt.Sprintf("expected %s, got object", t)
	case []interface{}:
		return 0, fmt.Sprintf("expected %s, got array", t)
	default:
		return 0, fmt.Sprintf("expected %s, got %T", t, raw)
	}
}

// isIntegral reports whether a numeric literal has no fractional component:
// "2003" and "2003.0" qualify, "2003.5" does not.
func isIntegral(literal string, f float64) bool {
	if !strings.ContainsAny(literal, ".eE") {
		return true
	}
	return f == math.Trunc(f)
}

// checkRange applies defensive sanity bounds by field-name convention: areas,
// counts and room totals are inherently non-negative, and year-like fields
// must be plausible. This is not business-rule-complete validation.
func checkRange(name string, value float64) string {
	if isYearField(name) {
		maxYear := float64(time.Now().Year() + 1)
		if value < minPlausibleYear || value > maxYear {
			return fmt.Sprintf("year %g outside plausible range [%d, %g]", value, minPlausibleYear, maxYear)
		}
		return ""
	}
	if isNonNegativeField(name) && value < 0 {
		return fmt.Sprintf("must be non-negative, got %g", value)
	}
	return ""
}

func isYearField(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "year") || strings.Contains(lower, "yr")
}

// Area, count and room fields are non-negative by convention.
func isNonNegativeField(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"area", "sf", "bath", "bedroom", "room", "rms", "count", "cars", "porch"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
