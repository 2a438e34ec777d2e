package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"prediction-service/internal/models"
)

// FeatureType is the declared numeric type of a feature.
type FeatureType string

const (
	TypeInteger FeatureType = "integer"
	TypeFloat   FeatureType = "float"
)

// FeatureSpec describes one input field: its name, expected numeric type and
// whether the caller must supply it. Immutable after load.
type FeatureSpec struct {
	Name     string
	Type     FeatureType
	Required bool
}

// Registry holds the authoritative, ordered feature definitions for the
// lifetime of the process. The declaration order in the schema source is the
// contract for feature-vector layout everywhere downstream, so the registry
// preserves it exactly. Loaded once at startup, read-only thereafter.
type Registry struct {
	specs []FeatureSpec
}

// featureEntry is the long-form value in features.json. The short form is a
// bare type string, which implies required.
type featureEntry struct {
	Type     string `json:"type"`
	Required *bool  `json:"required"`
}

// Load reads the feature schema from path. The source is a JSON object whose
// keys are feature names, in authoritative declaration order, and whose values
// are either a type string ("int" or "float", field required) or an object
// {"type": "int", "required": false}. Fails on a missing file, malformed JSON,
// an empty schema, an unknown type or a duplicate field name.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.SchemaLoadError{Reason: err.Error()}
	}

	// encoding/json maps do not preserve key order, and the order here is the
	// vector-layout contract, so walk the token stream directly.
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, &models.SchemaLoadError{Reason: fmt.Sprintf("invalid JSON in %s: %v", path, err)}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &models.SchemaLoadError{Reason: fmt.Sprintf("%s must contain a JSON object mapping feature names to types", path)}
	}

	var specs []FeatureSpec
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &models.SchemaLoadError{Reason: fmt.Sprintf("invalid JSON in %s: %v", path, err)}
		}
		name := keyTok.(string)
		if seen[name] {
			return nil, &models.SchemaLoadError{Reason: fmt.Sprintf("duplicate feature name %q", name)}
		}
		seen[name] = true

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, &models.SchemaLoadError{Reason: fmt.Sprintf("invalid value for feature %q: %v", name, err)}
		}
		spec, err := parseSpec(name, raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, &models.SchemaLoadError{Reason: fmt.Sprintf("invalid JSON in %s: %v", path, err)}
	}
	if len(specs) == 0 {
		return nil, &models.SchemaLoadError{Reason: fmt.Sprintf("%s declares no features", path)}
	}

	return &Registry{specs: specs}, nil
}

func parseSpec(name string, raw json.RawMessage) (FeatureSpec, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var typeName string
		if err := json.Unmarshal(trimmed, &typeName); err != nil {
			return FeatureSpec{}, &models.SchemaLoadError{Reason: fmt.Sprintf("invalid type for feature %q: %v", name, err)}
		}
		ft, err := parseType(name, typeName)
		if err != nil {
			return FeatureSpec{}, err
		}
		return FeatureSpec{Name: name, Type: ft, Required: true}, nil
	}

	var entry featureEntry
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		return FeatureSpec{}, &models.SchemaLoadError{Reason: fmt.Sprintf("invalid entry for feature %q: %v", name, err)}
	}
	ft, err := parseType(name, entry.Type)
	if err != nil {
		return FeatureSpec{}, err
	}
	required := true
	if entry.Required != nil {
		required = *entry.Required
	}
	return FeatureSpec{Name: name, Type: ft, Required: required}, nil
}

func parseType(name, typeName string) (FeatureType, error) {
	switch strings.ToLower(typeName) {
	case "int", "integer":
		return TypeInteger, nil
	case "float":
		return TypeFloat, nil
	default:
		return "", &models.SchemaLoadError{Reason: fmt.Sprintf("feature %q has unsupported type %q (want int or float)", name, typeName)}
	}
}

// Features returns the feature specs in declaration order. The returned slice
// is a copy; the registry itself cannot be mutated after load.
func (r *Registry) Features() []FeatureSpec {
	out := make([]FeatureSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Len returns the number of declared features.
func (r *Registry) Len() int { return len(r.specs) }
