// Package record defines the typed data model threaded through the content
// pipeline: the canonical ProductRecord parsed from input, the categorized
// QuestionSet, and the three output page documents.
// Related: internal/schema (structural validation), internal/pipeline (state threading)
package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ProductRecord is the canonical representation of one product.
// It is immutable once parsed: stages receive copies or read-only access.
type ProductRecord struct {
	ProductName    string `json:"product_name"`
	Concentration  string `json:"concentration,omitempty"`
	SkinType       string `json:"skin_type"`
	KeyIngredients string `json:"key_ingredients"`
	Benefits       string `json:"benefits"`
	HowToUse       string `json:"how_to_use"`
	SideEffects    string `json:"side_effects,omitempty"`
	Price          string `json:"price"`
}

// InvalidInputError reports source input that cannot be shaped into a
// ProductRecord. It is fatal: bad input is never retried.
type InvalidInputError struct {
	Missing   []string // required attributes absent from the input
	Malformed []string // attributes present but of the wrong shape
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required attributes: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Malformed) > 0 {
		parts = append(parts, fmt.Sprintf("malformed attributes: %s", strings.Join(e.Malformed, ", ")))
	}
	if len(parts) == 0 {
		return "invalid input"
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// keyAliases maps loosely-shaped input keys to canonical field names.
// Source data arrives with display-style keys ("Product Name"); model output
// tends toward snake_case. Both normalize to the same canonical key.
var keyAliases = map[string]string{
	"product name":    "product_name",
	"product_name":    "product_name",
	"concentration":   "concentration",
	"skin type":       "skin_type",
	"skin_type":       "skin_type",
	"key ingredients": "key_ingredients",
	"key_ingredients": "key_ingredients",
	"benefits":        "benefits",
	"how to use":      "how_to_use",
	"how_to_use":      "how_to_use",
	"side effects":    "side_effects",
	"side_effects":    "side_effects",
	"price":           "price",
}

// requiredAttributes are the canonical keys that must be present and
// non-empty for a ProductRecord to be valid. Concentration and side effects
// are optional.
var requiredAttributes = []string{
	"product_name",
	"skin_type",
	"key_ingredients",
	"benefits",
	"how_to_use",
	"price",
}

// NormalizeKeys rewrites recognized aliases in a raw attribute map to their
// canonical snake_case form. Unrecognized keys are preserved untouched so the
// caller can report them.
func NormalizeKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		canonical, ok := keyAliases[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			canonical = k
		}
		out[canonical] = v
	}
	return out
}

// ParseProduct maps a loosely-shaped attribute map into a ProductRecord.
// Deterministic and idempotent: the same input always yields a field-for-field
// identical record or the same *InvalidInputError.
func ParseProduct(raw map[string]any) (*ProductRecord, error) {
	normalized := NormalizeKeys(raw)

	verr := &InvalidInputError{}
	values := make(map[string]string, len(normalized))
	for key, v := range normalized {
		s, ok := asString(v)
		if !ok {
			verr.Malformed = append(verr.Malformed, key)
			continue
		}
		values[key] = strings.TrimSpace(s)
	}

	for _, key := range requiredAttributes {
		if values[key] == "" {
			verr.Missing = append(verr.Missing, key)
		}
	}
	sort.Strings(verr.Malformed)
	if len(verr.Missing) > 0 || len(verr.Malformed) > 0 {
		return nil, verr
	}

	return &ProductRecord{
		ProductName:    values["product_name"],
		Concentration:  values["concentration"],
		SkinType:       values["skin_type"],
		KeyIngredients: values["key_ingredients"],
		Benefits:       values["benefits"],
		HowToUse:       values["how_to_use"],
		SideEffects:    values["side_effects"],
		Price:          values["price"],
	}, nil
}

// ParseProductJSON decodes a JSON document and parses it into a ProductRecord.
func ParseProductJSON(data []byte) (*ProductRecord, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidInputError{Malformed: []string{fmt.Sprintf("document: %v", err)}}
	}
	return ParseProduct(raw)
}

// asString accepts strings plus the numeric shapes JSON decoding produces for
// attributes like price entered without quotes.
func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t)), true
		}
		return fmt.Sprintf("%g", t), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// Equal reports whether two records match field for field.
func (p *ProductRecord) Equal(other *ProductRecord) bool {
	if p == nil || other == nil {
		return p == other
	}
	return *p == *other
}

// Differentiators returns the names of attributes (beyond the name itself)
// on which p differs from other. Used to judge synthetic competitors.
func (p *ProductRecord) Differentiators(other *ProductRecord) []string {
	var diff []string
	pairs := []struct {
		name string
		a, b string
	}{
		{"concentration", p.Concentration, other.Concentration},
		{"skin_type", p.SkinType, other.SkinType},
		{"key_ingredients", p.KeyIngredients, other.KeyIngredients},
		{"benefits", p.Benefits, other.Benefits},
		{"how_to_use", p.HowToUse, other.HowToUse},
		{"side_effects", p.SideEffects, other.SideEffects},
		{"price", p.Price, other.Price},
	}
	for _, pair := range pairs {
		if !strings.EqualFold(strings.TrimSpace(pair.a), strings.TrimSpace(pair.b)) {
			diff = append(diff, pair.name)
		}
	}
	return diff
}
