package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Violation reports a structural mismatch between model output and a schema.
// Retryable: the orchestrator feeds the violation back into the next prompt
// attempt until the retry budget is exhausted.
type Violation struct {
	Schema          string   // schema name the data was checked against
	MissingFields   []string // required fields absent or empty
	MalformedFields []string // fields present with the wrong type or enum value
}

// Error implements the error interface.
func (v *Violation) Error() string {
	var parts []string
	if len(v.MissingFields) > 0 {
		parts = append(parts, "missing: "+strings.Join(v.MissingFields, ", "))
	}
	if len(v.MalformedFields) > 0 {
		parts = append(parts, "malformed: "+strings.Join(v.MalformedFields, ", "))
	}
	return fmt.Sprintf("output does not conform to %s schema (%s)", v.Schema, strings.Join(parts, "; "))
}

// empty reports whether no violations were recorded.
func (v *Violation) empty() bool {
	return len(v.MissingFields) == 0 && len(v.MalformedFields) == 0
}

// Validate checks data against the schema. The verdict is deterministic:
// fields are walked in declared order and the same data always produces the
// same *Violation or nil.
func Validate(data map[string]any, s Schema) error {
	v := &Violation{Schema: s.Name}
	validateFields(data, s.Fields, "", v)
	if v.empty() {
		return nil
	}
	return v
}

// Parse extracts the JSON object from raw model text, validates it against
// the schema, and decodes it into out. The single entry point stages use at
// a model-call boundary.
func Parse(raw string, s Schema, out any) error {
	data, err := ExtractJSON(raw)
	if err != nil {
		return &Violation{Schema: s.Name, MalformedFields: []string{err.Error()}}
	}
	if err := Validate(data, s); err != nil {
		return err
	}
	return Decode(data, out)
}

// Decode converts a validated attribute map into a typed record via a JSON
// round-trip. Unknown keys are dropped; validation has already run.
func Decode(data map[string]any, out any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding validated data: %w", err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("decoding into %T: %w", out, err)
	}
	return nil
}

func validateFields(data map[string]any, fields []Field, path string, v *Violation) {
	for _, f := range fields {
		fieldPath := f.Name
		if path != "" {
			fieldPath = path + "." + f.Name
		}

		value, present := data[f.Name]
		if !present || value == nil {
			if f.Required {
				v.MissingFields = append(v.MissingFields, fieldPath)
			}
			continue
		}

		switch f.Type {
		case FieldTypeString:
			s, ok := value.(string)
			if !ok {
				v.MalformedFields = append(v.MalformedFields, fmt.Sprintf("%s: expected string", fieldPath))
				continue
			}
			if f.Required && strings.TrimSpace(s) == "" {
				v.MissingFields = append(v.MissingFields, fieldPath)
				continue
			}
			if len(f.Enum) > 0 && !inEnum(s, f.Enum) {
				v.MalformedFields = append(v.MalformedFields,
					fmt.Sprintf("%s: %q not in {%s}", fieldPath, s, strings.Join(f.Enum, ", ")))
			}

		case FieldTypeNumber:
			if _, ok := value.(float64); !ok {
				v.MalformedFields = append(v.MalformedFields, fmt.Sprintf("%s: expected number", fieldPath))
			}

		case FieldTypeBool:
			if _, ok := value.(bool); !ok {
				v.MalformedFields = append(v.MalformedFields, fmt.Sprintf("%s: expected bool", fieldPath))
			}

		case FieldTypeArray:
			items, ok := value.([]any)
			if !ok {
				v.MalformedFields = append(v.MalformedFields, fmt.Sprintf("%s: expected array", fieldPath))
				continue
			}
			if len(items) < f.MinItems {
				v.MalformedFields = append(v.MalformedFields,
					fmt.Sprintf("%s: has %d items, needs at least %d", fieldPath, len(items), f.MinItems))
			}
			validateItems(items, f, fieldPath, v)

		case FieldTypeObject:
			obj, ok := value.(map[string]any)
			if !ok {
				v.MalformedFields = append(v.MalformedFields, fmt.Sprintf("%s: expected object", fieldPath))
				continue
			}
			validateFields(obj, f.Children, fieldPath, v)
		}
	}
}

// validateItems checks each array element. A child field with an empty name
// marks an array of primitives; otherwise elements are objects validated
// against the child fields.
func validateItems(items []any, f Field, path string, v *Violation) {
	if len(f.Children) == 0 {
		return
	}

	if f.Children[0].Name == "" {
		for i, item := range items {
			if _, ok := item.(string); !ok {
				v.MalformedFields = append(v.MalformedFields, fmt.Sprintf("%s[%d]: expected string", path, i))
			}
		}
		return
	}

	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			v.MalformedFields = append(v.MalformedFields, fmt.Sprintf("%s[%d]: expected object", path, i))
			continue
		}
		validateFields(obj, f.Children, fmt.Sprintf("%s[%d]", path, i), v)
	}
}

func inEnum(s string, enum []string) bool {
	for _, e := range enum {
		if s == e {
			return true
		}
	}
	return false
}
