package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON locates and decodes the JSON object inside raw model text.
// Models wrap output in markdown fences or surround it with prose despite
// instructions; extraction peels those layers before validation. The result
// is deterministic for a given input.
func ExtractJSON(raw string) (map[string]any, error) {
	text := stripFences(raw)
	text = strings.TrimSpace(text)

	// Direct parse first
	if obj, ok := tryParse(text); ok {
		return obj, nil
	}

	// Fall back to the outermost balanced object
	if candidate := outermostObject(text); candidate != "" {
		if obj, ok := tryParse(candidate); ok {
			return obj, nil
		}
	}

	snippet := text
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return nil, fmt.Errorf("no JSON object found in model output: %q", snippet)
}

// stripFences removes a markdown code fence around the payload, preferring a
// ```json fence when present.
func stripFences(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	if strings.Contains(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) >= 2 {
			return parts[1]
		}
	}
	return text
}

func tryParse(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// outermostObject returns the substring spanning the first balanced
// brace-delimited object, honoring strings and escapes.
func outermostObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
