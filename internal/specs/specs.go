// Package specs converts equipment specification maps to and from the text
// stored in the equipment table.
package specs

import (
	"encoding/json"
	"strings"

	"github.com/UnknownOlympus/equipbot/internal/models"
)

// Encode serializes a specification map to its stored JSON text.
// Empty or nil maps, and maps holding values that cannot be represented as JSON,
// produce nil, meaning "nothing stored".
func Encode(spec models.Specifications) *string {
	if len(spec) == 0 {
		return nil
	}

	data, err := json.Marshal(map[string]any(spec))
	if err != nil {
		return nil
	}

	text := string(data)
	return &text
}

// Decode rebuilds a specification map from stored text.
// Absent, malformed or non-object text yields an empty map, never an error.
// Numbers are returned as float64.
func Decode(text *string) models.Specifications {
	if text == nil {
		return models.Specifications{}
	}

	spec, ok := decodeObject(*text)
	if !ok {
		return models.Specifications{}
	}
	return spec
}

// Parse interprets a caller-supplied payload, typically taken from a form field,
// as a JSON object. Anything else is treated as "no specifications" and yields nil.
// A valid empty object yields an empty, non-nil map.
func Parse(text string) models.Specifications {
	spec, ok := decodeObject(text)
	if !ok {
		return nil
	}
	return spec
}

// ParseRaw accepts either a JSON object or a JSON string containing JSON object text.
func ParseRaw(raw json.RawMessage) models.Specifications {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal([]byte(trimmed), &text); err != nil {
			return nil
		}
		return Parse(text)
	}

	return Parse(trimmed)
}

func decodeObject(text string) (models.Specifications, bool) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(text), &spec); err != nil || spec == nil {
		return nil, false
	}
	return spec, true
}
