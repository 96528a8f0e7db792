package suggestions

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"resume-builder/internal/llm"
)

const responseSchema = `{
  "type": "object",
  "required": ["suggestions"],
  "properties": {
    "suggestions": {
      "type": "array",
      "minItems": 3,
      "maxItems": 3,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
})

// parseResponse validates raw model output and returns the suggestions.
// A bare JSON array is accepted in place of the wrapping object.
func parseResponse(raw string) ([]string, error) {
	raw = llm.CleanJSON(raw)
	if strings.HasPrefix(raw, "[") {
		raw = `{"suggestions":` + raw + `}`
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("load suggestions schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(msgs, "; "))
	}

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	for i, s := range out.Suggestions {
		out.Suggestions[i] = strings.TrimSpace(s)
	}
	return out.Suggestions, nil
}
