package ranking

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Strict schemas for the two LLM response shapes. additionalProperties is
// closed so a model that wraps or decorates the payload fails validation and
// the deterministic path takes over.
const keptSchemaJSON = `{
	"type": "object",
	"properties": {
		"kept": {
			"type": "array",
			"items": {"type": ["string", "number"]}
		}
	},
	"required": ["kept"],
	"additionalProperties": false
}`

const rankedSchemaJSON = `{
	"type": "object",
	"properties": {
		"ranked": {
			"type": "array",
			"items": {"type": ["string", "number"]}
		},
		"rationale": {"type": "string"}
	},
	"required": ["ranked"],
	"additionalProperties": false
}`

var (
	keptSchema   = gojsonschema.NewStringLoader(keptSchemaJSON)
	rankedSchema = gojsonschema.NewStringLoader(rankedSchemaJSON)
)

type keptResponse struct {
	Kept []interface{} `json:"kept"`
}

type rankedResponse struct {
	Ranked    []interface{} `json:"ranked"`
	Rationale string        `json:"rationale"`
}

// extractJSONObject returns the outermost {...} span of the text, tolerating
// prose or code fences around the payload
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// parseKept extracts and validates a cuisine-filter response
func parseKept(text string) (*keptResponse, error) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	result, err := gojsonschema.Validate(keptSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("response does not match kept schema: %v", result.Errors())
	}

	var parsed keptResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal kept response: %w", err)
	}
	return &parsed, nil
}

// parseRanked extracts and validates a reorder response
func parseRanked(text string) (*rankedResponse, error) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	result, err := gojsonschema.Validate(rankedSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("response does not match ranked schema: %v", result.Errors())
	}

	var parsed rankedResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal ranked response: %w", err)
	}
	return &parsed, nil
}
