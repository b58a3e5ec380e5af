// internal/pipeline/extract/schema.go
package extract

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// candidateSchema is the structural contract one product request must
// meet before it is trusted: all keys present, urgency from the closed
// set, tweet_ids an array of strings.
var candidateSchema = map[string]interface{}{
	"type": "object",
	"required": []interface{}{
		"category",
		"description",
		"pain_point",
		"target_audience",
		"urgency_level",
		"tweet_ids",
	},
	"properties": map[string]interface{}{
		"category":        map[string]interface{}{"type": "string"},
		"description":     map[string]interface{}{"type": "string"},
		"pain_point":      map[string]interface{}{"type": "string"},
		"target_audience": map[string]interface{}{"type": "string"},
		"urgency_level": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"High", "Medium", "Low"},
		},
		"tweet_ids": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
}

// validateCandidate checks one decoded product request against the schema.
func validateCandidate(candidate map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(candidateSchema)
	documentLoader := gojsonschema.NewGoLoader(candidate)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("candidate failed validation: %s", strings.Join(violations, "; "))
}
