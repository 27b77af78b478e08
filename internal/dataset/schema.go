// internal/dataset/schema.go
package dataset

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema only pins down the envelope and the type of run_id. Other
// run fields stay permissive because the record decoder degrades wrong-typed
// fields to unavailable.
var payloadSchema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"required": []any{
		"runs",
	},
	"properties": map[string]any{
		"generated_at": map[string]any{"type": []any{"string", "null"}},
		"output_root":  map[string]any{"type": []any{"string", "null"}},
		"runs": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"run_id": map[string]any{"type": "string"},
				},
			},
		},
		"summary": map[string]any{"type": []any{"object", "null"}},
	},
}

// ValidationError lists every schema violation of a dataset payload.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset failed validation: %s", strings.Join(e.Violations, "; "))
}

// Validate checks a JSON payload against the dataset schema.
func Validate(payload []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(payloadSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &ValidationError{Violations: violations}
}
