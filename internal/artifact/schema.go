// internal/artifact/schema.go
package artifact

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"clustering-service/internal/common/errors"
)

// JSON Schemas for the artifact documents. Decoding alone would zero-fill
// missing fields; schema validation catches truncated or hand-edited exports
// before they reach the consistency checks.

const scalerParamsSchemaJSON = `{
	"type": "object",
	"required": ["mean", "scale"],
	"properties": {
		"mean":          {"type": "array", "items": {"type": "number"}, "minItems": 1},
		"scale":         {"type": "array", "items": {"type": "number"}, "minItems": 1},
		"var":           {"type": "array", "items": {"type": "number"}},
		"n_features_in": {"type": "integer", "minimum": 1},
		"feature_names": {"type": "array", "items": {"type": "string"}}
	}
}`

const centroidsSchemaJSON = `{
	"type": "object",
	"required": ["n_clusters", "centroids"],
	"properties": {
		"n_clusters": {"type": "integer", "minimum": 1},
		"centroids": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "array", "items": {"type": "number"}, "minItems": 1}
		},
		"inertia": {"type": "number"},
		"n_iter":  {"type": "integer", "minimum": 0}
	}
}`

func validateDocument(fileName string, data []byte, schemaJSON string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewArtifactLoadError(fmt.Sprintf("validate %s: %v", fileName, err))
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return errors.NewArtifactLoadError(fmt.Sprintf(
			"%s failed schema validation: %s", fileName, strings.Join(details, "; ")))
	}

	return nil
}
