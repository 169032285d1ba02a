// internal/inference/validation.go
package inference

import (
	"fmt"
	"sort"

	"clustering-service/internal/artifact"
	"clustering-service/internal/common/errors"
	"clustering-service/internal/common/validation"
)

// RecordSchema builds the JSON schema for a prediction record: every feature
// required and numeric, ratio features bounded to the closed interval [0, 1],
// and no extra keys allowed.
func RecordSchema(schema artifact.FeatureSchema) validation.JSONSchema {
	props := make(map[string]validation.Property, schema.Count())
	for _, name := range schema.Names {
		prop := validation.Property{Type: "number"}
		if schema.IsRatio(name) {
			prop.Minimum = floatPtr(0)
			prop.Maximum = floatPtr(1)
		}
		props[name] = prop
	}

	return validation.JSONSchema{
		Type:                 "object",
		Required:             append([]string(nil), schema.Names...),
		Properties:           props,
		AdditionalProperties: false,
	}
}

// RecordValidator checks records against the feature schema and converts them
// to vectors in schema order. The compiled record schema is built once.
type RecordValidator struct {
	schema       artifact.FeatureSchema
	recordSchema validation.JSONSchema
}

func NewRecordValidator(schema artifact.FeatureSchema) *RecordValidator {
	return &RecordValidator{
		schema:       schema,
		recordSchema: RecordSchema(schema),
	}
}

// Validate returns the record as a []float64 in schema order, or the typed
// error describing the first failure. Out-of-range ratio values are rejected,
// never clamped.
func (v *RecordValidator) Validate(record RawRecord) ([]float64, error) {
	result := validation.ValidateInput(record, v.recordSchema)
	if !result.Valid {
		return nil, v.classify(record, result)
	}

	vector := make([]float64, 0, v.schema.Count())
	for _, name := range v.schema.Names {
		value, _ := validation.NumericValue(record[name])
		vector = append(vector, value)
	}
	return vector, nil
}

// classify turns the raw validation errors into one StandardError. Key-level
// problems dominate value-level ones: a record with wrong keys is reported as
// a schema mismatch even when its values are also broken. Within a class, the
// first offending feature in schema order wins.
func (v *RecordValidator) classify(record RawRecord, result *validation.ValidationResult) *errors.StandardError {
	var missing, extra []string
	for _, verr := range result.Errors {
		switch verr.Code {
		case "REQUIRED_FIELD_MISSING":
			missing = append(missing, verr.Field)
		case "EXTRA_FIELD":
			extra = append(extra, verr.Field)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		// Extra fields surface in map iteration order; sort for stable output.
		sort.Strings(extra)
		return errors.NewSchemaMismatchError(missing, extra)
	}

	for _, name := range v.schema.Names {
		for _, verr := range result.GetErrorsForField(name) {
			if verr.Code == "INVALID_TYPE" {
				return errors.NewTypeError(name, record[name])
			}
		}
	}

	for _, name := range v.schema.Names {
		for _, verr := range result.GetErrorsForField(name) {
			if verr.Code == "MINIMUM_VIOLATION" || verr.Code == "MAXIMUM_VIOLATION" {
				value, _ := validation.NumericValue(record[name])
				min, max := 0.0, 1.0
				if prop, ok := v.recordSchema.Properties[name]; ok {
					if prop.Minimum != nil {
						min = *prop.Minimum
					}
					if prop.Maximum != nil {
						max = *prop.Maximum
					}
				}
				return errors.NewRangeError(name, value, min, max)
			}
		}
	}

	return errors.NewInternalError(fmt.Errorf(
		"unclassified validation failure: %v", result.GetErrorMessages()))
}

func floatPtr(f float64) *float64 {
	return &f
}
