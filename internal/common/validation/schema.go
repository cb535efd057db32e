// Package validation validates request payloads against JSON schemas and
// reports failures as per-field errors suitable for HTTP 400 bodies.
package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput validates input against a JSON schema with detailed errors.
func ValidateInput(input map[string]interface{}, schema map[string]interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, err
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{Valid: false, Errors: errs}, nil
}

// fieldName extracts a dotted field path from a schema result error.
// Required-property failures report the missing property itself rather
// than the parent object.
func fieldName(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if desc.Field() == "(root)" {
				return prop
			}
			return desc.Field() + "." + prop
		}
	}
	return desc.Field()
}
