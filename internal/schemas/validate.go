// Package schemas validates emitted documents against their JSON Schemas.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a JSON field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError means the schema itself (or the document) could not be parsed.
type SchemaLoadError struct {
	Name  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Compile parses schema content once so it can validate many documents.
func Compile(name, schemaContent string) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	return schema, nil
}

// ValidateJSONString validates JSON content against schema content.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := Compile("(string schema)", schemaContent)
	if err != nil {
		return err
	}
	return validateWith(schema, "(string schema)", []byte(jsonContent))
}

func validateWith(schema *gojsonschema.Schema, name string, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &SchemaLoadError{Name: name, Cause: fmt.Errorf("document could not be read: %w", err)}
	}
	if result.Valid() {
		return nil
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) *ValidationError {
	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
