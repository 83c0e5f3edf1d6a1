package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// ValidationErrors collects every violation found in one document.
type ValidationErrors []error

// Error joins the individual messages.
func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema. It is immutable and safe for concurrent
// use, so one Schema can back a behavior shared by many requests.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles schema source.
func Compile(source string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// Validate checks doc against the schema. It returns nil when doc conforms,
// ValidationErrors when it does not, and a plain error when doc is not JSON.
func (s *Schema) Validate(doc []byte) error {
	var data interface{}
	if err := json.Unmarshal(doc, &data); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err := s.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractValidationErrors(validationErr)
	}
	return ValidationErrors{err}
}

// Validate compiles schemaSrc and validates doc against it in one step.
func Validate(doc []byte, schemaSrc string) error {
	schema, err := Compile(schemaSrc)
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

// extractValidationErrors flattens the cause tree into leaf messages.
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if len(err.Causes) == 0 && err.Message != "" {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		errs = append(errs, fmt.Errorf("validation error at %s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, extractValidationErrors(cause)...)
	}
	if len(errs) == 0 {
		errs = append(errs, err)
	}
	return errs
}
