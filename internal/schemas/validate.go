// Package schemas provides JSON Schema validation of incoming documents.
package schemas

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-assistant/internal/types"
)

//go:embed resume.schema.json
var resumeSchema string

var (
	resumeOnce   sync.Once
	resumeLoaded *gojsonschema.Schema
	resumeErr    error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{Path: "(string schema)", Message: "invalid schema", Cause: err}
	}
	return validate(schema, jsonContent)
}

// ValidateResume checks a raw resume document against the embedded resume
// schema. Violations are returned as a *types.ValidationError so callers
// classify them like any other malformed request.
func ValidateResume(data []byte) error {
	resumeOnce.Do(func() {
		resumeLoaded, resumeErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchema))
	})
	if resumeErr != nil {
		return &SchemaLoadError{Path: "resume.schema.json", Message: "invalid schema", Cause: resumeErr}
	}

	err := validate(resumeLoaded, string(data))
	if err == nil {
		return nil
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		return &types.ValidationError{
			Fields: []types.FieldError{{Field: "(root)", Message: "must be a JSON object"}},
			Cause:  err,
		}
	}
	out := &types.ValidationError{Cause: verr, Fields: make([]types.FieldError, 0, len(verr.Errors))}
	for _, fe := range verr.Errors {
		out.Fields = append(out.Fields, types.FieldError{Field: fe.Field, Message: fe.Message})
	}
	return out
}

// DecodeResume validates a raw resume document and decodes it. Empty input and
// JSON null are rejected.
func DecodeResume(data []byte) (*types.ResumeRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, types.NewValidationError("resume", "is required")
	}
	if err := ValidateResume(trimmed); err != nil {
		return nil, err
	}
	var rec types.ResumeRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, &types.ValidationError{
			Fields: []types.FieldError{{Field: "resume", Message: "invalid JSON: " + err.Error()}},
			Cause:  err,
		}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

func validate(schema *gojsonschema.Schema, jsonContent string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
