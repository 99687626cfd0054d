// Package validation checks section content against the JSON schemas the
// section registry publishes.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue is one failing location inside a section's content.
type ValidationIssue struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

// ContentError lists the issues found in the content of one section type.
type ContentError struct {
	SectionType string
	Issues      []ValidationIssue
	Cause       error
}

func (e *ContentError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := "#" + strings.TrimPrefix(strings.TrimSpace(issue.Location), "#")
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, location+": "+issue.Message)
	}
	if len(parts) == 0 {
		parts = append(parts, ErrSchemaValidation.Error())
	}
	return e.SectionType + ": " + strings.Join(parts, "; ")
}

func (e *ContentError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from err. Errors that carry none become
// a single issue holding their message.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var contentErr *ContentError
	if errors.As(err, &contentErr) {
		return contentErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) {
		return leafIssues(schemaErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// SchemaSource publishes one JSON schema per section type.
type SchemaSource interface {
	Types() []string
	JSONSchema(sectionType string) (map[string]any, error)
}

// Validator holds compiled content schemas keyed by section type. Content of
// a type with no schema passes, so sections of retired types still load.
type Validator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{compiled: map[string]*jsonschema.Schema{}}
}

// NewSectionValidator compiles the schema of every type source lists.
func NewSectionValidator(source SchemaSource) (*Validator, error) {
	v := NewValidator()
	for _, sectionType := range source.Types() {
		schema, err := source.JSONSchema(sectionType)
		if err != nil {
			return nil, err
		}
		if err := v.Register(sectionType, schema); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Register compiles schema for sectionType, replacing any previous entry.
func (v *Validator) Register(sectionType string, schema map[string]any) error {
	compiled, err := compile(schema)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, sectionType, err)
	}
	v.mu.Lock()
	v.compiled[sectionType] = compiled
	v.mu.Unlock()
	return nil
}

// Validate checks content, encoded the way it is persisted, against the
// schema of sectionType.
func (v *Validator) Validate(sectionType string, content any) error {
	if v == nil {
		return nil
	}
	v.mu.RLock()
	compiled, ok := v.compiled[sectionType]
	v.mu.RUnlock()
	if !ok {
		return nil
	}
	doc, err := asJSON(content)
	if err != nil {
		return &ContentError{SectionType: sectionType, Issues: []ValidationIssue{{Message: err.Error()}}, Cause: err}
	}
	if err := compiled.Validate(doc); err != nil {
		return &ContentError{SectionType: sectionType, Issues: Issues(err), Cause: err}
	}
	return nil
}

func asJSON(value any) (any, error) {
	if value == nil {
		return map[string]any{}, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func compile(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("section.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("section.json")
}

func leafIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if len(err.Causes) == 0 {
		return []ValidationIssue{{
			Location: strings.TrimSpace(err.InstanceLocation),
			Message:  strings.TrimSpace(err.Message),
		}}
	}
	var out []ValidationIssue
	for _, cause := range err.Causes {
		out = append(out, leafIssues(cause)...)
	}
	return out
}
