package validation

import (
	"errors"
	"strings"
	"testing"
)

type staticSource map[string]map[string]any

func (s staticSource) Types() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	return out
}

func (s staticSource) JSONSchema(sectionType string) (map[string]any, error) {
	schema, ok := s[sectionType]
	if !ok {
		return nil, errors.New("unknown section type")
	}
	return schema, nil
}

func ctaSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"button_url": map[string]any{"type": "string"},
			"background_color": map[string]any{
				"type": "string",
				"enum": []any{"primary", "dark", "light", "white"},
			},
		},
		"additionalProperties": false,
	}
}

func TestSectionValidatorAcceptsConformingContent(t *testing.T) {
	v, err := NewSectionValidator(staticSource{"cta": ctaSchema()})
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	content := map[string]any{"button_url": "/contact", "background_color": "dark"}
	if err := v.Validate("cta", content); err != nil {
		t.Fatalf("expected content to validate, got %v", err)
	}
}

func TestSectionValidatorReportsIssues(t *testing.T) {
	v, err := NewSectionValidator(staticSource{"cta": ctaSchema()})
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	err = v.Validate("cta", map[string]any{"background_color": "neon", "stray": true})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if len(Issues(err)) == 0 {
		t.Fatalf("expected issues to be collected")
	}
	if !strings.HasPrefix(err.Error(), "cta: #") {
		t.Fatalf("expected section type prefix, got %q", err.Error())
	}
}

func TestValidatorIgnoresUnknownTypes(t *testing.T) {
	v := NewValidator()
	if err := v.Validate("retired_banner", map[string]any{"anything": 1}); err != nil {
		t.Fatalf("expected unknown type to pass, got %v", err)
	}
}

func TestRegisterRejectsBrokenSchema(t *testing.T) {
	_, err := NewSectionValidator(staticSource{"broken": {"type": 12}})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestIssuesWrapsPlainErrors(t *testing.T) {
	issues := Issues(errors.New("content must be an object"))
	if len(issues) != 1 || issues[0].Message != "content must be an object" {
		t.Fatalf("unexpected issues %+v", issues)
	}
}
