package sections

const schemaDraft = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema describes the persisted content of sectionType. Fields are
// optional; unknown keys are rejected.
func (r *Registry) JSONSchema(sectionType string) (map[string]any, error) {
	desc, err := r.Describe(sectionType)
	if err != nil {
		return nil, err
	}
	schema := objectSchema(desc.Fields, false)
	schema["$schema"] = schemaDraft
	schema["title"] = desc.Label
	return schema, nil
}

func objectSchema(fields []Field, item bool) map[string]any {
	properties := make(map[string]any, len(fields)+2)
	if item {
		properties["id"] = map[string]any{"type": "string"}
		properties["order"] = map[string]any{"type": "integer", "minimum": 0}
	}
	for _, field := range fields {
		properties[field.Name] = fieldSchema(field)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

func fieldSchema(field Field) map[string]any {
	switch field.Kind {
	case KindShortText, KindLongText, KindHTML:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "string"},
			"propertyNames":        map[string]any{"pattern": "^[a-z]{2,3}([-_][a-zA-Z0-9]{2,8})*$"},
		}
	case KindURL:
		return map[string]any{"type": "string", "maxLength": 2048}
	case KindPlainText:
		return map[string]any{"type": "string"}
	case KindEnum:
		options := make([]any, 0, len(field.Options))
		for _, option := range field.Options {
			options = append(options, option)
		}
		return map[string]any{"type": "string", "enum": options}
	case KindBoolean:
		return map[string]any{"type": "boolean"}
	case KindInteger:
		schema := map[string]any{"type": "integer"}
		if field.Min != nil {
			schema["minimum"] = *field.Min
		}
		if field.Max != nil {
			schema["maximum"] = *field.Max
		}
		return schema
	case KindList:
		return map[string]any{
			"type":  "array",
			"items": objectSchema(field.ItemFields, true),
		}
	}
	return map[string]any{}
}
