package sections

import "strings"

// FieldKind is the value shape a field accepts.
type FieldKind string

const (
	KindShortText FieldKind = "localized_short_text"
	KindLongText  FieldKind = "localized_long_text"
	KindHTML      FieldKind = "localized_html"
	KindURL       FieldKind = "plain_url"
	KindPlainText FieldKind = "plain_text"
	KindEnum      FieldKind = "enum"
	KindBoolean   FieldKind = "boolean"
	KindInteger   FieldKind = "integer"
	KindList      FieldKind = "list_of_item"
)

// Localized reports whether the kind stores an i18n.Text.
func (k FieldKind) Localized() bool {
	switch k {
	case KindShortText, KindLongText, KindHTML:
		return true
	}
	return false
}

// Field describes one entry of a section (or item) schema.
type Field struct {
	Name       string    `json:"name"`
	Kind       FieldKind `json:"kind"`
	Label      string    `json:"label"`
	Options    []string  `json:"options,omitempty"`
	Default    any       `json:"default,omitempty"`
	Min        *int      `json:"min,omitempty"`
	Max        *int      `json:"max,omitempty"`
	ItemFields []Field   `json:"item_fields,omitempty"`
}

// ItemField looks up a sub-field of a list field.
func (f Field) ItemField(name string) (Field, bool) {
	for _, sub := range f.ItemFields {
		if sub.Name == name {
			return sub, true
		}
	}
	return Field{}, false
}

// DefaultEnum returns the declared default or the first option.
func (f Field) DefaultEnum() string {
	if value, ok := f.Default.(string); ok && value != "" {
		return value
	}
	if len(f.Options) > 0 {
		return f.Options[0]
	}
	return ""
}

// DefaultInt returns the declared integer default.
func (f Field) DefaultInt() int {
	switch v := f.Default.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	if f.Min != nil {
		return *f.Min
	}
	return 0
}

func (f Field) allows(option string) bool {
	for _, candidate := range f.Options {
		if candidate == option {
			return true
		}
	}
	return false
}

// Descriptor is the static schema of a section type.
type Descriptor struct {
	Type     string  `json:"type"`
	Label    string  `json:"label"`
	Fields   []Field `json:"fields"`
	Carousel bool    `json:"carousel,omitempty"`
}

func (d Descriptor) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (d Descriptor) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		names = append(names, field.Name)
	}
	return names
}

func (d Descriptor) clone() Descriptor {
	out := d
	out.Fields = cloneFields(d.Fields)
	return out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field
		if field.Options != nil {
			out[i].Options = append([]string(nil), field.Options...)
		}
		out[i].ItemFields = cloneFields(field.ItemFields)
	}
	return out
}

func normalizeType(sectionType string) string {
	return strings.ToLower(strings.TrimSpace(sectionType))
}
