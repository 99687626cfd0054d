package sections

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-sitecms/internal/i18n"
)

// Registry is the immutable catalog of section types.
type Registry struct {
	order  []string
	byType map[string]Descriptor
}

// NewRegistry validates and indexes descriptors. The content type acts as the
// fallback for unknown types; when absent the first descriptor is used.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("sections: registry requires at least one descriptor")
	}
	reg := &Registry{byType: make(map[string]Descriptor, len(descriptors))}
	for _, desc := range descriptors {
		key := normalizeType(desc.Type)
		if key == "" {
			return nil, fmt.Errorf("sections: descriptor type cannot be empty")
		}
		if _, exists := reg.byType[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, key)
		}
		if err := checkFields(key, desc.Fields, false); err != nil {
			return nil, err
		}
		copied := desc.clone()
		copied.Type = key
		reg.byType[key] = copied
		reg.order = append(reg.order, key)
	}
	return reg, nil
}

func checkFields(sectionType string, fields []Field, nested bool) error {
	seen := map[string]struct{}{}
	for _, field := range fields {
		if field.Name == "" {
			return fmt.Errorf("sections: %s has a field without name", sectionType)
		}
		if field.Name == "id" || field.Name == "order" {
			return fmt.Errorf("sections: %s.%s is reserved", sectionType, field.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("sections: %s.%s declared twice", sectionType, field.Name)
		}
		seen[field.Name] = struct{}{}
		switch field.Kind {
		case KindEnum:
			if len(field.Options) == 0 {
				return fmt.Errorf("sections: %s.%s enum has no options", sectionType, field.Name)
			}
		case KindList:
			if nested {
				return fmt.Errorf("sections: %s.%s lists cannot nest", sectionType, field.Name)
			}
			if err := checkFields(sectionType+"."+field.Name, field.ItemFields, true); err != nil {
				return err
			}
		case KindShortText, KindLongText, KindHTML, KindURL, KindPlainText, KindBoolean, KindInteger:
		default:
			return fmt.Errorf("sections: %s.%s has unknown kind %q", sectionType, field.Name, field.Kind)
		}
	}
	return nil
}

// MustNewRegistry panics on invalid descriptors.
func MustNewRegistry(descriptors ...Descriptor) *Registry {
	reg, err := NewRegistry(descriptors...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Default returns a registry over the built-in catalog.
func Default() *Registry {
	return MustNewRegistry(Builtin()...)
}

// Describe returns the descriptor for sectionType or ErrUnknownSectionType.
func (r *Registry) Describe(sectionType string) (Descriptor, error) {
	desc, ok := r.byType[normalizeType(sectionType)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownSectionType, sectionType)
	}
	return desc.clone(), nil
}

// Known reports whether sectionType is registered.
func (r *Registry) Known(sectionType string) bool {
	_, ok := r.byType[normalizeType(sectionType)]
	return ok
}

// Resolve never fails: unknown types map to the generic content descriptor.
func (r *Registry) Resolve(sectionType string) Descriptor {
	if desc, ok := r.byType[normalizeType(sectionType)]; ok {
		return desc.clone()
	}
	return r.fallback()
}

func (r *Registry) fallback() Descriptor {
	if desc, ok := r.byType[TypeContent]; ok {
		return desc.clone()
	}
	return r.byType[r.order[0]].clone()
}

// Types lists registered types in catalog order.
func (r *Registry) Types() []string {
	return append([]string(nil), r.order...)
}

// Descriptors lists every descriptor in catalog order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byType[key].clone())
	}
	return out
}

// DefaultContent builds a valid value for every field of sectionType.
func (r *Registry) DefaultContent(sectionType string) (Content, error) {
	desc, err := r.Describe(sectionType)
	if err != nil {
		return nil, err
	}
	return defaultsFor(desc.Fields), nil
}

func defaultsFor(fields []Field) Content {
	out := make(Content, len(fields))
	for _, field := range fields {
		out[field.Name] = defaultValue(field)
	}
	return out
}

func defaultValue(field Field) any {
	switch field.Kind {
	case KindShortText, KindLongText, KindHTML:
		return i18n.EmptyText()
	case KindURL, KindPlainText:
		if value, ok := field.Default.(string); ok {
			return value
		}
		return ""
	case KindEnum:
		return field.DefaultEnum()
	case KindBoolean:
		value, _ := field.Default.(bool)
		return value
	case KindInteger:
		return field.DefaultInt()
	case KindList:
		return []Item{}
	}
	return nil
}

// NewSection creates a visible section of sectionType with default content.
func (r *Registry) NewSection(sectionType string, order int) (Section, error) {
	content, err := r.DefaultContent(sectionType)
	if err != nil {
		return Section{}, err
	}
	return Section{
		ID:      NewID(),
		Type:    normalizeType(sectionType),
		Order:   order,
		Visible: true,
		Content: content,
	}, nil
}

// NewItem builds a default item for the list field of sectionType.
func (r *Registry) NewItem(sectionType, field string, order int) (Item, error) {
	listField, err := r.listField(sectionType, field)
	if err != nil {
		return Item{}, err
	}
	return Item{ID: NewID(), Order: order, Fields: map[string]any(defaultsFor(listField.ItemFields))}, nil
}

func (r *Registry) listField(sectionType, field string) (Field, error) {
	desc, err := r.Describe(sectionType)
	if err != nil {
		return Field{}, err
	}
	def, ok := desc.Field(field)
	if !ok {
		return Field{}, &FieldError{Type: desc.Type, Field: field, Reason: "not declared", Err: ErrUnknownField}
	}
	if def.Kind != KindList {
		return Field{}, invalid(desc.Type, field, "not a list field")
	}
	return def, nil
}

// ItemField returns the descriptor of one item sub-field.
func (r *Registry) ItemField(sectionType, field, sub string) (Field, error) {
	listField, err := r.listField(sectionType, field)
	if err != nil {
		return Field{}, err
	}
	def, ok := listField.ItemField(sub)
	if !ok {
		return Field{}, &FieldError{Type: normalizeType(sectionType), Field: field + "." + sub, Reason: "not declared", Err: ErrUnknownField}
	}
	return def, nil
}

// ValidateField checks value against the declared shape and returns the
// normalized value to store.
func (r *Registry) ValidateField(sectionType, field string, value any) (any, error) {
	desc, err := r.Describe(sectionType)
	if err != nil {
		return nil, err
	}
	def, ok := desc.Field(field)
	if !ok {
		return nil, &FieldError{Type: desc.Type, Field: field, Reason: "not declared", Err: ErrUnknownField}
	}
	return coerce(desc.Type, def, value)
}

// ValidateItemField checks one item sub-field value.
func (r *Registry) ValidateItemField(sectionType, field, sub string, value any) (any, error) {
	def, err := r.ItemField(sectionType, field, sub)
	if err != nil {
		return nil, err
	}
	return coerce(normalizeType(sectionType), def, value)
}

// ValidateContent checks every key of content. Keys outside the descriptor
// are rejected.
func (r *Registry) ValidateContent(sectionType string, content Content) (Content, error) {
	desc, err := r.Describe(sectionType)
	if err != nil {
		return nil, err
	}
	out := make(Content, len(content))
	for key, value := range content {
		def, ok := desc.Field(key)
		if !ok {
			return nil, &FieldError{Type: desc.Type, Field: key, Reason: "not declared", Err: ErrUnknownField}
		}
		normalized, err := coerce(desc.Type, def, value)
		if err != nil {
			return nil, err
		}
		out[key] = normalized
	}
	return out, nil
}

// Rebuild converts content of type from into content of type to: defaults of
// the new type, overlaid with every shared field whose value fits the new
// declaration. Unknown from types are read with the generic field list.
func (r *Registry) Rebuild(content Content, from, to string) (Content, error) {
	target, err := r.Describe(to)
	if err != nil {
		return nil, err
	}
	source := r.Resolve(from)
	out := defaultsFor(target.Fields)
	for _, field := range target.Fields {
		if _, shared := source.Field(field.Name); !shared {
			continue
		}
		value, present := content[field.Name]
		if !present || value == nil {
			continue
		}
		if field.Kind == KindList {
			out[field.Name] = carryItems(field, AsItems(value))
			continue
		}
		if normalized, err := coerce(target.Type, field, value); err == nil {
			out[field.Name] = normalized
		}
	}
	return out, nil
}

func carryItems(field Field, items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		rebuilt := Item{ID: item.ID, Order: item.Order, Fields: map[string]any(defaultsFor(field.ItemFields))}
		for _, sub := range field.ItemFields {
			if value, ok := item.Fields[sub.Name]; ok {
				if normalized, err := coerce("", sub, value); err == nil {
					rebuilt.Fields[sub.Name] = normalized
				}
			}
		}
		out = append(out, rebuilt)
	}
	return RenumberItems(out)
}

func coerce(sectionType string, field Field, value any) (any, error) {
	switch field.Kind {
	case KindShortText, KindLongText, KindHTML:
		switch value.(type) {
		case i18n.Text, *i18n.Text, map[string]string:
			text, _ := AsText(value)
			return text, nil
		case map[string]any:
			for lang, v := range value.(map[string]any) {
				if _, ok := v.(string); !ok {
					return nil, invalid(sectionType, field.Name, fmt.Sprintf("language %q is not a string", lang))
				}
			}
			text, _ := AsText(value)
			return text, nil
		}
		return nil, invalid(sectionType, field.Name, "expected localized text")
	case KindURL:
		s, ok := value.(string)
		if !ok {
			return nil, invalid(sectionType, field.Name, "expected string")
		}
		s = strings.TrimSpace(s)
		if err := checkURL(s); err != nil {
			return nil, invalid(sectionType, field.Name, err.Error())
		}
		return s, nil
	case KindPlainText:
		s, ok := value.(string)
		if !ok {
			return nil, invalid(sectionType, field.Name, "expected string")
		}
		return s, nil
	case KindEnum:
		s, ok := value.(string)
		if !ok || !field.allows(s) {
			return nil, invalid(sectionType, field.Name, fmt.Sprintf("expected one of %s", strings.Join(field.Options, ", ")))
		}
		return s, nil
	case KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, invalid(sectionType, field.Name, "expected boolean")
		}
		return b, nil
	case KindInteger:
		n, ok := asInt(value)
		if !ok {
			if _, isFloat := value.(float64); isFloat {
				return nil, invalid(sectionType, field.Name, "expected whole number")
			}
			return nil, invalid(sectionType, field.Name, "expected integer")
		}
		if field.Min != nil && n < *field.Min {
			return nil, invalid(sectionType, field.Name, fmt.Sprintf("must be at least %d", *field.Min))
		}
		if field.Max != nil && n > *field.Max {
			return nil, invalid(sectionType, field.Name, fmt.Sprintf("must be at most %d", *field.Max))
		}
		return n, nil
	case KindList:
		var items []Item
		switch value.(type) {
		case []Item, []any:
			items = AsItems(value)
		default:
			return nil, invalid(sectionType, field.Name, "expected list of items")
		}
		out := make([]Item, 0, len(items))
		for _, item := range items {
			normalized := Item{ID: item.ID, Order: item.Order, Fields: map[string]any{}}
			for key, sub := range item.Fields {
				def, ok := field.ItemField(key)
				if !ok {
					return nil, &FieldError{Type: sectionType, Field: field.Name + "." + key, Reason: "not declared", Err: ErrUnknownField}
				}
				v, err := coerce(sectionType, def, sub)
				if err != nil {
					return nil, err
				}
				normalized.Fields[key] = v
			}
			out = append(out, normalized)
		}
		return RenumberItems(out), nil
	}
	return nil, invalid(sectionType, field.Name, "unsupported kind")
}

func checkURL(value string) error {
	if strings.ContainsAny(value, " \t\r\n") {
		return fmt.Errorf("url must not contain whitespace")
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "vbscript:") {
		return fmt.Errorf("url scheme is not allowed")
	}
	return nil
}
