package sections

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/goliatone/go-sitecms/internal/i18n"
)

// Content maps field names to values. Values are i18n.Text, string, bool,
// int or []Item once decoded; anything else is treated as absent by readers.
type Content map[string]any

// Clone copies the map and every list or localized value it holds.
func (c Content) Clone() Content {
	if c == nil {
		return Content{}
	}
	out := make(Content, len(c))
	for key, value := range c {
		out[key] = cloneValue(value)
	}
	return out
}

// Text returns the localized value of field, if it holds one.
func (c Content) Text(field string) (i18n.Text, bool) {
	return AsText(c[field])
}

// String returns the plain string value of field.
func (c Content) String(field string) string {
	value, _ := c[field].(string)
	return value
}

// Items returns the list stored under field.
func (c Content) Items(field string) []Item {
	return AsItems(c[field])
}

// UnmarshalJSON decodes values heuristically: objects of strings become
// i18n.Text, arrays of objects become []Item, integral numbers become int.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Content, len(raw))
	for key, value := range raw {
		decoded, ok := decodeValue(value)
		if !ok {
			continue
		}
		out[key] = decoded
	}
	*c = out
	return nil
}

// Item is one element of a list field. Fields never contains id or order.
type Item struct {
	ID     string
	Order  int
	Fields map[string]any
}

func (i Item) Text(field string) (i18n.Text, bool) {
	return AsText(i.Fields[field])
}

func (i Item) String(field string) string {
	value, _ := i.Fields[field].(string)
	return value
}

func (i Item) Clone() Item {
	out := Item{ID: i.ID, Order: i.Order, Fields: make(map[string]any, len(i.Fields))}
	for key, value := range i.Fields {
		out.Fields[key] = cloneValue(value)
	}
	return out
}

// MarshalJSON flattens the item: id, order, then fields in name order.
func (i Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	id, err := json.Marshal(i.ID)
	if err != nil {
		return nil, err
	}
	buf.Write(id)
	buf.WriteString(`,"order":`)
	order, _ := json.Marshal(i.Order)
	buf.Write(order)

	keys := make([]string, 0, len(i.Fields))
	for key := range i.Fields {
		if key == "id" || key == "order" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		encodedKey, _ := json.Marshal(key)
		value, err := json.Marshal(i.Fields[key])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (i *Item) UnmarshalJSON(data []byte) error {
	item, _, err := decodeItem(data)
	if err != nil {
		return err
	}
	*i = item
	return nil
}

// decodeItem reports whether the object carried a usable integer "order".
func decodeItem(data []byte) (Item, bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Item{}, false, err
	}
	out := Item{Fields: map[string]any{}}
	hasOrder := false
	for key, value := range raw {
		switch key {
		case "id":
			var id any
			if err := json.Unmarshal(value, &id); err == nil {
				switch typed := id.(type) {
				case string:
					out.ID = typed
				case float64:
					out.ID = string(bytes.TrimSpace(value))
				}
			}
		case "order":
			if decoded, ok := decodeValue(value); ok {
				if n, ok := decoded.(int); ok {
					out.Order = n
					hasOrder = true
				}
			}
		default:
			if decoded, ok := decodeValue(value); ok {
				out.Fields[key] = decoded
			}
		}
	}
	return out, hasOrder, nil
}

// AsText converts a raw content value to i18n.Text. Bare strings are read as
// English, maps of strings keep a stable language order.
func AsText(value any) (i18n.Text, bool) {
	switch typed := value.(type) {
	case i18n.Text:
		return typed, true
	case *i18n.Text:
		if typed == nil {
			return i18n.Text{}, false
		}
		return *typed, true
	case string:
		return i18n.NewText(i18n.LangEN, typed), true
	case map[string]string:
		return textFromMap(typed), true
	case map[string]any:
		values := make(map[string]string, len(typed))
		for k, v := range typed {
			if str, ok := v.(string); ok {
				values[k] = str
			}
		}
		return textFromMap(values), true
	}
	return i18n.Text{}, false
}

// textFromMap orders known languages first, then the rest alphabetically.
func textFromMap(input map[string]string) i18n.Text {
	values := make(map[string]string, len(input))
	for k, v := range input {
		values[strings.ToLower(strings.TrimSpace(k))] = v
	}
	var out i18n.Text
	for _, lang := range i18n.Languages {
		if value, ok := values[lang]; ok {
			out.Set(lang, value)
			delete(values, lang)
		}
	}
	rest := make([]string, 0, len(values))
	for lang := range values {
		rest = append(rest, lang)
	}
	sort.Strings(rest)
	for _, lang := range rest {
		out.Set(lang, values[lang])
	}
	return out
}

// AsItems converts a raw content value to a list of items sorted by order.
func AsItems(value any) []Item {
	var items []Item
	switch typed := value.(type) {
	case []Item:
		items = make([]Item, len(typed))
		copy(items, typed)
	case []any:
		for idx, entry := range typed {
			switch v := entry.(type) {
			case Item:
				items = append(items, v)
			case map[string]any:
				item := Item{Order: idx, Fields: map[string]any{}}
				for key, field := range v {
					switch key {
					case "id":
						item.ID, _ = field.(string)
					case "order":
						if n, ok := asInt(field); ok {
							item.Order = n
						}
					default:
						item.Fields[key] = field
					}
				}
				items = append(items, item)
			}
		}
	default:
		return nil
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].Order < items[b].Order })
	return items
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

func decodeValue(raw json.RawMessage) (any, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}
	switch trimmed[0] {
	case '{':
		var text i18n.Text
		if err := json.Unmarshal(trimmed, &text); err == nil {
			return text, true
		}
		var generic map[string]any
		if err := json.Unmarshal(trimmed, &generic); err == nil {
			return generic, true
		}
		return nil, false
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, false
		}
		items := make([]Item, 0, len(elems))
		for idx, elem := range elems {
			item, hasOrder, err := decodeItem(elem)
			if err != nil {
				continue
			}
			if !hasOrder {
				item.Order = idx
			}
			items = append(items, item)
		}
		return items, true
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, false
		}
		return s, true
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, false
		}
		return b, true
	default:
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return nil, false
		}
		if v, err := n.Int64(); err == nil {
			return int(v), true
		}
		if f, err := n.Float64(); err == nil {
			return f, true
		}
		return nil, false
	}
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case i18n.Text:
		return typed.Clone()
	case []Item:
		out := make([]Item, len(typed))
		for i, item := range typed {
			out[i] = item.Clone()
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = cloneValue(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = cloneValue(v)
		}
		return out
	}
	return value
}
