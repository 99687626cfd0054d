package i18n

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Supported language codes.
const (
	LangEN = "en"
	LangHR = "hr"
	LangDE = "de"
	LangSL = "sl"
)

// Languages lists the site languages in their canonical order.
var Languages = []string{LangEN, LangHR, LangDE, LangSL}

type entry struct {
	lang  string
	value string
}

// Text is a localized string keyed by language code. The order in which
// languages were added (or decoded) is preserved because resolution falls
// back to the first populated value.
type Text struct {
	entries []entry
}

// NewText builds a Text from lang/value pairs. A trailing lang without a
// value is ignored.
func NewText(pairs ...string) Text {
	var t Text
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Set(pairs[i], pairs[i+1])
	}
	return t
}

// EmptyText returns the default value for localized fields.
func EmptyText() Text {
	return NewText(LangEN, "", LangHR, "", LangDE, "")
}

// Get returns the value stored for lang. Empty values are reported as present.
func (t Text) Get(lang string) (string, bool) {
	lang = normalizeLang(lang)
	for _, e := range t.entries {
		if e.lang == lang {
			return e.value, true
		}
	}
	return "", false
}

// Set stores value for lang, keeping the original position when lang exists.
func (t *Text) Set(lang, value string) {
	lang = normalizeLang(lang)
	if lang == "" {
		return
	}
	for i := range t.entries {
		if t.entries[i].lang == lang {
			t.entries[i].value = value
			return
		}
	}
	t.entries = append(t.entries, entry{lang: lang, value: value})
}

// With returns a copy of t with lang set to value.
func (t Text) With(lang, value string) Text {
	out := t.Clone()
	out.Set(lang, value)
	return out
}

// Langs returns language codes in insertion order.
func (t Text) Langs() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.lang)
	}
	return out
}

// Len reports how many languages are stored, empty or not.
func (t Text) Len() int { return len(t.entries) }

// IsEmpty reports whether every stored value is blank.
func (t Text) IsEmpty() bool {
	for _, e := range t.entries {
		if strings.TrimSpace(e.value) != "" {
			return false
		}
	}
	return true
}

func (t Text) Clone() Text {
	if len(t.entries) == 0 {
		return Text{}
	}
	out := Text{entries: make([]entry, len(t.entries))}
	copy(out.entries, t.entries)
	return out
}

// Equal compares values and order.
func (t Text) Equal(other Text) bool {
	if len(t.entries) != len(other.entries) {
		return false
	}
	for i := range t.entries {
		if t.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// Map returns an unordered copy of the stored values.
func (t Text) Map() map[string]string {
	out := make(map[string]string, len(t.entries))
	for _, e := range t.entries {
		out[e.lang] = e.value
	}
	return out
}

func (t Text) String() string {
	value, _ := Resolve(t, LangEN)
	return value
}

// MarshalJSON writes the object keys in insertion order.
func (t Text) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.lang)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object of strings (null values are skipped) or a
// bare string, which is stored under English.
func (t *Text) UnmarshalJSON(data []byte) error {
	t.entries = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		t.Set(LangEN, value)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("i18n: localized text must be an object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("i18n: localized text %q: %w", key, err)
		}
		if value != nil {
			t.Set(key, *value)
		}
	}
	_, err = dec.Token()
	return err
}

// Value stores the text as a JSON object.
func (t Text) Value() (driver.Value, error) {
	data, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan reads a JSON object column.
func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.entries = nil
		return nil
	case []byte:
		return t.UnmarshalJSON(v)
	case string:
		return t.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("i18n: cannot scan %T into Text", src)
	}
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
