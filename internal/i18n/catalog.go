package i18n

import (
	"fmt"
	"strings"
)

// Catalog translates UI string keys such as "nav.pricing".
type Catalog struct {
	defaultLocale string
	strings       map[string]map[string]string
}

// NewCatalog indexes translations by locale. The default locale falls back to
// English when empty.
func NewCatalog(cfg Config, translations map[string]map[string]string) *Catalog {
	def := normalizeLang(cfg.DefaultLocale)
	if def == "" {
		def = LangEN
	}
	index := make(map[string]map[string]string, len(translations))
	for locale, values := range translations {
		copied := make(map[string]string, len(values))
		for key, value := range values {
			copied[key] = value
		}
		index[normalizeLang(locale)] = copied
	}
	return &Catalog{defaultLocale: def, strings: index}
}

// NewCatalogFromFixture is a convenience wrapper over NewCatalog.
func NewCatalogFromFixture(fx *Fixture) (*Catalog, error) {
	if fx == nil {
		return nil, fmt.Errorf("i18n: fixture is nil")
	}
	return NewCatalog(fx.Config, fx.Translations), nil
}

// DefaultCatalog returns the catalog built from the embedded fixture.
func DefaultCatalog() (*Catalog, error) {
	fx, err := DefaultFixture()
	if err != nil {
		return nil, err
	}
	return NewCatalogFromFixture(fx)
}

func (c *Catalog) DefaultLocale() string {
	if c == nil {
		return LangEN
	}
	return c.defaultLocale
}

// Translate looks key up in lang, base(lang) and the default locale. The key
// itself is returned when nothing matches.
func (c *Catalog) Translate(lang, key string) string {
	if c == nil {
		return key
	}
	for _, locale := range []string{normalizeLang(lang), Base(lang), c.defaultLocale} {
		if locale == "" {
			continue
		}
		if value := strings.TrimSpace(c.strings[locale][key]); value != "" {
			return value
		}
	}
	return key
}

// Text builds a localized value for key across every locale the catalog knows.
func (c *Catalog) Text(key string) Text {
	var out Text
	if c == nil {
		return NewText(LangEN, key)
	}
	for _, locale := range Languages {
		if value, ok := c.strings[locale][key]; ok && value != "" {
			out.Set(locale, value)
		}
	}
	if out.Len() == 0 {
		out.Set(c.defaultLocale, key)
	}
	return out
}
