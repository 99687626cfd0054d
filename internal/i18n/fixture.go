package i18n

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
)

//go:embed translations/default.json
var defaultFixture []byte

// ErrFixtureLocale reports a fixture that names a language the site does
// not support.
var ErrFixtureLocale = errors.New("i18n: unsupported fixture locale")

// Config captures locale settings shared by the catalog and the renderer.
type Config struct {
	DefaultLocale string   `json:"default_locale"`
	Locales       []string `json:"locales"`
}

// Fixture is a bundle of UI strings keyed by locale then by string key.
type Fixture struct {
	Config       Config                       `json:"config"`
	Translations map[string]map[string]string `json:"translations"`
}

// DefaultFixture decodes the embedded UI strings.
func DefaultFixture() (*Fixture, error) {
	fx, err := ParseFixture(defaultFixture)
	if err != nil {
		return nil, fmt.Errorf("i18n: embedded fixture: %w", err)
	}
	return fx, nil
}

// ParseFixture decodes data and checks every locale against Languages.
// Unknown JSON fields are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	var fx Fixture
	if err := decoder.Decode(&fx); err != nil {
		return nil, err
	}
	if fx.Config.DefaultLocale != "" && !Supported(fx.Config.DefaultLocale) {
		return nil, fmt.Errorf("%w: default %q", ErrFixtureLocale, fx.Config.DefaultLocale)
	}
	for locale := range fx.Translations {
		if !Supported(locale) {
			return nil, fmt.Errorf("%w: %q", ErrFixtureLocale, locale)
		}
	}
	if fx.Translations == nil {
		fx.Translations = map[string]map[string]string{}
	}
	return &fx, nil
}

// LoadOverlay reads the fixture at path and lays it over the embedded one:
// strings it defines win, the rest keep their built-in values.
func LoadOverlay(ctx context.Context, path string) (*Fixture, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("i18n: fixture path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read fixture %q: %w", path, err)
	}
	overlay, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("i18n: parse fixture %q: %w", path, err)
	}
	base, err := DefaultFixture()
	if err != nil {
		return nil, err
	}
	return base.Merge(overlay), nil
}

// Merge returns a fixture holding f's strings overridden by other's. Config
// values set on other replace f's.
func (f *Fixture) Merge(other *Fixture) *Fixture {
	out := &Fixture{Config: f.Config, Translations: make(map[string]map[string]string, len(f.Translations))}
	for locale, values := range f.Translations {
		out.Translations[locale] = maps.Clone(values)
	}
	if other == nil {
		return out
	}
	if other.Config.DefaultLocale != "" {
		out.Config.DefaultLocale = other.Config.DefaultLocale
	}
	if len(other.Config.Locales) > 0 {
		out.Config.Locales = append([]string(nil), other.Config.Locales...)
	}
	for locale, values := range other.Translations {
		locale = normalizeLang(locale)
		if out.Translations[locale] == nil {
			out.Translations[locale] = map[string]string{}
		}
		maps.Copy(out.Translations[locale], values)
	}
	return out
}
