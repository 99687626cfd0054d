package markdown

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"path"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// ParseFrontMatter splits source into metadata and Markdown body. Scalar
// title and meta_description values are stored under locale.
func ParseFrontMatter(source []byte, locale string) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return interfaces.FrontMatter{
		Slug:            strings.TrimSpace(meta.Slug),
		Title:           localizedValue(meta.Title, locale),
		MetaDescription: localizedValue(meta.MetaDescription, locale),
		SectionType:     strings.TrimSpace(meta.SectionType),
		Published:       meta.Published,
	}, body, nil
}

// BuildDocument parses source read from filePath. The locale comes from the
// front matter, then from a "name.<lang>.md" suffix, then defaultLocale.
func BuildDocument(filePath string, source []byte, defaultLocale string) (*interfaces.Document, error) {
	var hint struct {
		Locale string `yaml:"locale"`
	}
	if _, err := frontmatter.Parse(bytes.NewReader(source), &hint); err != nil {
		return nil, fmt.Errorf("%s: parse frontmatter: %w", filePath, err)
	}
	stem, suffix := splitName(filePath)
	locale := strings.TrimSpace(hint.Locale)
	if locale == "" && suffix != "" {
		locale = suffix
	}
	if locale == "" {
		locale = defaultLocale
	}
	locale = i18n.Base(locale)

	meta, body, err := ParseFrontMatter(source, locale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	if meta.Slug == "" {
		meta.Slug = stem
	}
	sum := sha256.Sum256(source)
	return &interfaces.Document{
		FilePath:    filePath,
		Locale:      locale,
		FrontMatter: meta,
		Body:        body,
		Checksum:    sum[:],
	}, nil
}

// splitName returns the file stem and, for "about.hr.md", the supported
// language suffix.
func splitName(filePath string) (string, string) {
	name := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	if idx := strings.LastIndex(name, "."); idx > 0 {
		if lang := name[idx+1:]; i18n.Supported(lang) {
			return name[:idx], lang
		}
	}
	return name, ""
}

type frontMatterEnvelope struct {
	Slug            string `yaml:"slug"`
	Title           any    `yaml:"title"`
	MetaDescription any    `yaml:"meta_description"`
	SectionType     string `yaml:"section_type"`
	Published       bool   `yaml:"published"`
}

func localizedValue(value any, locale string) map[string]string {
	out := map[string]string{}
	switch typed := value.(type) {
	case nil:
	case string:
		if strings.TrimSpace(typed) != "" {
			out[locale] = strings.TrimSpace(typed)
		}
	case map[string]any:
		for lang, v := range typed {
			out[strings.ToLower(lang)] = fmt.Sprint(v)
		}
	case map[any]any:
		for lang, v := range typed {
			out[strings.ToLower(fmt.Sprint(lang))] = fmt.Sprint(v)
		}
	default:
		out[locale] = fmt.Sprint(typed)
	}
	return out
}
