package sections

import (
	"regexp"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans untrusted HTML.
type Sanitizer interface {
	Sanitize(html string) string
}

var linkTarget = regexp.MustCompile(`^_(blank|self)$`)

// NewHTMLSanitizer returns the user-generated-content policy used for
// localized_html fields. Class attributes survive so editors can keep their
// markup styled.
func NewHTMLSanitizer() Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "div", "a", "ul", "ol", "li", "h2", "h3", "h4", "blockquote", "img", "table", "td", "th")
	policy.AllowAttrs("target").Matching(linkTarget).OnElements("a")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// SanitizeContent rewrites every localized_html value (including item
// sub-fields) through s. Values of other kinds are copied unchanged.
func SanitizeContent(desc Descriptor, content Content, s Sanitizer) Content {
	out := content.Clone()
	if s == nil {
		return out
	}
	for _, field := range desc.Fields {
		value, ok := out[field.Name]
		if !ok {
			continue
		}
		switch field.Kind {
		case KindHTML:
			if text, ok := value.(i18n.Text); ok {
				out[field.Name] = sanitizeText(text, s)
			}
		case KindList:
			items, ok := value.([]Item)
			if !ok {
				continue
			}
			for idx := range items {
				for _, sub := range field.ItemFields {
					if sub.Kind != KindHTML {
						continue
					}
					if text, ok := items[idx].Fields[sub.Name].(i18n.Text); ok {
						items[idx].Fields[sub.Name] = sanitizeText(text, s)
					}
				}
			}
		}
	}
	return out
}

func sanitizeText(text i18n.Text, s Sanitizer) i18n.Text {
	var out i18n.Text
	for _, lang := range text.Langs() {
		value, _ := text.Get(lang)
		out.Set(lang, s.Sanitize(value))
	}
	return out
}
