package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Resolve picks the best value for lang using the fallback chain
// lang, base(lang), en, hr, then the first populated value. Blank values never
// win. The boolean is false when nothing is populated.
func Resolve(t Text, lang string) (string, bool) {
	lang = normalizeLang(lang)
	candidates := []string{lang, Base(lang), LangEN, LangHR}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if value, ok := t.Get(candidate); ok && value != "" {
			return value, true
		}
	}
	for _, e := range t.entries {
		if e.value != "" {
			return e.value, true
		}
	}
	return "", false
}

// ResolveString is Resolve without the presence flag.
func ResolveString(t Text, lang string) string {
	value, _ := Resolve(t, lang)
	return value
}

// Base strips region and script subtags ("en-GB" -> "en").
func Base(lang string) string {
	lang = normalizeLang(lang)
	if lang == "" {
		return ""
	}
	if tag, err := language.Parse(lang); err == nil {
		if base, confidence := tag.Base(); confidence != language.No {
			return base.String()
		}
	}
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		return lang[:idx]
	}
	return lang
}

// Supported reports whether lang (or its base) is one of Languages.
func Supported(lang string) bool {
	base := Base(lang)
	for _, candidate := range Languages {
		if candidate == base {
			return true
		}
	}
	return false
}
