package sections_test

import (
	"testing"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/sections"
)

func TestDecodeUnknownTypeFallsBackToContent(t *testing.T) {
	section := sections.Section{
		Type:    "not_a_real_type",
		Content: sections.Content{"headline": i18n.NewText("en", "Legacy"), "image_position": "sideways"},
	}
	variant := sections.Decode(sections.Default(), section)
	block, ok := variant.(sections.ContentBlock)
	if !ok {
		t.Fatalf("expected ContentBlock, got %T", variant)
	}
	if block.ImagePosition != "right" {
		t.Fatalf("expected enum default, got %q", block.ImagePosition)
	}
	if i18n.ResolveString(block.Headline, "de") != "Legacy" {
		t.Fatalf("expected headline to decode")
	}
}

func TestDecodeToleratesMalformedContent(t *testing.T) {
	section := sections.Section{
		Type: sections.TypeBenefits,
		Content: sections.Content{
			"headline": 42,
			"columns":  "three",
			"items": []any{
				map[string]any{"id": "x", "icon": "Unicorn", "image_size": "huge", "title": map[string]any{"en": "Fast"}},
				"garbage",
			},
		},
	}
	variant := sections.Decode(nil, section)
	benefits, ok := variant.(sections.Benefits)
	if !ok {
		t.Fatalf("expected Benefits, got %T", variant)
	}
	if benefits.Headline.Len() != 0 {
		t.Fatalf("expected malformed headline to be absent")
	}
	if benefits.Columns != 3 {
		t.Fatalf("expected default columns, got %d", benefits.Columns)
	}
	if len(benefits.Items) != 1 {
		t.Fatalf("expected one decodable item, got %d", len(benefits.Items))
	}
	item := benefits.Items[0]
	if item.Icon != sections.DefaultIcon || item.ImageSize != "icon" {
		t.Fatalf("expected fallbacks, got icon=%q size=%q", item.Icon, item.ImageSize)
	}
}

func TestDecodeNilContent(t *testing.T) {
	variant := sections.Decode(nil, sections.Section{Type: sections.TypeHero})
	hero, ok := variant.(sections.Hero)
	if !ok {
		t.Fatalf("expected Hero, got %T", variant)
	}
	if hero.BackgroundColor != "dark" {
		t.Fatalf("expected default background, got %q", hero.BackgroundColor)
	}
}

func TestSanitizeContentStripsScripts(t *testing.T) {
	reg := sections.Default()
	desc := reg.Resolve(sections.TypeCustomHTML)
	content := sections.Content{"html_content": i18n.NewText("en", `<p class="lead">Hi<script>alert(1)</script></p>`)}
	clean := sections.SanitizeContent(desc, content, sections.NewHTMLSanitizer())
	text, _ := clean.Text("html_content")
	if got := i18n.ResolveString(text, "en"); got != `<p class="lead">Hi</p>` {
		t.Fatalf("unexpected sanitized html %q", got)
	}
	original, _ := content.Text("html_content")
	if i18n.ResolveString(original, "en") == i18n.ResolveString(text, "en") {
		t.Fatalf("expected input content to stay untouched")
	}
}
