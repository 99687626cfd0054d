package render_test

import (
	"testing"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/render"
	"github.com/goliatone/go-sitecms/internal/sections"
)

func page(list ...sections.Section) *pages.Page {
	return &pages.Page{Slug: "about", Title: i18n.NewText("en", "About", "hr", "O nama"), Sections: list}
}

func section(id, sectionType string, order int, visible bool, content sections.Content) sections.Section {
	return sections.Section{ID: id, Type: sectionType, Order: order, Visible: visible, Content: content}
}

func TestRenderSkipsHiddenAndSortsByOrder(t *testing.T) {
	out := render.Render(page(
		section("b", sections.TypeFAQ, 2, true, nil),
		section("hidden", sections.TypeHero, 0, false, nil),
		section("a", sections.TypeContent, 1, true, nil),
	), "en")

	if len(out) != 2 {
		t.Fatalf("expected 2 visible sections, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("expected ascending order, got %s, %s", out[0].ID, out[1].ID)
	}
}

func TestRenderUnknownTypeUsesContentLayout(t *testing.T) {
	out := render.Render(page(section("x", "not_a_real_type", 0, true, sections.Content{
		"headline": i18n.NewText("en", "Legacy"),
		"body":     "not localized",
	})), "en")

	if len(out) != 1 {
		t.Fatalf("expected unknown section rendered, got %d", len(out))
	}
	if out[0].Type != "not_a_real_type" || out[0].Layout != sections.TypeContent {
		t.Fatalf("expected content layout for unknown type, got %+v", out[0])
	}
	view, ok := out[0].View.(render.ContentView)
	if !ok {
		t.Fatalf("expected ContentView, got %T", out[0].View)
	}
	if view.Headline != "Legacy" || view.Body != "" {
		t.Fatalf("expected headline only, got %+v", view)
	}
}

func TestRenderResolvesLanguageWithFallback(t *testing.T) {
	out := render.Render(page(section("h", sections.TypeHero, 0, true, sections.Content{
		"headline":    i18n.NewText("en", "Welcome", "hr", "Dobrodošli"),
		"subheadline": i18n.NewText("en", "Only English"),
	})), "hr-HR")

	view := out[0].View.(render.HeroView)
	if view.Headline == nil || view.Headline.Text != "Dobrodošli" {
		t.Fatalf("expected croatian headline, got %+v", view.Headline)
	}
	if view.Subheadline != "Only English" {
		t.Fatalf("expected english fallback subheadline, got %q", view.Subheadline)
	}
	if view.Button != nil || view.Image != nil || view.Body != "" {
		t.Fatalf("expected empty fields omitted, got %+v", view)
	}
	if view.BackgroundColor != "dark" {
		t.Fatalf("expected default background, got %q", view.BackgroundColor)
	}
}

func TestRenderHighlightedHeadline(t *testing.T) {
	content := sections.Content{
		"headline":           i18n.NewText("en", "Book more, worry less"),
		"headline_highlight": i18n.NewText("en", "worry less"),
	}
	out := render.Render(page(section("c", sections.TypeCTA, 0, true, content)), "en", render.WithHighlightColor("accent"))

	headline := out[0].View.(render.CTAView).Headline
	if !headline.Highlighted() {
		t.Fatalf("expected highlighted headline, got %+v", headline)
	}
	if headline.Before != "Book more, " || headline.Highlight != "worry less" || headline.After != "" || headline.Color != "accent" {
		t.Fatalf("unexpected split %+v", headline)
	}
}

func TestRenderHighlightAbsentLeavesHeadlinePlain(t *testing.T) {
	content := sections.Content{
		"headline":           i18n.NewText("en", "Book more, worry less"),
		"headline_highlight": i18n.NewText("en", "xyz"),
	}
	out := render.Render(page(section("h", sections.TypeHero, 0, true, content)), "en")

	headline := out[0].View.(render.HeroView).Headline
	if headline.Highlighted() || headline.Text != "Book more, worry less" || headline.Color != "" {
		t.Fatalf("expected plain headline, got %+v", headline)
	}
}

func TestRenderCarouselVisibleCount(t *testing.T) {
	items := make([]sections.Item, 5)
	for i := range items {
		items[i] = sections.Item{ID: string(rune('a' + i)), Order: i, Fields: map[string]any{
			"title": i18n.NewText("en", "Benefit"),
			"icon":  "Nope",
		}}
	}
	out := render.Render(page(
		section("b", sections.TypeBenefits, 0, true, sections.Content{"items": items}),
		section("t", sections.TypeTestimonials, 1, true, sections.Content{"items": items[:2], "columns": 4}),
	), "en")

	benefits := out[0].View.(render.BenefitsView)
	if benefits.Carousel.VisibleCount != 3 || benefits.Carousel.Total != 5 {
		t.Fatalf("expected 3 of 5 visible, got %+v", benefits.Carousel)
	}
	if benefits.Items[0].Icon != sections.DefaultIcon || benefits.Items[0].ImageSize != "icon" {
		t.Fatalf("expected icon and size defaults, got %+v", benefits.Items[0])
	}
	state := benefits.Carousel.State().Next().Next().Next()
	if state.Start != 2 {
		t.Fatalf("expected carousel to clamp at 2, got %d", state.Start)
	}

	testimonials := out[1].View.(render.TestimonialsView)
	if testimonials.Carousel.VisibleCount != 2 || testimonials.Carousel.Columns != 4 {
		t.Fatalf("expected visible count clamped to item count, got %+v", testimonials.Carousel)
	}
}

func TestRenderOmitsEmptyCustomHTML(t *testing.T) {
	out := render.Render(page(
		section("empty", sections.TypeCustomHTML, 0, true, sections.Content{"html_content": i18n.EmptyText()}),
		section("full", sections.TypeCustomHTML, 1, true, sections.Content{"html_content": i18n.NewText("de", "<p>Hallo</p>")}),
	), "en")

	if len(out) != 1 || out[0].ID != "full" {
		t.Fatalf("expected only the populated custom_html, got %+v", out)
	}
	if out[0].View.(render.CustomHTMLView).HTML != "<p>Hallo</p>" {
		t.Fatalf("expected first available language, got %+v", out[0].View)
	}
}

func TestRenderToleratesMalformedContent(t *testing.T) {
	out := render.Render(page(
		section("f", sections.TypeFeaturesList, 0, true, sections.Content{
			"items":   "not a list",
			"columns": "two",
			"layout":  42,
		}),
		section("g", sections.TypeGallery, 1, true, sections.Content{
			"images": []any{map[string]any{"title": i18n.NewText("en", "No url")}, "junk"},
		}),
	), "en")

	features := out[0].View.(render.FeaturesListView)
	if len(features.Items) != 0 || features.Columns != 2 || features.Layout != "list-with-image" {
		t.Fatalf("expected defaults for malformed values, got %+v", features)
	}
	gallery := out[1].View.(render.GalleryView)
	if len(gallery.Images) != 0 {
		t.Fatalf("expected images without url dropped, got %+v", gallery.Images)
	}
}

func TestContentPrefersHTMLOverBody(t *testing.T) {
	out := render.Render(page(section("c", sections.TypeContent, 0, true, sections.Content{
		"body":         i18n.NewText("en", "plain"),
		"html_content": i18n.NewText("en", "<b>rich</b>"),
	})), "en")

	view := out[0].View.(render.ContentView)
	if view.HTML != "<b>rich</b>" || view.Body != "" {
		t.Fatalf("expected html to win, got %+v", view)
	}
}

func TestRenderPageResolvesMetadata(t *testing.T) {
	view := render.RenderPage(page(), "hr")
	if view.Title != "O nama" || view.Slug != "about" {
		t.Fatalf("unexpected page view %+v", view)
	}
	if view.Sections == nil {
		t.Fatalf("expected non-nil sections slice")
	}
	if nilView := render.RenderPage(nil, "en"); len(nilView.Sections) != 0 {
		t.Fatalf("expected empty view for nil page")
	}
}

func TestFallbackUsesCatalogBody(t *testing.T) {
	catalog, err := i18n.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	view := render.Fallback("pricing", i18n.NewText("en", "Pricing"), "en", catalog)
	if !view.Fallback || len(view.Sections) != 1 {
		t.Fatalf("expected single fallback section, got %+v", view)
	}
	content := view.Sections[0].View.(render.ContentView)
	if content.Headline != "Pricing" || content.Body == "" {
		t.Fatalf("expected headline and fallback body, got %+v", content)
	}
}
