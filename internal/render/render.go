// Package render turns persisted pages into language-resolved section views.
// Rendering is pure: no IO, no errors, and malformed content reads as absent.
package render

import (
	"strings"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/internal/viewstate"
)

// DefaultHighlightColor is the color key attached to highlighted headlines.
const DefaultHighlightColor = "primary"

// Rendered is one visible section resolved for a language. Type is the
// persisted tag; Layout is the variant that produced View, which differs
// for unknown tags.
type Rendered struct {
	ID     string `json:"id"`
	Type   string `json:"section_type"`
	Layout string `json:"layout"`
	Order  int    `json:"order"`
	View   any    `json:"view"`
}

// PageView is a rendered page with its resolved metadata.
type PageView struct {
	Slug            string     `json:"slug"`
	Lang            string     `json:"lang"`
	Title           string     `json:"title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	Sections        []Rendered `json:"sections"`
	Fallback        bool       `json:"fallback,omitempty"`
}

type Option func(*options)

type options struct {
	registry       *sections.Registry
	highlightColor string
}

// WithHighlightColor sets the color key for highlighted headline spans.
func WithHighlightColor(color string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(color); trimmed != "" {
			o.highlightColor = trimmed
		}
	}
}

// WithRegistry overrides the section type registry used for decoding.
func WithRegistry(registry *sections.Registry) Option {
	return func(o *options) {
		if registry != nil {
			o.registry = registry
		}
	}
}

func resolveOptions(opts []Option) options {
	o := options{registry: sections.Default(), highlightColor: DefaultHighlightColor}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Render returns the visible sections of page in ascending order.
func Render(page *pages.Page, lang string, opts ...Option) []Rendered {
	if page == nil {
		return []Rendered{}
	}
	return RenderSections(page.Sections, lang, opts...)
}

// RenderSections renders a bare section list.
func RenderSections(list []sections.Section, lang string, opts ...Option) []Rendered {
	o := resolveOptions(opts)
	out := make([]Rendered, 0, len(list))
	for _, section := range sections.Sorted(list) {
		if !section.Visible {
			continue
		}
		variant := sections.Decode(o.registry, section)
		view, ok := o.view(variant, lang)
		if !ok {
			continue
		}
		out = append(out, Rendered{
			ID:     section.ID,
			Type:   section.Type,
			Layout: variant.SectionType(),
			Order:  section.Order,
			View:   view,
		})
	}
	return out
}

// RenderPage renders sections plus title and meta description.
func RenderPage(page *pages.Page, lang string, opts ...Option) PageView {
	if page == nil {
		return PageView{Lang: lang, Sections: []Rendered{}}
	}
	return PageView{
		Slug:            page.Slug,
		Lang:            lang,
		Title:           i18n.ResolveString(page.Title, lang),
		MetaDescription: i18n.ResolveString(page.MetaDescription, lang),
		Sections:        Render(page, lang, opts...),
	}
}

// Fallback is shown when a page cannot be loaded or has no sections: a
// single content view carrying the title and the catalog's fallback body.
func Fallback(slug string, title i18n.Text, lang string, catalog *i18n.Catalog) PageView {
	body := ""
	if catalog != nil {
		body = catalog.Translate(lang, "page.fallbackBody")
	}
	resolved := i18n.ResolveString(title, lang)
	view := ContentView{
		Headline:      resolved,
		Body:          body,
		ImagePosition: "right",
	}
	return PageView{
		Slug:     slug,
		Lang:     lang,
		Title:    resolved,
		Fallback: true,
		Sections: []Rendered{{
			ID:     "fallback",
			Type:   sections.TypeContent,
			Layout: sections.TypeContent,
			View:   view,
		}},
	}
}

func (o options) view(variant sections.Variant, lang string) (any, bool) {
	r := resolver{lang: lang}
	switch v := variant.(type) {
	case sections.Hero:
		return HeroView{
			Headline:        o.headline(v.Headline, v.HeadlineHighlight, lang),
			Subheadline:     r.text(v.Subheadline),
			Body:            r.text(v.Body),
			Button:          r.button(v.ButtonText, v.ButtonURL),
			Image:           image(v.ImageURL, r.text(v.Headline)),
			BackgroundColor: v.BackgroundColor,
		}, true
	case sections.ContentBlock:
		view := ContentView{
			Headline:      r.text(v.Headline),
			HTML:          r.text(v.HTMLContent),
			ImagePosition: v.ImagePosition,
		}
		if view.HTML == "" {
			view.Body = r.text(v.Body)
		}
		view.Image = image(v.ImageURL, view.Headline)
		return view, true
	case sections.FeaturesList:
		view := FeaturesListView{
			Headline:    r.text(v.Headline),
			Subheadline: r.text(v.Subheadline),
			Items:       make([]FeatureView, 0, len(v.Items)),
			Image:       image(v.ImageURL, r.text(v.Headline)),
			Columns:     v.Columns,
			Layout:      v.Layout,
		}
		for _, item := range v.Items {
			view.Items = append(view.Items, FeatureView{
				ID:          item.ID,
				Icon:        item.Icon,
				Title:       r.text(item.Title),
				Description: r.text(item.Description),
			})
		}
		return view, true
	case sections.Benefits:
		view := BenefitsView{
			Headline:    r.text(v.Headline),
			Subheadline: r.text(v.Subheadline),
			Items:       make([]BenefitView, 0, len(v.Items)),
			Carousel:    carousel(v.Columns, len(v.Items)),
		}
		for _, item := range v.Items {
			title := r.text(item.Title)
			view.Items = append(view.Items, BenefitView{
				ID:          item.ID,
				Icon:        item.Icon,
				Image:       image(item.ImageURL, title),
				ImageSize:   item.ImageSize,
				Title:       title,
				Description: r.text(item.Description),
			})
		}
		return view, true
	case sections.CTA:
		return CTAView{
			Headline:        o.headline(v.Headline, v.HeadlineHighlight, lang),
			Body:            r.text(v.Body),
			Button:          r.button(v.ButtonText, v.ButtonURL),
			BackgroundColor: v.BackgroundColor,
		}, true
	case sections.Testimonials:
		view := TestimonialsView{
			Headline: r.text(v.Headline),
			Items:    make([]TestimonialView, 0, len(v.Items)),
			Carousel: carousel(v.Columns, len(v.Items)),
		}
		for _, item := range v.Items {
			view.Items = append(view.Items, TestimonialView{
				ID:     item.ID,
				Quote:  r.text(item.Quote),
				Author: strings.TrimSpace(item.Author),
				Image:  image(item.ImageURL, item.Author),
			})
		}
		return view, true
	case sections.FAQ:
		view := FAQView{Headline: r.text(v.Headline), Items: make([]FAQEntryView, 0, len(v.Items))}
		for _, item := range v.Items {
			view.Items = append(view.Items, FAQEntryView{
				ID:       item.ID,
				Question: r.text(item.Question),
				Answer:   r.text(item.Answer),
			})
		}
		return view, true
	case sections.Gallery:
		view := GalleryView{Headline: r.text(v.Headline), Images: make([]GalleryImageView, 0, len(v.Images))}
		for _, item := range v.Images {
			if strings.TrimSpace(item.ImageURL) == "" {
				continue
			}
			title := r.text(item.Title)
			view.Images = append(view.Images, GalleryImageView{
				ID:    item.ID,
				Image: Image{URL: item.ImageURL, Alt: title},
				Title: title,
			})
		}
		return view, true
	case sections.CustomHTML:
		html := r.text(v.HTMLContent)
		if html == "" {
			return nil, false
		}
		return CustomHTMLView{HTML: html}, true
	case sections.PromoGrid:
		view := PromoGridView{
			Headline:    r.text(v.Headline),
			Subheadline: r.text(v.Subheadline),
			Items:       make([]PromoItemView, 0, len(v.Items)),
			Carousel:    carousel(v.Columns, len(v.Items)),
		}
		for _, item := range v.Items {
			title := r.text(item.Title)
			view.Items = append(view.Items, PromoItemView{
				ID:          item.ID,
				Icon:        item.Icon,
				Image:       image(item.ImageURL, title),
				Title:       title,
				Description: r.text(item.Description),
				URL:         strings.TrimSpace(item.URL),
			})
		}
		return view, true
	}
	return nil, false
}

// headline splits the resolved headline around the first occurrence of the
// resolved highlight. A highlight that does not occur leaves it plain.
func (o options) headline(headline, highlight i18n.Text, lang string) *Headline {
	text, ok := i18n.Resolve(headline, lang)
	if !ok || strings.TrimSpace(text) == "" {
		return nil
	}
	out := &Headline{Text: text}
	marker, ok := i18n.Resolve(highlight, lang)
	if !ok || marker == "" {
		return out
	}
	idx := strings.Index(text, marker)
	if idx < 0 {
		return out
	}
	out.Before = text[:idx]
	out.Highlight = marker
	out.After = text[idx+len(marker):]
	out.Color = o.highlightColor
	return out
}

type resolver struct {
	lang string
}

func (r resolver) text(text i18n.Text) string {
	value, _ := i18n.Resolve(text, r.lang)
	return strings.TrimSpace(value)
}

func (r resolver) button(text i18n.Text, url string) *Button {
	label := r.text(text)
	if label == "" {
		return nil
	}
	return &Button{Text: label, URL: strings.TrimSpace(url)}
}

func image(url, alt string) *Image {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return &Image{URL: url, Alt: alt}
}

func carousel(columns, total int) Carousel {
	state := viewstate.NewCarousel(total, columns)
	if columns <= 0 {
		columns = viewstate.DefaultColumns
	}
	return Carousel{Columns: columns, VisibleCount: state.VisibleCount(), Total: total}
}
