package sections

import (
	"github.com/goliatone/go-sitecms/internal/i18n"
)

// Variant is the typed view of a section's content. Exactly one concrete type
// exists per built-in section type.
type Variant interface {
	SectionType() string
	isVariant()
}

type Hero struct {
	Headline          i18n.Text
	HeadlineHighlight i18n.Text
	Subheadline       i18n.Text
	Body              i18n.Text
	ButtonText        i18n.Text
	ButtonURL         string
	ImageURL          string
	BackgroundColor   string
}

// ContentBlock is the generic variant; unknown types decode into it.
type ContentBlock struct {
	Headline      i18n.Text
	Body          i18n.Text
	HTMLContent   i18n.Text
	ImageURL      string
	ImagePosition string
}

type FeatureItem struct {
	ID          string
	Icon        string
	Title       i18n.Text
	Description i18n.Text
}

type FeaturesList struct {
	Headline    i18n.Text
	Subheadline i18n.Text
	Items       []FeatureItem
	ImageURL    string
	Columns     int
	Layout      string
}

type BenefitItem struct {
	ID          string
	Icon        string
	ImageURL    string
	ImageSize   string
	Title       i18n.Text
	Description i18n.Text
}

type Benefits struct {
	Headline    i18n.Text
	Subheadline i18n.Text
	Items       []BenefitItem
	Columns     int
}

type CTA struct {
	Headline          i18n.Text
	HeadlineHighlight i18n.Text
	Body              i18n.Text
	ButtonText        i18n.Text
	ButtonURL         string
	BackgroundColor   string
}

type Testimonial struct {
	ID       string
	Quote    i18n.Text
	Author   string
	ImageURL string
}

type Testimonials struct {
	Headline i18n.Text
	Items    []Testimonial
	Columns  int
}

type FAQEntry struct {
	ID       string
	Question i18n.Text
	Answer   i18n.Text
}

type FAQ struct {
	Headline i18n.Text
	Items    []FAQEntry
}

type GalleryImage struct {
	ID       string
	ImageURL string
	Title    i18n.Text
}

type Gallery struct {
	Headline i18n.Text
	Images   []GalleryImage
}

type CustomHTML struct {
	HTMLContent i18n.Text
}

type PromoItem struct {
	ID          string
	Icon        string
	ImageURL    string
	Title       i18n.Text
	Description i18n.Text
	URL         string
}

type PromoGrid struct {
	Headline    i18n.Text
	Subheadline i18n.Text
	Items       []PromoItem
	Columns     int
}

func (Hero) SectionType() string         { return TypeHero }
func (ContentBlock) SectionType() string { return TypeContent }
func (FeaturesList) SectionType() string { return TypeFeaturesList }
func (Benefits) SectionType() string     { return TypeBenefits }
func (CTA) SectionType() string          { return TypeCTA }
func (Testimonials) SectionType() string { return TypeTestimonials }
func (FAQ) SectionType() string          { return TypeFAQ }
func (Gallery) SectionType() string      { return TypeGallery }
func (CustomHTML) SectionType() string   { return TypeCustomHTML }
func (PromoGrid) SectionType() string    { return TypePromoGrid }

func (Hero) isVariant()         {}
func (ContentBlock) isVariant() {}
func (FeaturesList) isVariant() {}
func (Benefits) isVariant()     {}
func (CTA) isVariant()          {}
func (Testimonials) isVariant() {}
func (FAQ) isVariant()          {}
func (Gallery) isVariant()      {}
func (CustomHTML) isVariant()   {}
func (PromoGrid) isVariant()    {}

// Decode maps a persisted section to its variant. Decoding never fails:
// unknown tags become ContentBlock and malformed values read as absent or as
// the declared default.
func Decode(reg *Registry, section Section) Variant {
	if reg == nil {
		reg = Default()
	}
	desc := reg.Resolve(section.Type)
	r := reader{desc: desc, content: section.Content}

	switch desc.Type {
	case TypeHero:
		return Hero{
			Headline:          r.text("headline"),
			HeadlineHighlight: r.text("headline_highlight"),
			Subheadline:       r.text("subheadline"),
			Body:              r.text("body"),
			ButtonText:        r.text("button_text"),
			ButtonURL:         r.str("button_url"),
			ImageURL:          r.str("image_url"),
			BackgroundColor:   r.enum("background_color"),
		}
	case TypeFeaturesList:
		v := FeaturesList{
			Headline:    r.text("headline"),
			Subheadline: r.text("subheadline"),
			ImageURL:    r.str("image_url"),
			Columns:     r.integer("columns"),
			Layout:      r.enum("layout"),
		}
		for _, item := range r.items("items") {
			v.Items = append(v.Items, FeatureItem{
				ID:          item.item.ID,
				Icon:        item.icon(),
				Title:       item.text("title"),
				Description: item.text("description"),
			})
		}
		return v
	case TypeBenefits:
		v := Benefits{
			Headline:    r.text("headline"),
			Subheadline: r.text("subheadline"),
			Columns:     r.integer("columns"),
		}
		for _, item := range r.items("items") {
			v.Items = append(v.Items, BenefitItem{
				ID:          item.item.ID,
				Icon:        item.icon(),
				ImageURL:    item.str("image_url"),
				ImageSize:   item.enum("image_size"),
				Title:       item.text("title"),
				Description: item.text("description"),
			})
		}
		return v
	case TypeCTA:
		return CTA{
			Headline:          r.text("headline"),
			HeadlineHighlight: r.text("headline_highlight"),
			Body:              r.text("body"),
			ButtonText:        r.text("button_text"),
			ButtonURL:         r.str("button_url"),
			BackgroundColor:   r.enum("background_color"),
		}
	case TypeTestimonials:
		v := Testimonials{
			Headline: r.text("headline"),
			Columns:  r.integer("columns"),
		}
		for _, item := range r.items("items") {
			v.Items = append(v.Items, Testimonial{
				ID:       item.item.ID,
				Quote:    item.text("quote"),
				Author:   item.str("author"),
				ImageURL: item.str("image_url"),
			})
		}
		return v
	case TypeFAQ:
		v := FAQ{Headline: r.text("headline")}
		for _, item := range r.items("items") {
			v.Items = append(v.Items, FAQEntry{
				ID:       item.item.ID,
				Question: item.text("question"),
				Answer:   item.text("answer"),
			})
		}
		return v
	case TypeGallery:
		v := Gallery{Headline: r.text("headline")}
		for _, item := range r.items("images") {
			v.Images = append(v.Images, GalleryImage{
				ID:       item.item.ID,
				ImageURL: item.str("image_url"),
				Title:    item.text("title"),
			})
		}
		return v
	case TypeCustomHTML:
		return CustomHTML{HTMLContent: r.text("html_content")}
	case TypePromoGrid:
		v := PromoGrid{
			Headline:    r.text("headline"),
			Subheadline: r.text("subheadline"),
			Columns:     r.integer("columns"),
		}
		for _, item := range r.items("items") {
			v.Items = append(v.Items, PromoItem{
				ID:          item.item.ID,
				Icon:        item.icon(),
				ImageURL:    item.str("image_url"),
				Title:       item.text("title"),
				Description: item.text("description"),
				URL:         item.str("url"),
			})
		}
		return v
	default:
		return ContentBlock{
			Headline:      r.text("headline"),
			Body:          r.text("body"),
			HTMLContent:   r.text("html_content"),
			ImageURL:      r.str("image_url"),
			ImagePosition: r.enum("image_position"),
		}
	}
}

// reader tolerates missing and mistyped values.
type reader struct {
	desc    Descriptor
	content Content
}

func (r reader) text(name string) i18n.Text {
	text, _ := AsText(r.content[name])
	return text
}

func (r reader) str(name string) string {
	value, _ := r.content[name].(string)
	return value
}

func (r reader) enum(name string) string {
	field, ok := r.desc.Field(name)
	value, _ := r.content[name].(string)
	if !ok {
		return value
	}
	if field.allows(value) {
		return value
	}
	return field.DefaultEnum()
}

func (r reader) integer(name string) int {
	field, _ := r.desc.Field(name)
	if n, ok := asInt(r.content[name]); ok && n > 0 {
		return n
	}
	return field.DefaultInt()
}

func (r reader) items(name string) []itemReader {
	field, _ := r.desc.Field(name)
	list := AsItems(r.content[name])
	out := make([]itemReader, 0, len(list))
	for _, item := range list {
		out = append(out, itemReader{field: field, item: item})
	}
	return out
}

type itemReader struct {
	field Field
	item  Item
}

func (i itemReader) text(name string) i18n.Text {
	text, _ := AsText(i.item.Fields[name])
	return text
}

func (i itemReader) str(name string) string {
	value, _ := i.item.Fields[name].(string)
	return value
}

func (i itemReader) enum(name string) string {
	value, _ := i.item.Fields[name].(string)
	sub, ok := i.field.ItemField(name)
	if !ok || sub.allows(value) {
		return value
	}
	return sub.DefaultEnum()
}

func (i itemReader) icon() string {
	value := i.enum("icon")
	if value == "" {
		return DefaultIcon
	}
	return value
}
