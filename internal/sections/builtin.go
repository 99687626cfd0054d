package sections

// Built-in section types.
const (
	TypeHero         = "hero"
	TypeContent      = "content"
	TypeFeaturesList = "features_list"
	TypeBenefits     = "benefits"
	TypeCTA          = "cta"
	TypeTestimonials = "testimonials"
	TypeFAQ          = "faq"
	TypeGallery      = "gallery"
	TypeCustomHTML   = "custom_html"
	TypePromoGrid    = "promo_grid"
)

// Icons is the fixed icon vocabulary for items.
var Icons = []string{
	"Check", "ArrowRight", "Calendar", "Users", "Globe", "Zap", "RefreshCw",
	"Shield", "BarChart", "Clock", "Quote", "ChevronDown", "ChevronUp",
}

// DefaultIcon is used when an item carries an unknown icon.
const DefaultIcon = "Check"

// ImageSizes enumerates item image sizes.
var ImageSizes = []string{"icon", "small", "medium", "large", "original"}

func intPtr(v int) *int { return &v }

func shortText(name, label string) Field {
	return Field{Name: name, Kind: KindShortText, Label: label}
}

func longText(name, label string) Field {
	return Field{Name: name, Kind: KindLongText, Label: label}
}

func htmlField(name, label string) Field {
	return Field{Name: name, Kind: KindHTML, Label: label}
}

func urlField(name, label string) Field {
	return Field{Name: name, Kind: KindURL, Label: label}
}

func enum(name, label, def string, options ...string) Field {
	return Field{Name: name, Kind: KindEnum, Label: label, Options: options, Default: def}
}

func columns(def int) Field {
	return Field{Name: "columns", Kind: KindInteger, Label: "Columns", Default: def, Min: intPtr(1), Max: intPtr(6)}
}

func list(name, label string, items ...Field) Field {
	return Field{Name: name, Kind: KindList, Label: label, ItemFields: items}
}

func iconField() Field {
	return enum("icon", "Icon", DefaultIcon, Icons...)
}

// Builtin returns the catalog of section types shipped with the CMS. Field
// order is the order editors present them in.
func Builtin() []Descriptor {
	return []Descriptor{
		{
			Type:  TypeHero,
			Label: "Hero",
			Fields: []Field{
				shortText("headline", "Headline"),
				shortText("headline_highlight", "Highlighted words"),
				longText("subheadline", "Subheadline"),
				longText("body", "Body"),
				shortText("button_text", "Button text"),
				urlField("button_url", "Button URL"),
				urlField("image_url", "Image"),
				enum("background_color", "Background", "dark", "dark", "primary", "light", "white"),
			},
		},
		{
			Type:  TypeContent,
			Label: "Content",
			Fields: []Field{
				shortText("headline", "Headline"),
				longText("body", "Body"),
				htmlField("html_content", "Rich content"),
				urlField("image_url", "Image"),
				enum("image_position", "Image position", "right", "right", "left"),
			},
		},
		{
			Type:  TypeFeaturesList,
			Label: "Features list",
			Fields: []Field{
				shortText("headline", "Headline"),
				longText("subheadline", "Subheadline"),
				list("items", "Features",
					iconField(),
					shortText("title", "Title"),
					longText("description", "Description"),
				),
				urlField("image_url", "Image"),
				columns(2),
				enum("layout", "Layout", "list-with-image", "list-with-image", "grid", "cards", "list-only"),
			},
		},
		{
			Type:     TypeBenefits,
			Label:    "Benefits (carousel)",
			Carousel: true,
			Fields: []Field{
				shortText("headline", "Headline"),
				longText("subheadline", "Subheadline"),
				list("items", "Benefits",
					iconField(),
					urlField("image_url", "Image"),
					enum("image_size", "Image size", "icon", ImageSizes...),
					shortText("title", "Title"),
					longText("description", "Description"),
				),
				columns(3),
			},
		},
		{
			Type:  TypeCTA,
			Label: "Call to action",
			Fields: []Field{
				shortText("headline", "Headline"),
				shortText("headline_highlight", "Highlighted words"),
				longText("body", "Body"),
				shortText("button_text", "Button text"),
				urlField("button_url", "Button URL"),
				enum("background_color", "Background", "primary", "primary", "dark", "light", "white"),
			},
		},
		{
			Type:     TypeTestimonials,
			Label:    "Testimonials (carousel)",
			Carousel: true,
			Fields: []Field{
				shortText("headline", "Headline"),
				list("items", "Testimonials",
					longText("quote", "Quote"),
					Field{Name: "author", Kind: KindPlainText, Label: "Author"},
					urlField("image_url", "Photo"),
				),
				columns(3),
			},
		},
		{
			Type:  TypeFAQ,
			Label: "FAQ",
			Fields: []Field{
				shortText("headline", "Headline"),
				list("items", "Questions",
					shortText("question", "Question"),
					longText("answer", "Answer"),
				),
			},
		},
		{
			Type:  TypeGallery,
			Label: "Gallery",
			Fields: []Field{
				shortText("headline", "Headline"),
				list("images", "Images",
					urlField("image_url", "Image"),
					shortText("title", "Caption"),
				),
			},
		},
		{
			Type:  TypeCustomHTML,
			Label: "Custom HTML",
			Fields: []Field{
				htmlField("html_content", "HTML"),
			},
		},
		{
			Type:     TypePromoGrid,
			Label:    "Promo grid (carousel)",
			Carousel: true,
			Fields: []Field{
				shortText("headline", "Headline"),
				longText("subheadline", "Subheadline"),
				list("items", "Cards",
					iconField(),
					urlField("image_url", "Image"),
					shortText("title", "Title"),
					longText("description", "Description"),
					urlField("url", "Link"),
				),
				columns(3),
			},
		},
	}
}
