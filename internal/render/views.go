package render

import "github.com/goliatone/go-sitecms/internal/viewstate"

// Headline is a resolved heading. When a highlight substring was found the
// text is split around it and Color carries the caller's color key.
type Headline struct {
	Text      string `json:"text"`
	Before    string `json:"before,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	After     string `json:"after,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Highlighted reports whether the headline carries a highlighted span.
func (h Headline) Highlighted() bool {
	return h.Highlight != ""
}

type Button struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Carousel describes the paging window of a carousel section. Paging itself
// lives in viewstate.
type Carousel struct {
	Columns      int `json:"columns"`
	VisibleCount int `json:"visible_count"`
	Total        int `json:"total"`
}

// State returns the initial ephemeral paging state for the window.
func (c Carousel) State() viewstate.Carousel {
	return viewstate.NewCarousel(c.Total, c.Columns)
}

type HeroView struct {
	Headline        *Headline `json:"headline,omitempty"`
	Subheadline     string    `json:"subheadline,omitempty"`
	Body            string    `json:"body,omitempty"`
	Button          *Button   `json:"button,omitempty"`
	Image           *Image    `json:"image,omitempty"`
	BackgroundColor string    `json:"background_color"`
}

// ContentView renders HTML when present, otherwise the plain body.
type ContentView struct {
	Headline      string `json:"headline,omitempty"`
	Body          string `json:"body,omitempty"`
	HTML          string `json:"html,omitempty"`
	Image         *Image `json:"image,omitempty"`
	ImagePosition string `json:"image_position"`
}

type FeatureView struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type FeaturesListView struct {
	Headline    string        `json:"headline,omitempty"`
	Subheadline string        `json:"subheadline,omitempty"`
	Items       []FeatureView `json:"items"`
	Image       *Image        `json:"image,omitempty"`
	Columns     int           `json:"columns"`
	Layout      string        `json:"layout"`
}

type BenefitView struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Image       *Image `json:"image,omitempty"`
	ImageSize   string `json:"image_size"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type BenefitsView struct {
	Headline    string        `json:"headline,omitempty"`
	Subheadline string        `json:"subheadline,omitempty"`
	Items       []BenefitView `json:"items"`
	Carousel    Carousel      `json:"carousel"`
}

type CTAView struct {
	Headline        *Headline `json:"headline,omitempty"`
	Body            string    `json:"body,omitempty"`
	Button          *Button   `json:"button,omitempty"`
	BackgroundColor string    `json:"background_color"`
}

type TestimonialView struct {
	ID     string `json:"id"`
	Quote  string `json:"quote,omitempty"`
	Author string `json:"author,omitempty"`
	Image  *Image `json:"image,omitempty"`
}

type TestimonialsView struct {
	Headline string            `json:"headline,omitempty"`
	Items    []TestimonialView `json:"items"`
	Carousel Carousel          `json:"carousel"`
}

type FAQEntryView struct {
	ID       string `json:"id"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

type FAQView struct {
	Headline string         `json:"headline,omitempty"`
	Items    []FAQEntryView `json:"items"`
}

type GalleryImageView struct {
	ID    string `json:"id"`
	Image Image  `json:"image"`
	Title string `json:"title,omitempty"`
}

type GalleryView struct {
	Headline string             `json:"headline,omitempty"`
	Images   []GalleryImageView `json:"images"`
}

type CustomHTMLView struct {
	HTML string `json:"html"`
}

type PromoItemView struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Image       *Image `json:"image,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

type PromoGridView struct {
	Headline    string          `json:"headline,omitempty"`
	Subheadline string          `json:"subheadline,omitempty"`
	Items       []PromoItemView `json:"items"`
	Carousel    Carousel        `json:"carousel"`
}
