package markdown

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// HTMLField receives the rendered body of every imported page.
const HTMLField = "html_content"

var ErrUnsupportedSectionType = errors.New("markdown: section type has no html_content field")

// Importer turns parsed documents into pages.
type Importer struct {
	pages    pages.Service
	parser   interfaces.MarkdownParser
	registry *sections.Registry
	logger   interfaces.Logger
}

type ImporterOption func(*Importer)

func WithParser(parser interfaces.MarkdownParser) ImporterOption {
	return func(i *Importer) {
		if parser != nil {
			i.parser = parser
		}
	}
}

func WithRegistry(registry *sections.Registry) ImporterOption {
	return func(i *Importer) {
		if registry != nil {
			i.registry = registry
		}
	}
}

func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func NewImporter(service pages.Service, opts ...ImporterOption) *Importer {
	i := &Importer{
		pages:    service,
		parser:   NewGoldmarkParser(ParseOptions{}),
		registry: sections.Default(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// pageDraft collects every language of one slug.
type pageDraft struct {
	slug        string
	sectionType string
	title       i18n.Text
	meta        i18n.Text
	html        i18n.Text
	published   bool
	paths       []string
}

// Import writes docs grouped by slug. A page that already exists is only
// touched when opts.UpdateExisting is set; then its imported section is
// replaced in place and other sections are kept.
func (i *Importer) Import(ctx context.Context, docs []*interfaces.Document, opts interfaces.MarkdownImportOptions) (*interfaces.MarkdownImportResult, error) {
	result := &interfaces.MarkdownImportResult{}
	drafts, errs := i.group(docs)
	result.Errors = append(result.Errors, errs...)

	for _, draft := range drafts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := logging.WithImportContext(i.logger, draft.paths[0], draft.slug, "")
		outcome, err := i.apply(ctx, draft, opts)
		if err != nil {
			logger.Warn("markdown.import.failed", "error", err)
			for _, p := range draft.paths {
				result.Errors = append(result.Errors, interfaces.MarkdownImportError{Path: p, Err: err})
			}
			continue
		}
		switch outcome {
		case outcomeCreated:
			result.Created = append(result.Created, draft.slug)
		case outcomeUpdated:
			result.Updated = append(result.Updated, draft.slug)
		default:
			result.Skipped = append(result.Skipped, draft.slug)
		}
		logger.Debug("markdown.import.page", "outcome", string(outcome), "dry_run", opts.DryRun)
	}
	i.logger.Info("markdown.import.completed",
		"created", len(result.Created), "updated", len(result.Updated),
		"skipped", len(result.Skipped), "errors", len(result.Errors), "dry_run", opts.DryRun)
	return result, nil
}

func (i *Importer) group(docs []*interfaces.Document) ([]*pageDraft, []interfaces.MarkdownImportError) {
	bySlug := map[string]*pageDraft{}
	var errs []interfaces.MarkdownImportError
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		html, err := i.parser.Parse(doc.Body)
		if err != nil {
			errs = append(errs, interfaces.MarkdownImportError{Path: doc.FilePath, Err: err})
			continue
		}
		doc.BodyHTML = html
		meta := doc.FrontMatter
		draft, ok := bySlug[meta.Slug]
		if !ok {
			draft = &pageDraft{slug: meta.Slug, sectionType: sections.TypeContent}
			bySlug[meta.Slug] = draft
		}
		if meta.SectionType != "" {
			draft.sectionType = meta.SectionType
		}
		setAll(&draft.title, meta.Title)
		setAll(&draft.meta, meta.MetaDescription)
		draft.html.Set(doc.Locale, string(html))
		draft.published = draft.published || meta.Published
		draft.paths = append(draft.paths, doc.FilePath)
	}

	out := make([]*pageDraft, 0, len(bySlug))
	for _, draft := range bySlug {
		out = append(out, draft)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].slug < out[b].slug })
	return out, errs
}

func setAll(text *i18n.Text, values map[string]string) {
	langs := make([]string, 0, len(values))
	for lang := range values {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		text.Set(lang, values[lang])
	}
}

type outcome string

const (
	outcomeCreated outcome = "created"
	outcomeUpdated outcome = "updated"
	outcomeSkipped outcome = "skipped"
)

func (i *Importer) apply(ctx context.Context, draft *pageDraft, opts interfaces.MarkdownImportOptions) (outcome, error) {
	section, err := i.section(draft)
	if err != nil {
		return "", err
	}

	existing, err := i.pages.GetBySlug(ctx, draft.slug)
	if err != nil && !errors.Is(err, pages.ErrPageNotFound) {
		return "", err
	}
	if existing == nil {
		if opts.DryRun {
			return outcomeCreated, nil
		}
		_, err := i.pages.Create(ctx, pages.CreatePageRequest{
			Slug:            draft.slug,
			Title:           draft.title,
			MetaDescription: draft.meta,
			Sections:        []sections.Section{section},
			Published:       draft.published,
			Actor:           opts.Actor,
		})
		if err != nil {
			return "", err
		}
		return outcomeCreated, nil
	}

	if !opts.UpdateExisting {
		return outcomeSkipped, nil
	}
	if opts.DryRun {
		return outcomeUpdated, nil
	}
	list := existing.OrderedSections()
	replaced := false
	for idx := range list {
		if list[idx].ID == section.ID {
			section.Order = list[idx].Order
			section.Visible = list[idx].Visible
			list[idx] = section
			replaced = true
		}
	}
	if !replaced {
		section.Order = len(list)
		list = append(list, section)
	}
	title := existing.Title.Clone()
	for _, lang := range draft.title.Langs() {
		value, _ := draft.title.Get(lang)
		title.Set(lang, value)
	}
	meta := existing.MetaDescription.Clone()
	for _, lang := range draft.meta.Langs() {
		value, _ := draft.meta.Get(lang)
		meta.Set(lang, value)
	}
	published := existing.Published || draft.published
	_, err = i.pages.Update(ctx, pages.UpdatePageRequest{
		ID:              existing.ID,
		Title:           &title,
		MetaDescription: &meta,
		Sections:        &list,
		Published:       &published,
		Actor:           opts.Actor,
	})
	if err != nil {
		return "", err
	}
	return outcomeUpdated, nil
}

// section builds the imported section. Its id is derived from the slug so
// re-imports replace it.
func (i *Importer) section(draft *pageDraft) (sections.Section, error) {
	desc, err := i.registry.Describe(draft.sectionType)
	if err != nil {
		return sections.Section{}, err
	}
	if _, ok := desc.Field(HTMLField); !ok {
		return sections.Section{}, fmt.Errorf("%w: %s", ErrUnsupportedSectionType, desc.Type)
	}
	section, err := i.registry.NewSection(desc.Type, 0)
	if err != nil {
		return sections.Section{}, err
	}
	section.ID = identity.SectionID(draft.slug, 0, "markdown")
	section.Content[HTMLField] = draft.html.Clone()
	if _, ok := desc.Field("headline"); ok && !draft.title.IsEmpty() {
		section.Content["headline"] = draft.title.Clone()
	}
	return section, nil
}
