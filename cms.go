// Package cms is the public entry point of the marketing site CMS: localized
// pages built from typed sections, navigation menus, and the editors that
// change them.
package cms

import (
	"context"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/render"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// PageService exports the pages service contract.
type PageService = pages.Service

// MenuService exports the menus service contract.
type MenuService = menus.Service

// MediaService exports the image upload contract.
type MediaService = media.Service

type (
	Text       = i18n.Text
	Page       = pages.Page
	Section    = sections.Section
	Registry   = sections.Registry
	Menu       = menus.Menu
	MenuItem   = menus.MenuItem
	Navigation = menus.Navigation
	PageView   = render.PageView
	Session    = permissions.Session

	PageEditor = editor.PageEditor
	MenuEditor = editor.MenuEditor
)

// Option overrides a dependency of the module.
type Option = di.Option

var (
	WithBunDB          = di.WithBunDB
	WithCache          = di.WithCache
	WithLoggerProvider = di.WithLoggerProvider
	WithActivitySink   = di.WithActivitySink
	WithMediaStore     = di.WithMediaStore
	WithRegistry       = di.WithRegistry
	WithURLResolver    = di.WithURLResolver
)

// Module represents the top level CMS runtime.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg. Close releases the storage it opened.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Pages() PageService {
	return m.container.PageService()
}

func (m *Module) Menus() MenuService {
	return m.container.MenuService()
}

func (m *Module) Media() MediaService {
	return m.container.MediaService()
}

func (m *Module) Registry() *Registry {
	return m.container.Registry()
}

// Markdown returns the markdown service when configured.
func (m *Module) Markdown() interfaces.MarkdownService {
	return m.container.MarkdownService()
}

// Render builds the public view of the page with slug in lang. Missing or
// unpublished pages and load failures yield the fallback view.
func (m *Module) Render(ctx context.Context, slug, lang string) PageView {
	c := m.container
	if lang = strings.TrimSpace(lang); lang == "" {
		lang = c.Config.DefaultLocale
	}
	page, err := c.PageService().GetBySlug(ctx, slug)
	if err != nil || !page.Published {
		return render.Fallback(slug, i18n.NewText(c.Config.DefaultLocale, slug), lang, c.Catalog())
	}
	view := render.RenderPage(page, lang,
		render.WithRegistry(c.Registry()),
		render.WithHighlightColor(c.Config.Render.HighlightColor),
	)
	if len(view.Sections) == 0 {
		return render.Fallback(page.Slug, page.Title, lang, c.Catalog())
	}
	return view
}

// Navigation resolves the named menu for lang.
func (m *Module) Navigation(ctx context.Context, name, lang string) Navigation {
	return m.container.MenuService().Navigation(ctx, name, lang)
}

// NewPageEditor opens an in-process page editor acting as session.
func (m *Module) NewPageEditor(session Session, lang string) (*PageEditor, error) {
	return editor.NewPageEditor(m.container.ServiceBackend(session), m.container.EditorOptions(lang)...)
}

// NewMenuEditor opens an in-process menu editor acting as session.
func (m *Module) NewMenuEditor(session Session, lang string) (*MenuEditor, error) {
	return editor.NewMenuEditor(m.container.ServiceBackend(session), m.container.EditorOptions(lang)...)
}

// Handler returns the REST API router.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Start runs the configured startup tasks such as seeding.
func (m *Module) Start(ctx context.Context) error {
	return m.container.Start(ctx)
}

func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
