package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitecms/internal/auth"
	seedcmd "github.com/goliatone/go-sitecms/internal/commands/seed"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/render"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// DefaultBasePath is where the API mounts unless configured otherwise.
const DefaultBasePath = "/api"

// HealthCheck reports whether the backing database answers.
type HealthCheck func(ctx context.Context) error

// API registers the CMS endpoints.
type API struct {
	basePath    string
	pages       pages.Service
	menus       menus.Service
	media       media.Service
	registry    *sections.Registry
	catalog     *i18n.Catalog
	auth        *auth.Manager
	seed        command.Commander[seedcmd.SeedPagesMenusCommand]
	health      HealthCheck
	renderOpts  []render.Option
	maxUpload   int64
	defaultLang string
	logger      interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath:    DefaultBasePath,
		registry:    sections.Default(),
		maxUpload:   media.DefaultMaxSize,
		defaultLang: "en",
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithPageService(service pages.Service) Option {
	return func(api *API) {
		api.pages = service
	}
}

func WithMenuService(service menus.Service) Option {
	return func(api *API) {
		api.menus = service
	}
}

func WithMediaService(service media.Service) Option {
	return func(api *API) {
		api.media = service
	}
}

// WithRegistry sets the section registry served to editors and used when
// rendering.
func WithRegistry(registry *sections.Registry) Option {
	return func(api *API) {
		if registry != nil {
			api.registry = registry
		}
	}
}

// WithCatalog sets the string catalog used for fallback page bodies.
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(api *API) {
		api.catalog = catalog
		if catalog != nil {
			api.defaultLang = catalog.DefaultLocale()
		}
	}
}

// WithAuth enables the login endpoints.
func WithAuth(manager *auth.Manager) Option {
	return func(api *API) {
		api.auth = manager
	}
}

// WithSeedHandler wires the seed command.
func WithSeedHandler(handler command.Commander[seedcmd.SeedPagesMenusCommand]) Option {
	return func(api *API) {
		api.seed = handler
	}
}

func WithHealthCheck(check HealthCheck) Option {
	return func(api *API) {
		api.health = check
	}
}

// WithRenderOptions forwards options to the page renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(api *API) {
		api.renderOpts = append(api.renderOpts, opts...)
	}
}

// WithMaxUploadSize caps multipart request bodies.
func WithMaxUploadSize(size int64) Option {
	return func(api *API) {
		if size > 0 {
			api.maxUpload = size
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerSystemRoutes(mux, base)
	api.registerPageRoutes(mux, base)
	api.registerMenuRoutes(mux, base)
	api.registerMediaRoutes(mux, base)
	api.registerAuthRoutes(mux, base)

	return nil
}
