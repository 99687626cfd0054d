package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-sitecms/internal/auth"
	markdowncmd "github.com/goliatone/go-sitecms/internal/commands/markdown"
	seedcmd "github.com/goliatone/go-sitecms/internal/commands/seed"
	"github.com/goliatone/go-sitecms/internal/editor"
	httpapi "github.com/goliatone/go-sitecms/internal/http"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/logging/console"
	"github.com/goliatone/go-sitecms/internal/logging/gologger"
	"github.com/goliatone/go-sitecms/internal/markdown"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/render"
	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/activity/usersink"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/storage"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const activityChannel = "sitecms"

// Container wires the site CMS services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	registry     *sections.Registry
	catalog      *i18n.Catalog
	activitySink interfaces.ActivitySink
	emitter      *activity.Emitter

	pageRepo        pages.PageRepository
	menuRepo        menus.MenuRepository
	menuURLResolver menus.URLResolver
	routeManager    *urlkit.RouteManager
	mediaStore      interfaces.MediaStore

	pageSvc     pages.Service
	menuSvc     menus.Service
	mediaSvc    media.Service
	markdownSvc interfaces.MarkdownService
	authManager *auth.Manager

	seedHandler     *seedcmd.Handler
	markdownHandler *markdowncmd.ImportDirectoryHandler
	subscriptions   []CommandSubscription

	api *httpapi.API
}

// Option mutates the container before services are built.
type Option func(*Container)

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB injects a database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

func WithRegistry(registry *sections.Registry) Option {
	return func(c *Container) {
		if registry != nil {
			c.registry = registry
		}
	}
}

func WithMediaStore(store interfaces.MediaStore) Option {
	return func(c *Container) {
		c.mediaStore = store
	}
}

// WithActivitySink sends page and menu activity to sink instead of the log.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

func WithURLResolver(resolver menus.URLResolver) Option {
	return func(c *Container) {
		c.menuURLResolver = resolver
	}
}

func WithPageService(svc pages.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

func WithMenuService(svc menus.Service) Option {
	return func(c *Container) {
		c.menuSvc = svc
	}
}

// NewContainer validates cfg and builds every service. Storage is opened
// here; call Close to release it.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLogging,
		c.configureCatalog,
		c.configureStorage,
		c.configureCacheDefaults,
		c.configureRepositories,
		c.configureNavigation,
		c.configureActivity,
		c.configureServices,
		c.configureAuth,
		c.configureCommands,
		c.configureAPI,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	c.logger.Info("container.ready",
		"storage", c.storageName(),
		"cache", c.cacheService != nil,
		"auth", c.authManager != nil,
		"markdown", c.markdownSvc != nil,
	)
	return c, nil
}

func (c *Container) configureLogging(context.Context) error {
	if c.loggerProvider == nil {
		cfg := c.Config.Logging
		switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     cfg.Level,
				Format:    cfg.Format,
				AddSource: cfg.AddSource,
				Focus:     cfg.Focus,
			})
			if err != nil {
				return fmt.Errorf("di: logger provider: %w", err)
			}
			c.loggerProvider = provider
		default:
			level := console.ParseLevel(cfg.Level)
			c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "di")
	return nil
}

func (c *Container) configureCatalog(ctx context.Context) error {
	if c.registry == nil {
		c.registry = sections.Default()
	}
	path := strings.TrimSpace(c.Config.I18N.FixturePath)
	if path == "" {
		catalog, err := i18n.DefaultCatalog()
		if err != nil {
			return fmt.Errorf("di: catalog: %w", err)
		}
		c.catalog = catalog
		return nil
	}
	fixture, err := i18n.LoadOverlay(ctx, path)
	if err != nil {
		return fmt.Errorf("di: load catalog %s: %w", path, err)
	}
	catalog, err := i18n.NewCatalogFromFixture(fixture)
	if err != nil {
		return fmt.Errorf("di: catalog %s: %w", path, err)
	}
	c.catalog = catalog
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil {
		cfg := c.Config.Storage
		if strings.EqualFold(strings.TrimSpace(cfg.Provider), runtimeconfig.StorageMemory) {
			return nil
		}
		db, err := storage.Open(ctx, storage.Config{Provider: cfg.Provider, DSN: cfg.DSN})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := storage.EnsureSchema(ctx, c.bunDB); err != nil {
		return err
	}
	return nil
}

func (c *Container) configureCacheDefaults(context.Context) error {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("di.cache.disabled", "error", err)
			return nil
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories(context.Context) error {
	if c.bunDB != nil {
		c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.menuRepo = menus.NewBunMenuRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return nil
	}
	c.pageRepo = pages.NewMemoryPageRepository()
	c.menuRepo = menus.NewMemoryMenuRepository()
	return nil
}

func (c *Container) configureNavigation(context.Context) error {
	if c.menuURLResolver != nil {
		return nil
	}
	navCfg := c.Config.Navigation
	if navCfg.RouteConfig == nil {
		c.menuURLResolver = menus.PathResolver{}
		return nil
	}
	c.routeManager = urlkit.NewRouteManager(navCfg.RouteConfig)
	c.menuURLResolver = menus.NewURLKitResolver(menus.URLKitResolverOptions{
		Manager:      c.routeManager,
		DefaultGroup: strings.TrimSpace(navCfg.URLKit.DefaultGroup),
		LocaleGroups: navCfg.URLKit.LocaleGroups,
		Route:        strings.TrimSpace(navCfg.URLKit.DefaultRoute),
		SlugParam:    strings.TrimSpace(navCfg.URLKit.SlugParam),
		LocaleParam:  strings.TrimSpace(navCfg.URLKit.LocaleParam),
	})
	return nil
}

func (c *Container) configureActivity(context.Context) error {
	sink := c.activitySink
	if sink == nil {
		sink = usersink.LogSink{Logger: logging.ModuleLogger(c.loggerProvider, "activity")}
	}
	c.emitter = activity.NewEmitter(activity.Hooks{usersink.Hook{Sink: sink}}, activity.Config{
		Enabled: true,
		Channel: activityChannel,
	})
	return nil
}

func (c *Container) configureServices(context.Context) error {
	var err error
	if c.pageSvc == nil {
		c.pageSvc, err = pages.NewService(c.pageRepo,
			pages.WithRegistry(c.registry),
			pages.WithActivityEmitter(c.emitter),
			pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		)
		if err != nil {
			return fmt.Errorf("di: page service: %w", err)
		}
	}
	if c.menuSvc == nil {
		c.menuSvc, err = menus.NewService(c.menuRepo,
			menus.WithNames(c.Config.Navigation.Menus...),
			menus.WithURLResolver(c.menuURLResolver),
			menus.WithCatalog(c.catalog),
			menus.WithActivityEmitter(c.emitter),
			menus.WithLogger(logging.MenusLogger(c.loggerProvider)),
		)
		if err != nil {
			return fmt.Errorf("di: menu service: %w", err)
		}
	}

	mediaCfg := c.Config.Media
	if c.mediaStore == nil {
		c.mediaStore = media.NewFSStore(mediaCfg.Dir, mediaCfg.BaseURL)
	}
	c.mediaSvc, err = media.NewService(c.mediaStore,
		media.WithMaxSize(mediaCfg.MaxSize),
		media.WithMaxWidth(mediaCfg.MaxWidth),
		media.WithLogger(logging.MediaLogger(c.loggerProvider)),
	)
	if err != nil {
		return fmt.Errorf("di: media service: %w", err)
	}

	mdCfg := c.Config.Markdown
	if mdCfg.Enabled {
		svc, err := markdown.NewService(markdown.Config{
			BasePath:      mdCfg.ContentDir,
			DefaultLocale: c.Config.DefaultLocale,
			Pattern:       mdCfg.Pattern,
			Recursive:     mdCfg.Recursive,
			Parser: markdown.ParseOptions{
				Extensions: mdCfg.Parser.Extensions,
				HardWraps:  mdCfg.Parser.HardWraps,
			},
		}, c.pageSvc, c.registry, logging.MarkdownLogger(c.loggerProvider))
		if err != nil {
			return fmt.Errorf("di: markdown service: %w", err)
		}
		c.markdownSvc = svc
	}
	return nil
}

func (c *Container) configureAuth(context.Context) error {
	cfg := c.Config.Auth
	if strings.TrimSpace(cfg.Secret) == "" {
		c.logger.Warn("di.auth.disabled", "reason", "no session secret; writes are rejected")
		return nil
	}
	manager, err := auth.NewManager(auth.Config{
		Secret:     cfg.Secret,
		CookieName: cfg.CookieName,
		MaxAge:     int(cfg.MaxAge / time.Second),
		Secure:     cfg.Secure,
		Accounts: []auth.Account{{
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
			Admin:        true,
		}},
	}, auth.WithLogger(logging.ModuleLogger(c.loggerProvider, "auth")))
	if err != nil {
		return fmt.Errorf("di: auth: %w", err)
	}
	c.authManager = manager
	return nil
}

func (c *Container) configureAPI(context.Context) error {
	opts := []httpapi.Option{
		httpapi.WithBasePath(c.Config.HTTP.BasePath),
		httpapi.WithPageService(c.pageSvc),
		httpapi.WithMenuService(c.menuSvc),
		httpapi.WithMediaService(c.mediaSvc),
		httpapi.WithRegistry(c.registry),
		httpapi.WithCatalog(c.catalog),
		httpapi.WithSeedHandler(c.seedHandler),
		httpapi.WithRenderOptions(
			render.WithRegistry(c.registry),
			render.WithHighlightColor(c.Config.Render.HighlightColor),
		),
		httpapi.WithMaxUploadSize(c.Config.Media.MaxSize),
		httpapi.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	if c.authManager != nil {
		opts = append(opts, httpapi.WithAuth(c.authManager))
	}
	if c.bunDB != nil {
		opts = append(opts, httpapi.WithHealthCheck(storage.Ping(c.bunDB)))
	}
	c.api = httpapi.NewAPI(opts...)
	return nil
}

// Handler builds the HTTP router serving the REST API.
func (c *Container) Handler() (http.Handler, error) {
	return httpapi.NewRouter(c.api, httpapi.RouterConfig{
		Timeout: c.Config.HTTP.Timeout,
		Quiet:   c.Config.HTTP.Quiet,
	})
}

// Start runs the startup tasks enabled in the configuration.
func (c *Container) Start(ctx context.Context) error {
	if !c.Config.Seed.OnStart {
		return nil
	}
	result := &seedcmd.Result{}
	if err := c.seedHandler.Execute(ctx, seedcmd.SeedPagesMenusCommand{Actor: uuid.Nil, Result: result}); err != nil {
		return fmt.Errorf("di: seed on start: %w", err)
	}
	c.logger.Info("container.seeded", "pages_created", result.PagesCreated, "menus_created", result.MenusCreated)
	return nil
}

// EditorOptions returns the editor options matching the configuration. The
// uploader is the in-process media service.
func (c *Container) EditorOptions(lang string) []editor.Option {
	if strings.TrimSpace(lang) == "" {
		lang = c.Config.DefaultLocale
	}
	return []editor.Option{
		editor.WithRegistry(c.registry),
		editor.WithUploader(c.mediaSvc),
		editor.WithLogger(logging.EditorLogger(c.loggerProvider)),
		editor.WithConcurrency(c.Config.Editor.Concurrency),
		editor.WithLanguage(lang),
	}
}

// ServiceBackend runs editors in-process on behalf of session.
func (c *Container) ServiceBackend(session permissions.Session) editor.ServiceBackend {
	actor := uuid.Nil
	if session.Authenticated() {
		actor = identity.ActorUUID(session.Subject)
	}
	return editor.ServiceBackend{Pages: c.pageSvc, Menus: c.menuSvc, Actor: actor}
}

// Close releases subscriptions and the database opened by the container.
func (c *Container) Close() error {
	for _, sub := range c.subscriptions {
		sub.Unsubscribe()
	}
	c.subscriptions = nil
	var errs error
	if c.ownsDB && c.bunDB != nil {
		errs = errors.Join(errs, c.bunDB.Close())
		c.bunDB = nil
	}
	return errs
}

func (c *Container) storageName() string {
	if c.bunDB == nil {
		return runtimeconfig.StorageMemory
	}
	return c.bunDB.Dialect().Name().String()
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) DB() *bun.DB { return c.bunDB }

func (c *Container) CacheService() repocache.CacheService { return c.cacheService }

func (c *Container) Registry() *sections.Registry { return c.registry }

func (c *Container) Catalog() *i18n.Catalog { return c.catalog }

func (c *Container) RouteManager() *urlkit.RouteManager { return c.routeManager }

func (c *Container) URLResolver() menus.URLResolver { return c.menuURLResolver }

func (c *Container) PageService() pages.Service { return c.pageSvc }

func (c *Container) MenuService() menus.Service { return c.menuSvc }

func (c *Container) MediaService() media.Service { return c.mediaSvc }

// MarkdownService is nil unless Markdown import is enabled.
func (c *Container) MarkdownService() interfaces.MarkdownService { return c.markdownSvc }

// AuthManager is nil when no session secret is configured.
func (c *Container) AuthManager() *auth.Manager { return c.authManager }

func (c *Container) API() *httpapi.API { return c.api }
