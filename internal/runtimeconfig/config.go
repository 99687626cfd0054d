package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrDefaultLocaleRequired = errors.New("cms config: default locale is required")
var ErrDefaultLocaleNotListed = errors.New("cms config: default locale must be one of the configured locales")
var ErrStorageProviderUnknown = errors.New("cms config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("cms config: storage dsn is required for sql providers")
var ErrCacheTTLInvalid = errors.New("cms config: cache ttl must be positive when cache is enabled")
var ErrMenuNamesRequired = errors.New("cms config: at least one menu name is required")
var ErrEditorConcurrencyInvalid = errors.New("cms config: editor concurrency must be optimistic or last_write_wins")
var ErrMediaDirRequired = errors.New("cms config: media directory is required")
var ErrMediaLimitInvalid = errors.New("cms config: media size and width limits must be positive")
var ErrAuthSecretTooShort = errors.New("cms config: auth session secret must be at least 32 bytes")
var ErrAuthPasswordRequired = errors.New("cms config: admin password hash is required when an admin username is set")
var ErrMarkdownContentDirRequired = errors.New("cms config: markdown content directory is required when markdown is enabled")
var ErrLoggingProviderRequired = errors.New("cms config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("cms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("cms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("cms config: logging format is invalid")

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config aggregates the settings of the site CMS. Fields use simple types so
// the binary can fill them from flags and environment variables.
type Config struct {
	DefaultLocale string
	I18N          I18NConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Navigation    NavigationConfig
	Render        RenderConfig
	Media         MediaConfig
	Editor        EditorConfig
	Auth          AuthConfig
	HTTP          HTTPConfig
	Markdown      MarkdownConfig
	Seed          SeedConfig
	Commands      CommandsConfig
	Logging       LoggingConfig
}

// I18NConfig lists the content locales. FixturePath optionally overrides the
// embedded UI string catalog.
type I18NConfig struct {
	Locales     []string
	FixturePath string
}

type StorageConfig struct {
	Provider string
	DSN      string
}

type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// NavigationConfig names the menus and how page_slug items become URLs.
type NavigationConfig struct {
	Menus       []string
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	DefaultGroup string
	LocaleGroups map[string]string
	DefaultRoute string
	SlugParam    string
	LocaleParam  string
}

type RenderConfig struct {
	HighlightColor string
}

type MediaConfig struct {
	Dir      string
	BaseURL  string
	MaxSize  int64
	MaxWidth int
}

type EditorConfig struct {
	Concurrency string
}

// AuthConfig configures the cookie session. AdminPasswordHash is a bcrypt
// hash; the binary derives it from a plain password when needed.
type AuthConfig struct {
	Secret            string
	CookieName        string
	MaxAge            time.Duration
	Secure            bool
	AdminUsername     string
	AdminPasswordHash string
}

type HTTPConfig struct {
	Addr     string
	BasePath string
	Timeout  time.Duration
	Quiet    bool
}

// MarkdownConfig captures filesystem and parser behaviour for Markdown ingestion.
type MarkdownConfig struct {
	Enabled        bool
	ContentDir     string
	Pattern        string
	Recursive      bool
	UpdateExisting bool
	Parser         MarkdownParserConfig
}

type MarkdownParserConfig struct {
	Extensions []string
	HardWraps  bool
}

// SeedConfig seeds the system pages and menus at startup.
type SeedConfig struct {
	OnStart bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	AutoRegisterDispatcher bool
	MaxRetries             int
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns defaults for a single-node site backed by memory.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		I18N: I18NConfig{
			Locales: []string{"en", "hr", "de"},
		},
		Storage: StorageConfig{
			Provider: StorageMemory,
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Navigation: NavigationConfig{
			Menus: []string{"header", "footer", "mobile"},
		},
		Media: MediaConfig{
			Dir:      "uploads",
			BaseURL:  "/api/media",
			MaxSize:  10 << 20,
			MaxWidth: 1920,
		},
		Editor: EditorConfig{
			Concurrency: "optimistic",
		},
		Auth: AuthConfig{
			CookieName: "sitecms_session",
			MaxAge:     12 * time.Hour,
		},
		HTTP: HTTPConfig{
			Addr:     ":8001",
			BasePath: "/api",
			Timeout:  60 * time.Second,
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
		},
		Commands: CommandsConfig{
			AutoRegisterDispatcher: true,
			MaxRetries:             1,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	locale := strings.TrimSpace(cfg.DefaultLocale)
	if locale == "" {
		return ErrDefaultLocaleRequired
	}
	if len(cfg.I18N.Locales) > 0 && !contains(cfg.I18N.Locales, locale) {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleNotListed, locale)
	}

	switch normalize(cfg.Storage.Provider) {
	case StorageMemory, "":
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, cfg.Storage.Provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if len(cfg.Navigation.Menus) == 0 {
		return ErrMenuNamesRequired
	}

	switch normalize(cfg.Editor.Concurrency) {
	case "", "optimistic", "last_write_wins":
	default:
		return fmt.Errorf("%w: %s", ErrEditorConcurrencyInvalid, cfg.Editor.Concurrency)
	}

	if strings.TrimSpace(cfg.Media.Dir) == "" {
		return ErrMediaDirRequired
	}
	if cfg.Media.MaxSize <= 0 || cfg.Media.MaxWidth <= 0 {
		return ErrMediaLimitInvalid
	}

	if cfg.Auth.Secret != "" && len(cfg.Auth.Secret) < 32 {
		return ErrAuthSecretTooShort
	}
	if strings.TrimSpace(cfg.Auth.AdminUsername) != "" && strings.TrimSpace(cfg.Auth.AdminPasswordHash) == "" {
		return ErrAuthPasswordRequired
	}

	if cfg.Markdown.Enabled && strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if normalize(value) == normalize(target) {
			return true
		}
	}
	return false
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
