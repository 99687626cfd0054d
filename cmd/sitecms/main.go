package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	cms "github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/internal/auth"
	markdowncmd "github.com/goliatone/go-sitecms/internal/commands/markdown"
	seedcmd "github.com/goliatone/go-sitecms/internal/commands/seed"
)

const usage = `usage: sitecms <command> [flags]

commands:
  serve          run the REST API
  seed           create the system pages and default menus
  import         import a Markdown directory as pages
  hash-password  print the bcrypt hash of a password

Every flag can also be set through a SITECMS_* environment variable,
for example -storage-dsn through SITECMS_STORAGE_DSN.`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout); err != nil {
		log.Fatalf("sitecms: %v", err)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stdout, usage)
		return errors.New("command is required")
	}
	switch args[0] {
	case "serve":
		return runServe(ctx, args[1:], getenv)
	case "seed":
		return runSeed(ctx, args[1:], getenv, stdout)
	case "import":
		return runImport(ctx, args[1:], getenv, stdout)
	case "hash-password":
		return runHashPassword(args[1:], stdout)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runServe(ctx context.Context, args []string, getenv func(string) string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	settings := bindSettings(fs, getenv)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := settings.config()
	if err != nil {
		return err
	}

	module, err := cms.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()
	if err := module.Start(ctx); err != nil {
		return err
	}
	handler, err := module.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		log.Printf("sitecms: listening on %s%s", cfg.HTTP.Addr, cfg.HTTP.BasePath)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func runSeed(ctx context.Context, args []string, getenv func(string) string, stdout io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	settings := bindSettings(fs, getenv)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := settings.config()
	if err != nil {
		return err
	}
	cfg.Seed.OnStart = false

	module, err := cms.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	result := &seedcmd.Result{}
	if err := module.Container().SeedHandler().Execute(ctx, seedcmd.SeedPagesMenusCommand{Result: result}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "seeded %d pages and %d menus\n", result.PagesCreated, result.MenusCreated)
	return nil
}

func runImport(ctx context.Context, args []string, getenv func(string) string, stdout io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	settings := bindSettings(fs, getenv)
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	update := fs.Bool("update-existing", envBool(getenv, "SITECMS_MARKDOWN_UPDATE_EXISTING", false), "Replace the imported section of existing pages")
	dryRun := fs.Bool("dry-run", false, "Report changes without writing pages")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := settings.config()
	if err != nil {
		return err
	}
	cfg.Markdown.Enabled = true

	module, err := cms.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	handler := module.Container().MarkdownHandler()
	if handler == nil {
		return errors.New("markdown import is not configured")
	}
	if err := handler.Execute(ctx, markdowncmd.ImportDirectoryCommand{
		Directory:      *directory,
		UpdateExisting: *update,
		DryRun:         *dryRun,
	}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "imported %s from %s\n", *directory, cfg.Markdown.ContentDir)
	return nil
}

func runHashPassword(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("hash-password takes exactly one password")
	}
	hash, err := auth.HashPassword(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, hash)
	return nil
}

// settings holds the flag values shared by every command. Defaults come from
// SITECMS_* variables, then from cms.DefaultConfig.
type settings struct {
	defaultLocale *string
	locales       *string
	storage       *string
	dsn           *string
	cache         *bool
	cacheTTL      *time.Duration
	menus         *string
	mediaDir      *string
	mediaBaseURL  *string
	maxUpload     *int64
	concurrency   *string
	secret        *string
	adminUser     *string
	adminPassword *string
	adminHash     *string
	secureCookie  *bool
	addr          *string
	basePath      *string
	quiet         *bool
	contentDir    *string
	seed          *bool
	logProvider   *string
	logLevel      *string
	logFormat     *string
}

func bindSettings(fs *flag.FlagSet, getenv func(string) string) *settings {
	def := cms.DefaultConfig()
	str := func(name, env, fallback, help string) *string {
		return fs.String(name, envString(getenv, env, fallback), help)
	}
	return &settings{
		defaultLocale: str("default-locale", "SITECMS_DEFAULT_LOCALE", def.DefaultLocale, "Default content language"),
		locales:       str("locales", "SITECMS_LOCALES", strings.Join(def.I18N.Locales, ","), "Comma separated content languages"),
		storage:       str("storage", "SITECMS_STORAGE", def.Storage.Provider, "Storage provider: memory, sqlite or postgres"),
		dsn:           str("storage-dsn", "SITECMS_STORAGE_DSN", def.Storage.DSN, "Database connection string"),
		cache:         fs.Bool("cache", envBool(getenv, "SITECMS_CACHE", def.Cache.Enabled), "Cache repository reads"),
		cacheTTL:      fs.Duration("cache-ttl", envDuration(getenv, "SITECMS_CACHE_TTL", def.Cache.DefaultTTL), "Repository cache TTL"),
		menus:         str("menus", "SITECMS_MENUS", strings.Join(def.Navigation.Menus, ","), "Comma separated menu names"),
		mediaDir:      str("media-dir", "SITECMS_MEDIA_DIR", def.Media.Dir, "Directory holding uploaded images"),
		mediaBaseURL:  str("media-base-url", "SITECMS_MEDIA_BASE_URL", def.Media.BaseURL, "Public URL prefix of uploaded images"),
		maxUpload:     fs.Int64("media-max-size", envInt64(getenv, "SITECMS_MEDIA_MAX_SIZE", def.Media.MaxSize), "Largest accepted upload in bytes"),
		concurrency:   str("editor-concurrency", "SITECMS_EDITOR_CONCURRENCY", def.Editor.Concurrency, "Editor saves: optimistic or last_write_wins"),
		secret:        str("auth-secret", "SITECMS_AUTH_SECRET", def.Auth.Secret, "Session cookie secret, at least 32 bytes"),
		adminUser:     str("admin-user", "SITECMS_ADMIN_USER", def.Auth.AdminUsername, "Admin login name"),
		adminPassword: str("admin-password", "SITECMS_ADMIN_PASSWORD", "", "Admin password, hashed at startup"),
		adminHash:     str("admin-password-hash", "SITECMS_ADMIN_PASSWORD_HASH", def.Auth.AdminPasswordHash, "Admin bcrypt password hash"),
		secureCookie:  fs.Bool("secure-cookie", envBool(getenv, "SITECMS_SECURE_COOKIE", def.Auth.Secure), "Send the session cookie over HTTPS only"),
		addr:          str("addr", "SITECMS_ADDR", def.HTTP.Addr, "Listen address"),
		basePath:      str("base-path", "SITECMS_BASE_PATH", def.HTTP.BasePath, "REST API path prefix"),
		quiet:         fs.Bool("quiet", envBool(getenv, "SITECMS_QUIET", def.HTTP.Quiet), "Disable request logging"),
		contentDir:    str("content-dir", "SITECMS_CONTENT_DIR", def.Markdown.ContentDir, "Markdown content root"),
		seed:          fs.Bool("seed", envBool(getenv, "SITECMS_SEED", def.Seed.OnStart), "Seed system pages and menus at startup"),
		logProvider:   str("log-provider", "SITECMS_LOG_PROVIDER", def.Logging.Provider, "Logger: console or gologger"),
		logLevel:      str("log-level", "SITECMS_LOG_LEVEL", def.Logging.Level, "Minimum log level"),
		logFormat:     str("log-format", "SITECMS_LOG_FORMAT", def.Logging.Format, "gologger output format"),
	}
}

func (s *settings) config() (cms.Config, error) {
	cfg := cms.DefaultConfig()
	cfg.DefaultLocale = strings.TrimSpace(*s.defaultLocale)
	cfg.I18N.Locales = splitList(*s.locales)
	cfg.Storage.Provider = strings.TrimSpace(*s.storage)
	cfg.Storage.DSN = strings.TrimSpace(*s.dsn)
	cfg.Cache.Enabled = *s.cache
	cfg.Cache.DefaultTTL = *s.cacheTTL
	cfg.Navigation.Menus = splitList(*s.menus)
	cfg.Media.Dir = strings.TrimSpace(*s.mediaDir)
	cfg.Media.BaseURL = strings.TrimSpace(*s.mediaBaseURL)
	cfg.Media.MaxSize = *s.maxUpload
	cfg.Editor.Concurrency = strings.TrimSpace(*s.concurrency)
	cfg.Auth.Secret = *s.secret
	cfg.Auth.AdminUsername = strings.TrimSpace(*s.adminUser)
	cfg.Auth.AdminPasswordHash = strings.TrimSpace(*s.adminHash)
	cfg.Auth.Secure = *s.secureCookie
	cfg.HTTP.Addr = strings.TrimSpace(*s.addr)
	cfg.HTTP.BasePath = strings.TrimSpace(*s.basePath)
	cfg.HTTP.Quiet = *s.quiet
	cfg.Markdown.ContentDir = strings.TrimSpace(*s.contentDir)
	cfg.Seed.OnStart = *s.seed
	cfg.Logging.Provider = strings.TrimSpace(*s.logProvider)
	cfg.Logging.Level = strings.TrimSpace(*s.logLevel)
	cfg.Logging.Format = strings.TrimSpace(*s.logFormat)

	if password := *s.adminPassword; password != "" && cfg.Auth.AdminPasswordHash == "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return cfg, fmt.Errorf("hash admin password: %w", err)
		}
		cfg.Auth.AdminPasswordHash = hash
	}
	return cfg, cfg.Validate()
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envString(getenv func(string) string, key, fallback string) string {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBool(getenv func(string) string, key string, fallback bool) bool {
	if parsed, err := strconv.ParseBool(strings.TrimSpace(getenv(key))); err == nil {
		return parsed
	}
	return fallback
}

func envInt64(getenv func(string) string, key string, fallback int64) int64 {
	if parsed, err := strconv.ParseInt(strings.TrimSpace(getenv(key)), 10, 64); err == nil {
		return parsed
	}
	return fallback
}

func envDuration(getenv func(string) string, key string, fallback time.Duration) time.Duration {
	if parsed, err := time.ParseDuration(strings.TrimSpace(getenv(key))); err == nil {
		return parsed
	}
	return fallback
}
