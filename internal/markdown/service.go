package markdown

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

var (
	ErrBasePathRequired = errors.New("markdown: base path is required")
	ErrPagesRequired    = errors.New("markdown: page service is required")
)

// Config controls how Markdown files are discovered and rendered.
type Config struct {
	BasePath      string
	DefaultLocale string
	Pattern       string
	Recursive     bool
	Parser        ParseOptions
}

var _ interfaces.MarkdownService = (*Service)(nil)

// Service loads a directory and imports it through the page service.
type Service struct {
	loader   *Loader
	importer *Importer
	logger   interfaces.Logger
}

// NewService reads from cfg.BasePath on disk.
func NewService(cfg Config, service pages.Service, registry *sections.Registry, logger interfaces.Logger) (*Service, error) {
	if strings.TrimSpace(cfg.BasePath) == "" {
		return nil, ErrBasePathRequired
	}
	return NewServiceFS(os.DirFS(cfg.BasePath), cfg, service, registry, logger)
}

// NewServiceFS reads from filesystem; cfg.BasePath is ignored.
func NewServiceFS(filesystem fs.FS, cfg Config, service pages.Service, registry *sections.Registry, logger interfaces.Logger) (*Service, error) {
	if service == nil {
		return nil, ErrPagesRequired
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	loader := NewLoader(filesystem, LoaderConfig{
		DefaultLocale: cfg.DefaultLocale,
		Pattern:       cfg.Pattern,
		Recursive:     cfg.Recursive,
	})
	importer := NewImporter(service,
		WithParser(NewGoldmarkParser(cfg.Parser)),
		WithRegistry(registry),
		WithLogger(logger),
	)
	return &Service{loader: loader, importer: importer, logger: logger}, nil
}

// ImportDirectory loads every document under dir and imports them. Parse
// failures are reported per file in the result.
func (s *Service) ImportDirectory(ctx context.Context, dir string, opts interfaces.MarkdownImportOptions) (*interfaces.MarkdownImportResult, error) {
	docs, loadErrs, err := s.loader.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	result, err := s.importer.Import(ctx, docs, opts)
	if result != nil {
		result.Errors = append(loadErrs, result.Errors...)
	}
	return result, err
}
