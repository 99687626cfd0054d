package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Loader discovers Markdown files on a filesystem.
type Loader struct {
	fs            fs.FS
	defaultLocale string
	pattern       string
	recursive     bool
}

type LoaderConfig struct {
	DefaultLocale string
	// Pattern filters file names; defaults to "*.md".
	Pattern   string
	Recursive bool
}

func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	locale := strings.TrimSpace(cfg.DefaultLocale)
	if locale == "" {
		locale = "en"
	}
	return &Loader{fs: filesystem, defaultLocale: locale, pattern: pattern, recursive: cfg.Recursive}
}

// LoadFile reads and parses one document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = cleanPath(name)
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	return BuildDocument(name, data, l.defaultLocale)
}

// LoadDirectory parses every matching file under dir in path order. Files
// that fail to parse are returned in errs; the walk continues.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, []interfaces.MarkdownImportError, error) {
	root := cleanPath(dir)
	var paths []string
	err := fs.WalkDir(l.fs, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if ok, _ := path.Match(l.pattern, d.Name()); ok {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("markdown loader walk %s: %w", root, err)
	}
	sort.Strings(paths)

	docs := make([]*interfaces.Document, 0, len(paths))
	var errs []interfaces.MarkdownImportError
	for _, p := range paths {
		doc, err := l.LoadFile(ctx, p)
		if err != nil {
			errs = append(errs, interfaces.MarkdownImportError{Path: p, Err: err})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs, nil
}

func cleanPath(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(p)), "/")
	if p == "" {
		return "."
	}
	return p
}
