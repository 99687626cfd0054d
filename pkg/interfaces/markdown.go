package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// MarkdownParser converts Markdown into HTML.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
}

// Document is one Markdown file split into front matter and body. Locale is
// the language the body is written in.
type Document struct {
	FilePath    string
	Locale      string
	FrontMatter FrontMatter
	Body        []byte
	BodyHTML    []byte
	Checksum    []byte
}

// FrontMatter holds the page metadata read from a Markdown file header.
// Localized maps carry one entry per language code.
type FrontMatter struct {
	Slug            string
	Title           map[string]string
	MetaDescription map[string]string
	SectionType     string
	Published       bool
}

// MarkdownImportOptions controls a directory import.
type MarkdownImportOptions struct {
	Actor          uuid.UUID
	DryRun         bool
	UpdateExisting bool
}

// MarkdownImportResult lists the slugs touched by an import.
type MarkdownImportResult struct {
	Created []string
	Updated []string
	Skipped []string
	Errors  []MarkdownImportError
}

type MarkdownImportError struct {
	Path string
	Err  error
}

// MarkdownService imports Markdown pages from a directory.
type MarkdownService interface {
	ImportDirectory(ctx context.Context, dir string, opts MarkdownImportOptions) (*MarkdownImportResult, error)
}
