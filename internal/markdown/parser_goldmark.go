package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// ParseOptions configures the goldmark engine used for page bodies.
// Extensions are matched by name, case-insensitively; unknown names are
// ignored and an empty list means GFM.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
}

// GoldmarkParser turns imported Markdown bodies into HTML. Raw HTML is kept
// as written and cleaned later when the body lands in a localized_html field.
type GoldmarkParser struct {
	md goldmark.Markdown
}

var _ interfaces.MarkdownParser = (*GoldmarkParser)(nil)

func NewGoldmarkParser(opts ParseOptions) *GoldmarkParser {
	htmlOpts := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	md := goldmark.New(
		goldmark.WithExtensions(resolveExtensions(opts.Extensions)...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &GoldmarkParser{md: md}
}

func (p *GoldmarkParser) Parse(source []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := p.md.Convert(source, &out); err != nil {
		return nil, fmt.Errorf("markdown: convert body: %w", err)
	}
	return out.Bytes(), nil
}

func extensionByName(name string) (goldmark.Extender, bool) {
	switch name {
	case "gfm":
		return extension.GFM, true
	case "table", "tables":
		return extension.Table, true
	case "strikethrough":
		return extension.Strikethrough, true
	case "linkify", "autolink":
		return extension.Linkify, true
	case "tasklist":
		return extension.TaskList, true
	case "definition":
		return extension.DefinitionList, true
	case "footnote":
		return extension.Footnote, true
	case "typographer":
		return extension.Typographer, true
	}
	return nil, false
}

func resolveExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}
	added := make(map[goldmark.Extender]bool, len(names))
	out := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		ext, ok := extensionByName(strings.ToLower(strings.TrimSpace(name)))
		if !ok || added[ext] {
			continue
		}
		added[ext] = true
		out = append(out, ext)
	}
	return out
}
