// Package logging scopes loggers to CMS modules and carries request fields
// through contexts.
package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Module names used by the CMS packages. Entries carry them in the
// "module" field; go-logger focus filters match on them.
const (
	RootModule     = "sitecms"
	PagesModule    = "sitecms.pages"
	MenusModule    = "sitecms.menus"
	EditorModule   = "sitecms.editor"
	MediaModule    = "sitecms.media"
	HTTPModule     = "sitecms.http"
	MarkdownModule = "sitecms.markdown"
	CommandsModule = "sitecms.commands"
)

// ModuleLogger returns the logger of module, qualifying short names such as
// "auth" to "sitecms.auth". A nil provider yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = qualify(module)
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		return NoOp()
	}
	return WithFields(logger, map[string]any{"module": module})
}

func qualify(module string) string {
	module = strings.TrimSpace(module)
	switch {
	case module == "":
		return RootModule
	case module == RootModule, strings.HasPrefix(module, RootModule+"."):
		return module
	default:
		return RootModule + "." + module
	}
}

func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, PagesModule)
}

func MenusLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, MenusModule)
}

func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, EditorModule)
}

func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, MediaModule)
}

func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, HTTPModule)
}

func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, MarkdownModule)
}

func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, CommandsModule)
}

// WithImportContext tags logger with the Markdown file, target slug and
// locale of an import. Blank values are left out.
func WithImportContext(logger interfaces.Logger, path, slug, locale string) interfaces.Logger {
	fields := map[string]any{}
	for key, value := range map[string]string{"markdown_path": path, "page_slug": slug, "locale": locale} {
		if value = strings.TrimSpace(value); value != "" {
			fields[key] = value
		}
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
