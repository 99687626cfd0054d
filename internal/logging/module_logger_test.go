package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

type fieldRecorder struct {
	fields []map[string]any
}

func (r *fieldRecorder) Trace(string, ...any) {}
func (r *fieldRecorder) Debug(string, ...any) {}
func (r *fieldRecorder) Info(string, ...any)  {}
func (r *fieldRecorder) Warn(string, ...any)  {}
func (r *fieldRecorder) Error(string, ...any) {}
func (r *fieldRecorder) Fatal(string, ...any) {}

func (r *fieldRecorder) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *fieldRecorder) WithContext(context.Context) interfaces.Logger { return r }

type namedProvider struct {
	names  []string
	logger interfaces.Logger
}

func (p *namedProvider) GetLogger(name string) interfaces.Logger {
	p.names = append(p.names, name)
	return p.logger
}

func TestModuleLoggerQualifiesNames(t *testing.T) {
	cases := map[string]string{
		"":               RootModule,
		"auth":           "sitecms.auth",
		" di ":           "sitecms.di",
		PagesModule:      PagesModule,
		"sitecms":        RootModule,
		"sitecms.editor": EditorModule,
	}
	for in, want := range cases {
		rec := &fieldRecorder{}
		provider := &namedProvider{logger: rec}
		ModuleLogger(provider, in)
		if len(provider.names) != 1 || provider.names[0] != want {
			t.Fatalf("%q: expected logger %s, got %v", in, want, provider.names)
		}
		if len(rec.fields) != 1 || rec.fields[0]["module"] != want {
			t.Fatalf("%q: expected module field %s, got %v", in, want, rec.fields)
		}
	}
}

func TestModuleLoggerWithoutProvider(t *testing.T) {
	if _, ok := ModuleLogger(nil, PagesModule).(noopLogger); !ok {
		t.Fatalf("expected NoOp without a provider")
	}
	if _, ok := ModuleLogger(&namedProvider{}, MenusModule).(noopLogger); !ok {
		t.Fatalf("expected NoOp when the provider returns nil")
	}
}

func TestNamedLoggers(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		PagesModule:    PagesLogger,
		MenusModule:    MenusLogger,
		EditorModule:   EditorLogger,
		MediaModule:    MediaLogger,
		HTTPModule:     HTTPLogger,
		MarkdownModule: MarkdownLogger,
		CommandsModule: CommandsLogger,
	}
	for module, build := range cases {
		provider := &namedProvider{logger: &fieldRecorder{}}
		build(provider)
		if len(provider.names) != 1 || provider.names[0] != module {
			t.Fatalf("expected %s, got %v", module, provider.names)
		}
	}
}

func TestWithImportContextSkipsBlankValues(t *testing.T) {
	rec := &fieldRecorder{}
	WithImportContext(rec, " content/about.md ", "", "hr")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields["markdown_path"] != "content/about.md" || fields["locale"] != "hr" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["page_slug"]; ok {
		t.Fatalf("blank slug should be skipped: %v", fields)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := WithRequest(context.Background(), Request{ID: "req-1"})
	ctx = ContextWithFields(ctx, map[string]any{"page_slug": "about"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "req-1" || fields["page_slug"] != "about" {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "req-1" {
		t.Fatalf("expected ContextFields to return a copy")
	}
	if ContextFields(context.Background()) != nil {
		t.Fatalf("expected nil fields on a bare context")
	}
}
