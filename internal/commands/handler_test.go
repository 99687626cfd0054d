package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

type publishPage struct {
	Slug string
}

func (publishPage) Type() string { return "sitecms.test.publish_page" }

func (m publishPage) Validate() error {
	return ozzo.ValidateStruct(&m, ozzo.Field(&m.Slug, ozzo.Required))
}

type entry struct {
	level  string
	msg    string
	fields map[string]any
	args   []any
}

type recorder struct {
	mu      sync.Mutex
	fields  map[string]any
	entries *[]entry
}

func newRecorder() *recorder {
	return &recorder{entries: &[]entry{}}
}

func (r *recorder) log(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, entry{level: level, msg: msg, fields: r.fields, args: args})
}

func (r *recorder) Trace(msg string, args ...any) { r.log("trace", msg, args) }
func (r *recorder) Debug(msg string, args ...any) { r.log("debug", msg, args) }
func (r *recorder) Info(msg string, args ...any)  { r.log("info", msg, args) }
func (r *recorder) Warn(msg string, args ...any)  { r.log("warn", msg, args) }
func (r *recorder) Error(msg string, args ...any) { r.log("error", msg, args) }
func (r *recorder) Fatal(msg string, args ...any) { r.log("fatal", msg, args) }

func (r *recorder) WithFields(fields map[string]any) interfaces.Logger {
	return &recorder{fields: fields, entries: r.entries}
}

func (r *recorder) WithContext(context.Context) interfaces.Logger { return r }

func TestHandlerLogsSuccessWithMessageFields(t *testing.T) {
	rec := newRecorder()
	var published []string
	h := NewHandler(func(_ context.Context, msg publishPage) error {
		published = append(published, msg.Slug)
		return nil
	},
		WithLogger[publishPage](rec),
		WithOperation[publishPage]("pages.publish"),
		WithMessageFields(func(msg publishPage) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
	)

	if err := h.Execute(context.Background(), publishPage{Slug: "pricing"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(published) != 1 || published[0] != "pricing" {
		t.Fatalf("expected pricing to be published, got %v", published)
	}
	entries := *rec.entries
	if len(entries) != 1 || entries[0].msg != "command.execute.success" {
		t.Fatalf("expected one success entry, got %+v", entries)
	}
	fields := entries[0].fields
	if fields["command"] != "sitecms.test.publish_page" || fields["operation"] != "pages.publish" || fields["slug"] != "pricing" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestHandlerRejectsInvalidMessage(t *testing.T) {
	called := false
	h := NewHandler(func(context.Context, publishPage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), publishPage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatalf("handler ran for an invalid message")
	}
}

func TestHandlerClassifiesFailures(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name       string
		ctx        context.Context
		err        error
		validation bool
	}{
		{name: "canceled before run", ctx: canceled},
		{name: "service failure", ctx: context.Background(), err: errors.New("database locked")},
		{name: "field errors", ctx: context.Background(), err: ozzo.Errors{"slug": errors.New("taken")}, validation: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(func(context.Context, publishPage) error { return tc.err })
			err := h.Execute(tc.ctx, publishPage{Slug: "about"})
			category := goerrors.CategoryCommand
			if tc.validation {
				category = goerrors.CategoryValidation
			}
			if !goerrors.IsCategory(err, category) {
				t.Fatalf("expected %v, got %v", category, err)
			}
		})
	}
}

func TestHandlerTimeout(t *testing.T) {
	rec := newRecorder()
	h := NewHandler(func(ctx context.Context, _ publishPage) error {
		<-ctx.Done()
		return ctx.Err()
	}, WithTimeout[publishPage](10*time.Millisecond), WithLogger[publishPage](rec))

	err := h.Execute(context.Background(), publishPage{Slug: "about"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected timeout command error, got %v", err)
	}
	entries := *rec.entries
	if len(entries) != 1 || entries[0].level != "error" {
		t.Fatalf("expected one error entry, got %+v", entries)
	}
}
