package editor

import (
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Concurrency modes for Save.
const (
	// ConcurrencyOptimistic sends the loaded version with every save.
	ConcurrencyOptimistic = "optimistic"
	// ConcurrencyLastWriteWins saves without a version.
	ConcurrencyLastWriteWins = "last_write_wins"
)

// Status is the editor lifecycle state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusSaving  Status = "saving"
)

type Option func(*options)

type options struct {
	registry    *sections.Registry
	uploader    Uploader
	logger      interfaces.Logger
	concurrency string
	language    string
}

func defaultOptions() options {
	return options{
		registry:    sections.Default(),
		logger:      logging.NoOp(),
		concurrency: ConcurrencyOptimistic,
		language:    i18n.LangEN,
	}
}

func WithRegistry(registry *sections.Registry) Option {
	return func(o *options) {
		if registry != nil {
			o.registry = registry
		}
	}
}

func WithUploader(uploader Uploader) Option {
	return func(o *options) {
		o.uploader = uploader
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConcurrency selects optimistic or last-write-wins saves. Unknown
// values keep the optimistic default.
func WithConcurrency(mode string) Option {
	return func(o *options) {
		if mode == ConcurrencyLastWriteWins || mode == ConcurrencyOptimistic {
			o.concurrency = mode
		}
	}
}

// WithLanguage sets the initial language tab.
func WithLanguage(lang string) Option {
	return func(o *options) {
		if lang != "" {
			o.language = lang
		}
	}
}
