// Package activity fans out audit events for page and menu writes.
package activity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"

	ObjectPage = "page"
	ObjectMenu = "menu"
)

// Event describes one write performed through the CMS. Key is the page slug
// or the menu name; Version is the record version after the write.
type Event struct {
	Verb       string
	ActorID    uuid.UUID
	ObjectType string
	ObjectID   uuid.UUID
	Key        string
	Version    int
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Hook receives emitted events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

type HookFunc func(ctx context.Context, event Event) error

func (f HookFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

type Hooks []Hook

// Config toggles emission and sets the default channel.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter delivers events to every hook.
type Emitter struct {
	hooks Hooks
	cfg   Config
	now   func() time.Time
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	filtered := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			filtered = append(filtered, hook)
		}
	}
	return &Emitter{hooks: filtered, cfg: cfg, now: time.Now}
}

// Enabled reports whether Emit will reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit fills channel and timestamp defaults and notifies every hook, joining
// their errors. Events without a verb or object type are dropped.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() || event.Verb == "" || event.ObjectType == "" {
		return nil
	}
	if event.Channel == "" {
		event.Channel = e.cfg.Channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now().UTC()
	}
	var errs []error
	for _, hook := range e.hooks {
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
