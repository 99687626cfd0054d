// Package seedcmd seeds the system pages and the default menus.
package seedcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	seedMessageType = "sitecms.seed.pages_menus"
	seedOperation   = "seed.pages_menus"
)

var ErrServicesRequired = errors.New("seed command: page and menu services are required")

// Result reports how many records a seed run created. Existing records are
// never overwritten.
type Result struct {
	PagesCreated int `json:"pages_created"`
	MenusCreated int `json:"menus_created"`
}

// SeedPagesMenusCommand creates the missing system pages and menus. When
// Result is set it receives the counts.
type SeedPagesMenusCommand struct {
	Actor  uuid.UUID `json:"actor,omitempty"`
	Result *Result   `json:"-"`
}

func (SeedPagesMenusCommand) Type() string { return seedMessageType }

func (SeedPagesMenusCommand) Validate() error { return nil }

var _ command.Commander[SeedPagesMenusCommand] = (*Handler)(nil)

type Handler struct {
	inner *commands.Handler[SeedPagesMenusCommand]
}

func NewHandler(pageService pages.Service, menuService menus.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SeedPagesMenusCommand]) (*Handler, error) {
	if pageService == nil || menuService == nil {
		return nil, ErrServicesRequired
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SeedPagesMenusCommand) error {
		pagesCreated, err := pageService.Seed(ctx, msg.Actor)
		if err != nil {
			return err
		}
		menusCreated, err := menuService.Seed(ctx, msg.Actor)
		if err != nil {
			return err
		}
		if msg.Result != nil {
			*msg.Result = Result{PagesCreated: pagesCreated, MenusCreated: menusCreated}
		}
		logger.Info("seed.pages_menus.completed", "pages_created", pagesCreated, "menus_created", menusCreated)
		return nil
	}

	handlerOpts := []commands.HandlerOption[SeedPagesMenusCommand]{
		commands.WithLogger[SeedPagesMenusCommand](logger),
		commands.WithOperation[SeedPagesMenusCommand](seedOperation),
	}
	return &Handler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}, nil
}

func (h *Handler) Execute(ctx context.Context, msg SeedPagesMenusCommand) error {
	return h.inner.Execute(ctx, msg)
}
