package editor

import (
	"context"

	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/google/uuid"
)

// PageBackend loads and persists pages for the page editor.
type PageBackend interface {
	LoadPage(ctx context.Context, slug string) (*pages.Page, error)
	SavePage(ctx context.Context, req pages.UpdatePageRequest) (*pages.Page, error)
}

// MenuBackend loads and persists menus for the menu editor.
type MenuBackend interface {
	LoadMenu(ctx context.Context, name string) (*menus.Menu, error)
	SaveMenu(ctx context.Context, req menus.ReplaceMenuRequest) (*menus.Menu, error)
}

// Uploader stores an image and returns where it is served. media.Service
// satisfies it.
type Uploader interface {
	Upload(ctx context.Context, input media.UploadInput) (*media.Asset, error)
}

// ServiceBackend runs the editors in-process against the domain services.
type ServiceBackend struct {
	Pages pages.Service
	Menus menus.Service
	Actor uuid.UUID
}

var (
	_ PageBackend = ServiceBackend{}
	_ MenuBackend = ServiceBackend{}
)

func (b ServiceBackend) LoadPage(ctx context.Context, slug string) (*pages.Page, error) {
	return b.Pages.GetBySlug(ctx, slug)
}

func (b ServiceBackend) SavePage(ctx context.Context, req pages.UpdatePageRequest) (*pages.Page, error) {
	req.Actor = b.Actor
	return b.Pages.Update(ctx, req)
}

// LoadMenu creates the menu on first access.
func (b ServiceBackend) LoadMenu(ctx context.Context, name string) (*menus.Menu, error) {
	return b.Menus.GetOrCreate(ctx, name, b.Actor)
}

func (b ServiceBackend) SaveMenu(ctx context.Context, req menus.ReplaceMenuRequest) (*menus.Menu, error) {
	req.Actor = b.Actor
	return b.Menus.Replace(ctx, req)
}
