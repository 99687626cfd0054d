package pages

import (
	"context"

	"github.com/google/uuid"
)

// PageRepository persists pages. Sections live inside the page record, so
// deleting a page removes them too.
type PageRepository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	// List returns every page, newest first.
	List(ctx context.Context) ([]*Page, error)
	Update(ctx context.Context, record *Page) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
