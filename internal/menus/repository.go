package menus

import (
	"context"

	"github.com/google/uuid"
)

// MenuRepository persists menus keyed by name.
type MenuRepository interface {
	Create(ctx context.Context, record *Menu) (*Menu, error)
	GetByName(ctx context.Context, name string) (*Menu, error)
	// List returns every menu ordered by name.
	List(ctx context.Context) ([]*Menu, error)
	Update(ctx context.Context, record *Menu) (*Menu, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
