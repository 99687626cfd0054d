package menus

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/google/uuid"
)

//go:embed seed/default_menus.json
var defaultMenusFixture []byte

// SeedItem is a menu item definition keyed for stable ids.
type SeedItem struct {
	Key      string     `json:"key"`
	Label    i18n.Text  `json:"label"`
	URL      string     `json:"url"`
	Target   string     `json:"target"`
	Visible  *bool      `json:"visible"`
	PageSlug string     `json:"page_slug"`
	Children []SeedItem `json:"children"`
}

type SeedMenu struct {
	Name  string     `json:"name"`
	Items []SeedItem `json:"items"`
}

// DefaultMenus decodes the embedded header, mobile and footer menus.
func DefaultMenus() ([]SeedMenu, error) {
	var payload struct {
		Menus []SeedMenu `json:"menus"`
	}
	dec := json.NewDecoder(bytes.NewReader(defaultMenusFixture))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("menus: decode default menus: %w", err)
	}
	return payload.Menus, nil
}

// Seed creates the default menus when none exist.
func (s *service) Seed(ctx context.Context, actor uuid.UUID) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.Debug("menus.seed.skipped", "existing", len(existing))
		return 0, nil
	}

	seeds := s.seeds
	if seeds == nil {
		if seeds, err = DefaultMenus(); err != nil {
			return 0, err
		}
	}

	created := 0
	for _, seed := range seeds {
		_, err := s.create(ctx, identity.MenuUUID(seed.Name), CreateMenuRequest{
			Name:  seed.Name,
			Items: seedItems(seed.Name, seed.Items),
			Actor: actor,
		})
		if err != nil {
			return created, fmt.Errorf("menus: seed %q: %w", seed.Name, err)
		}
		created++
	}
	s.logger.Info("menus.seed.success", "created", created)
	return created, nil
}

func seedItems(menu string, seeds []SeedItem) []MenuItem {
	items := make([]MenuItem, 0, len(seeds))
	for idx, seed := range seeds {
		visible := seed.Visible == nil || *seed.Visible
		items = append(items, MenuItem{
			ID:       identity.MenuItemID(menu, seed.Key),
			Label:    seed.Label.Clone(),
			URL:      seed.URL,
			Target:   seed.Target,
			Order:    idx,
			Visible:  visible,
			PageSlug: seed.PageSlug,
			Children: seedItems(menu, seed.Children),
		})
	}
	return items
}
