package pages

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/google/uuid"
)

//go:embed seed/system_pages.json
var systemPagesFixture []byte

// SeedPage is one system page definition.
type SeedPage struct {
	Slug            string             `json:"slug"`
	Title           i18n.Text          `json:"title"`
	MetaDescription i18n.Text          `json:"meta_description"`
	Sections        []sections.Section `json:"sections"`
	Published       bool               `json:"published"`
}

// SystemPages decodes the embedded system page fixture.
func SystemPages() ([]SeedPage, error) {
	var payload struct {
		Pages []SeedPage `json:"pages"`
	}
	dec := json.NewDecoder(bytes.NewReader(systemPagesFixture))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("pages: decode system pages: %w", err)
	}
	return payload.Pages, nil
}

// Seed creates the system pages when the store holds no pages. Ids are
// derived from slugs so repeated seeds on fresh stores agree.
func (s *service) Seed(ctx context.Context, actor uuid.UUID) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.Debug("pages.seed.skipped", "existing", len(existing))
		return 0, nil
	}

	seeds := s.seeds
	if seeds == nil {
		if seeds, err = SystemPages(); err != nil {
			return 0, err
		}
	}

	created := 0
	for _, seed := range seeds {
		list := sections.CloneAll(seed.Sections)
		for idx := range list {
			if list[idx].ID == "" {
				list[idx].ID = identity.SectionID(seed.Slug, idx, list[idx].Type)
			}
		}
		page, err := s.create(ctx, identity.PageUUID(seed.Slug), CreatePageRequest{
			Slug:            seed.Slug,
			Title:           seed.Title,
			MetaDescription: seed.MetaDescription,
			Sections:        list,
			Published:       seed.Published,
			IsSystemPage:    true,
			Actor:           actor,
		})
		if err != nil {
			return created, fmt.Errorf("pages: seed %q: %w", seed.Slug, err)
		}
		s.logger.Debug("pages.seed.created", "slug", page.Slug)
		created++
	}
	s.logger.Info("pages.seed.success", "created", created)
	return created, nil
}
