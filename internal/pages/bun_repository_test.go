package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
	"github.com/uptrace/bun"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	return testsupport.NewSQLiteDB(t, (*pages.Page)(nil))
}

func TestBunPageServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := pages.NewBunPageRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())

	svc, err := pages.NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	created, err := svc.Create(ctx, pages.CreatePageRequest{
		Slug:  "about",
		Title: i18n.NewText("hr", "O nama", "en", "About Us"),
		Sections: []sections.Section{{
			Type:    sections.TypeFAQ,
			Visible: true,
			Content: sections.Content{
				"headline": i18n.NewText("en", "Questions"),
				"items": []sections.Item{
					{Fields: map[string]any{"question": i18n.NewText("en", "Why?")}},
				},
			},
		}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := svc.GetBySlug(ctx, "about")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if loaded.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, loaded.ID)
	}
	if langs := loaded.Title.Langs(); len(langs) != 2 || langs[0] != "hr" {
		t.Fatalf("expected title language order preserved, got %v", langs)
	}
	if len(loaded.Sections) != 1 {
		t.Fatalf("expected one section, got %d", len(loaded.Sections))
	}
	items := loaded.Sections[0].Content.Items("items")
	if len(items) != 1 || items[0].ID == "" {
		t.Fatalf("expected stored item with id, got %+v", items)
	}

	published := true
	version := loaded.Version
	updated, err := svc.Update(ctx, pages.UpdatePageRequest{ID: loaded.ID, Published: &published, ExpectedVersion: &version})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != version+1 {
		t.Fatalf("expected version bump, got %d", updated.Version)
	}

	if err := svc.Delete(ctx, pages.DeletePageRequest{ID: loaded.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, loaded.ID); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestBunPageRepositoryMissingSlug(t *testing.T) {
	repo := pages.NewBunPageRepository(newBunDB(t))
	if _, err := repo.GetBySlug(context.Background(), "missing"); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}
