package menus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	return testsupport.NewSQLiteDB(t, (*menus.Menu)(nil))
}

func TestBunMenuServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := menus.NewBunMenuRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())

	svc, err := menus.NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	seeded, err := svc.Seed(ctx, uuid.Nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if seeded != 3 {
		t.Fatalf("expected 3 menus, got %d", seeded)
	}

	header, err := svc.Get(ctx, "header")
	if err != nil {
		t.Fatalf("get header: %v", err)
	}
	if len(header.Items) != 6 {
		t.Fatalf("expected 6 header items, got %d", len(header.Items))
	}
	label, _ := header.Items[0].Label.Get("hr")
	if label == "" {
		t.Fatalf("expected croatian label to survive storage, got %+v", header.Items[0].Label)
	}

	version := header.Version
	updated, err := svc.Replace(ctx, menus.ReplaceMenuRequest{
		Name:            "header",
		ExpectedVersion: &version,
		Items: []menus.MenuItem{{
			Label:   i18n.NewText("en", "Docs"),
			Visible: true,
			Children: []menus.MenuItem{
				{Label: i18n.NewText("en", "API"), URL: "/docs/api", Visible: true},
			},
		}},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	direct := menus.NewBunMenuRepository(db)
	reloaded, err := direct.GetByName(ctx, "header")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Version != updated.Version || len(reloaded.Items) != 1 || len(reloaded.Items[0].Children) != 1 {
		t.Fatalf("unexpected stored menu %+v", reloaded)
	}

	nav := menus.Assemble(ctx, reloaded, "en", menus.Navigation{}, nil)
	if len(nav.Dropdowns()) != 1 || nav.Items[0].Children[0].URL != "/docs/api" {
		t.Fatalf("unexpected navigation %+v", nav)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Name != "footer" || list[2].Name != "mobile" {
		t.Fatalf("expected menus ordered by name, got %d", len(list))
	}

	if err := svc.Delete(ctx, "mobile", uuid.Nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := direct.GetByName(ctx, "mobile"); !errors.Is(err, menus.ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound after delete, got %v", err)
	}
}
