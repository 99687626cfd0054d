package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/client"
	"github.com/goliatone/go-sitecms/internal/editor"
	cmshttp "github.com/goliatone/go-sitecms/internal/http"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/internal/sections"
)

type fixture struct {
	server *httptest.Server
	pages  pages.Service
	menus  menus.Service
}

func startServer(t *testing.T) *fixture {
	t.Helper()
	pageService, _ := pages.NewService(pages.NewMemoryPageRepository())
	menuService, _ := menus.NewService(menus.NewMemoryMenuRepository())
	mediaService, _ := media.NewService(media.NewFSStore(t.TempDir(), media.DefaultBaseURL))
	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	manager, err := auth.NewManager(auth.Config{
		Secret:   "fedcba9876543210fedcba9876543210",
		Accounts: []auth.Account{{Username: "admin", PasswordHash: hash, Admin: true}},
	})
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	api := cmshttp.NewAPI(
		cmshttp.WithPageService(pageService),
		cmshttp.WithMenuService(menuService),
		cmshttp.WithMediaService(mediaService),
		cmshttp.WithAuth(manager),
	)
	handler, err := cmshttp.NewRouter(api, cmshttp.RouterConfig{Quiet: true})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &fixture{server: server, pages: pageService, menus: menuService}
}

func newClient(t *testing.T, f *fixture, login bool) *client.Client {
	t.Helper()
	c, err := client.New(f.server.URL + "/api")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if login {
		session, err := c.Login(context.Background(), "admin", "secret")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if !session.Admin {
			t.Fatalf("expected admin session, got %+v", session)
		}
	}
	return c
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := startServer(t)
	c := newClient(t, f, false)
	if _, err := c.Login(context.Background(), "admin", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPageEditorOverREST(t *testing.T) {
	ctx := context.Background()
	f := startServer(t)
	if _, err := f.pages.Create(ctx, pages.CreatePageRequest{Slug: "about", Title: i18n.NewText("en", "About")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	c := newClient(t, f, true)

	ed, err := editor.NewPageEditor(c)
	if err != nil {
		t.Fatalf("editor: %v", err)
	}
	if err := ed.Load(ctx, "about"); err != nil {
		t.Fatalf("load: %v", err)
	}
	id, err := ed.AddSection(sections.TypeHero)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	if err := ed.SetSectionText(id, "headline", "hr", "O nama"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	saved, err := ed.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Version != 2 || len(saved.Sections) != 1 {
		t.Fatalf("unexpected saved page %+v", saved)
	}

	view, err := c.RenderPage(ctx, "about", "hr")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(view.Sections) != 1 || view.Sections[0].Type != sections.TypeHero {
		t.Fatalf("unexpected render %+v", view)
	}
}

func TestSavePageConflict(t *testing.T) {
	ctx := context.Background()
	f := startServer(t)
	page, _ := f.pages.Create(ctx, pages.CreatePageRequest{Slug: "pricing"})
	c := newClient(t, f, true)

	ed, _ := editor.NewPageEditor(c)
	if err := ed.Load(ctx, "pricing"); err != nil {
		t.Fatalf("load: %v", err)
	}
	published := true
	if _, err := f.pages.Update(ctx, pages.UpdatePageRequest{ID: page.ID, Published: &published}); err != nil {
		t.Fatalf("concurrent update: %v", err)
	}
	_ = ed.SetTitle("en", "Pricing")

	_, err := ed.Save(ctx)
	var conflict *pages.VersionConflictError
	if !errors.As(err, &conflict) || conflict.Expected != 1 || conflict.Actual != 2 {
		t.Fatalf("expected version conflict 1 vs 2, got %v", err)
	}
	if !ed.Dirty() {
		t.Fatalf("expected edits kept")
	}
}

func TestLoadPageNotFound(t *testing.T) {
	f := startServer(t)
	c := newClient(t, f, false)
	if _, err := c.LoadPage(context.Background(), "missing"); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestAnonymousWritesAreDenied(t *testing.T) {
	ctx := context.Background()
	f := startServer(t)
	page, _ := f.pages.Create(ctx, pages.CreatePageRequest{Slug: "faq"})
	c := newClient(t, f, false)
	title := i18n.NewText("en", "FAQ")
	_, err := c.SavePage(ctx, pages.UpdatePageRequest{ID: page.ID, Title: &title})
	if !errors.Is(err, permissions.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestValidationFailureIsClassified(t *testing.T) {
	ctx := context.Background()
	f := startServer(t)
	page, _ := f.pages.Create(ctx, pages.CreatePageRequest{Slug: "blog"})
	c := newClient(t, f, true)
	slug := "renamed"
	_, err := c.SavePage(ctx, pages.UpdatePageRequest{ID: page.ID, Slug: &slug})
	if !editor.IsValidation(err) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestMenuLoadCreatesAndSaves(t *testing.T) {
	ctx := context.Background()
	f := startServer(t)
	c := newClient(t, f, true)

	ed, _ := editor.NewMenuEditor(c)
	if err := ed.Load(ctx, "footer"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := ed.AddItem(i18n.NewText("en", "Contact"), "/contact"); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := ed.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	nav, err := c.Navigation(ctx, "footer", "en")
	if err != nil {
		t.Fatalf("navigation: %v", err)
	}
	if nav.Fallback || len(nav.Items) != 1 || nav.Items[0].URL != "/contact" {
		t.Fatalf("unexpected navigation %+v", nav)
	}
}

func TestUploadThroughClient(t *testing.T) {
	f := startServer(t)
	c := newClient(t, f, true)
	asset, err := c.Upload(context.Background(), media.UploadInput{
		Filename:    "team.jpg",
		ContentType: "image/jpeg",
		Reader:      strings.NewReader("jpeg bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(asset.URL, media.DefaultBaseURL+"/") || !strings.HasSuffix(asset.Name, ".jpg") {
		t.Fatalf("unexpected asset %+v", asset)
	}
}

func TestNetworkFailure(t *testing.T) {
	f := startServer(t)
	c := newClient(t, f, false)
	f.server.Close()

	ed, _ := editor.NewPageEditor(c)
	err := ed.Load(context.Background(), "about")
	if !errors.Is(err, editor.ErrLoadFailed) || !errors.Is(err, client.ErrNetwork) {
		t.Fatalf("expected network load failure, got %v", err)
	}
}

func TestServerErrorsCountAsNetworkFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()
	c, _ := client.New(server.URL)
	if _, err := c.SectionTypes(context.Background()); !errors.Is(err, client.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}
