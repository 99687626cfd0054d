package editor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/menus"
)

type menuBackend struct {
	editor.ServiceBackend
	saves   []menus.ReplaceMenuRequest
	saveErr error
}

func (b *menuBackend) SaveMenu(ctx context.Context, req menus.ReplaceMenuRequest) (*menus.Menu, error) {
	b.saves = append(b.saves, req)
	if b.saveErr != nil {
		return nil, b.saveErr
	}
	return b.ServiceBackend.SaveMenu(ctx, req)
}

func newMenuEditor(t *testing.T) (*editor.MenuEditor, *menuBackend, menus.Service) {
	t.Helper()
	svc, err := menus.NewService(menus.NewMemoryMenuRepository())
	if err != nil {
		t.Fatalf("new menu service: %v", err)
	}
	backend := &menuBackend{ServiceBackend: editor.ServiceBackend{Menus: svc}}
	ed, err := editor.NewMenuEditor(backend)
	if err != nil {
		t.Fatalf("new menu editor: %v", err)
	}
	if err := ed.Load(context.Background(), "header"); err != nil {
		t.Fatalf("load: %v", err)
	}
	return ed, backend, svc
}

func label(en string) i18n.Text {
	return i18n.NewText("en", en)
}

func TestMenuEditorBuildsTwoLevelTree(t *testing.T) {
	ctx := context.Background()
	ed, backend, svc := newMenuEditor(t)

	features, err := ed.AddItem(label("Features"), "")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	pricing, _ := ed.AddItem(label("Pricing"), "/pricing")
	channel, err := ed.AddChild(features, label("Channel manager"), "/features/channel-manager")
	if err != nil {
		t.Fatalf("add child: %v", err)
	}
	evisitor, _ := ed.AddChild(features, label("eVisitor"), "/features/evisitor")

	if _, err := ed.AddChild(channel, label("Too deep"), "/deep"); !errors.Is(err, menus.ErrMenuDepthExceeded) {
		t.Fatalf("expected ErrMenuDepthExceeded, got %v", err)
	}
	if _, err := ed.AddChild("missing", label("Orphan"), "/x"); !errors.Is(err, editor.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	if err := ed.ReorderItem(evisitor, 0); err != nil {
		t.Fatalf("reorder child: %v", err)
	}
	if err := ed.ReorderItem(pricing, 0); err != nil {
		t.Fatalf("reorder top level: %v", err)
	}

	menu := ed.Menu()
	if menu.Items[0].ID != pricing || menu.Items[1].ID != features {
		t.Fatalf("unexpected top level order %+v", menu.Items)
	}
	children := menu.Items[1].Children
	if children[0].ID != evisitor || children[0].Order != 0 || children[1].Order != 1 {
		t.Fatalf("expected children reordered independently, got %+v", children)
	}
	if !ed.View().Expanded[features] {
		t.Fatalf("expected parent expanded after adding child")
	}

	saved, err := ed.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(backend.saves) != 1 || len(backend.saves[0].Items) != 2 {
		t.Fatalf("expected full tree sent once, got %+v", backend.saves)
	}
	if saved.Version != 2 || ed.Dirty() {
		t.Fatalf("expected clean editor at version 2")
	}

	nav := svc.Navigation(ctx, "header", "en")
	if nav.Fallback || len(nav.Links()) != 1 || len(nav.Dropdowns()) != 1 {
		t.Fatalf("unexpected navigation %+v", nav)
	}
}

func TestMenuEditorUpdateItem(t *testing.T) {
	ed, _, _ := newMenuEditor(t)
	id, _ := ed.AddItem(label("Blog"), "/blog")

	hidden := false
	blank := menus.TargetBlank
	if err := ed.UpdateItem(id, menus.ItemPatch{Visible: &hidden, Target: &blank}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	if err := ed.SetItemLabel(id, "hr", "Blog (hr)"); err != nil {
		t.Fatalf("set label: %v", err)
	}

	bad := "javascript:alert(1)"
	if err := ed.UpdateItem(id, menus.ItemPatch{URL: &bad}); !editor.IsValidation(err) {
		t.Fatalf("expected validation failure, got %v", err)
	}

	item := ed.Menu().Items[0]
	if item.Visible || item.Target != menus.TargetBlank || item.URL != "/blog" {
		t.Fatalf("unexpected item %+v", item)
	}
	if value, _ := item.Label.Get("hr"); value != "Blog (hr)" {
		t.Fatalf("expected croatian label, got %q", value)
	}
	if err := ed.RemoveItem(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := ed.RemoveItem(id); !errors.Is(err, editor.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestMenuEditorConflictKeepsEdits(t *testing.T) {
	ctx := context.Background()
	ed, _, svc := newMenuEditor(t)
	_, _ = ed.AddItem(label("Contact"), "/contact")

	if _, err := svc.Replace(ctx, menus.ReplaceMenuRequest{Name: "header"}); err != nil {
		t.Fatalf("concurrent replace: %v", err)
	}
	_, err := ed.Save(ctx)
	if !errors.Is(err, menus.ErrVersionConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !ed.Dirty() || len(ed.Menu().Items) != 1 || ed.Status() != editor.StatusReady {
		t.Fatalf("expected edits kept after conflict")
	}
	notices := ed.Notices()
	if len(notices) != 1 || notices[0].Kind != editor.NoticeConflict {
		t.Fatalf("expected conflict notice, got %+v", notices)
	}
}

func TestMenuEditorNetworkFailure(t *testing.T) {
	ed, backend, _ := newMenuEditor(t)
	_, _ = ed.AddItem(label("Pricing"), "/pricing")
	backend.saveErr = errors.New("dial tcp: connection refused")

	if _, err := ed.Save(context.Background()); !errors.Is(err, editor.ErrSaveFailed) {
		t.Fatalf("expected ErrSaveFailed, got %v", err)
	}
	if notices := ed.Notices(); notices[0].Kind != editor.NoticeSaveFailed {
		t.Fatalf("expected save_failed notice, got %+v", notices)
	}
}

func TestMenuEditorUnknownMenu(t *testing.T) {
	svc, _ := menus.NewService(menus.NewMemoryMenuRepository())
	ed, _ := editor.NewMenuEditor(editor.ServiceBackend{Menus: svc})

	err := ed.Load(context.Background(), "sidebar")
	if !errors.Is(err, editor.ErrLoadFailed) || !errors.Is(err, menus.ErrMenuNameUnknown) {
		t.Fatalf("expected load failure for unknown menu, got %v", err)
	}
	if ed.Menu() != nil || ed.Status() != editor.StatusReady {
		t.Fatalf("expected ready editor without menu")
	}
	if _, err := ed.AddItem(label("x"), "/x"); !errors.Is(err, editor.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

type storedMenuBackend struct {
	editor.ServiceBackend
	menu *menus.Menu
}

func (b storedMenuBackend) LoadMenu(context.Context, string) (*menus.Menu, error) {
	return b.menu.Clone(), nil
}

func TestMenuEditorLoadKeepsInvalidItemsInDenseOrder(t *testing.T) {
	stored := &menus.Menu{Name: "header", Version: 4, Items: []menus.MenuItem{
		{ID: "c", Label: label("Contact"), URL: "/contact", Order: 9, Visible: true},
		{ID: "a", Label: label("Bad"), URL: "javascript:alert(1)", Order: 3, Visible: true},
		{ID: "b", Label: label("Blog"), URL: "/blog", Order: 5, Visible: true},
	}}
	ed, err := editor.NewMenuEditor(storedMenuBackend{menu: stored})
	if err != nil {
		t.Fatalf("new menu editor: %v", err)
	}
	if err := ed.Load(context.Background(), "header"); err != nil {
		t.Fatalf("load: %v", err)
	}

	items := ed.Menu().Items
	want := []string{"a", "b", "c"}
	for idx, item := range items {
		if item.ID != want[idx] || item.Order != idx {
			t.Fatalf("expected %s at order %d, got %+v", want[idx], idx, items)
		}
	}
	notices := ed.Notices()
	if len(notices) != 1 || notices[0].Kind != editor.NoticeValidation {
		t.Fatalf("expected one validation notice, got %+v", notices)
	}
	if ed.Dirty() {
		t.Fatalf("expected a clean editor after load")
	}

	added, err := ed.AddItem(label("About"), "/about")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	items = ed.Menu().Items
	if len(items) != 4 || items[3].ID != added || items[3].Order != 3 {
		t.Fatalf("expected new item appended at order 3, got %+v", items)
	}
}
