package menus_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/menus"
)

func TestNormalizeAssignsDefaults(t *testing.T) {
	items, err := menus.Normalize([]menus.MenuItem{
		{Label: i18n.NewText("en", "B"), Order: 5, Visible: true},
		{Label: i18n.NewText("en", "A"), Order: 1, Visible: true, Children: []menus.MenuItem{
			{Label: i18n.NewText("en", "child"), Order: 9},
		}},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if items[0].Label.String() != "A" || items[0].Order != 0 || items[1].Order != 1 {
		t.Fatalf("expected sorted dense orders, got %+v", items)
	}
	for _, item := range append(items, items[0].Children...) {
		if item.ID == "" || item.Target != menus.TargetSelf {
			t.Fatalf("expected id and default target, got %+v", item)
		}
	}
	if items[0].Children[0].Order != 0 {
		t.Fatalf("expected child order renumbered, got %d", items[0].Children[0].Order)
	}
}

func TestNormalizeRejectsThirdLevel(t *testing.T) {
	_, err := menus.Normalize([]menus.MenuItem{{
		Children: []menus.MenuItem{{
			Children: []menus.MenuItem{{Label: i18n.NewText("en", "too deep")}},
		}},
	}})
	if !errors.Is(err, menus.ErrMenuDepthExceeded) {
		t.Fatalf("expected ErrMenuDepthExceeded, got %v", err)
	}
	var itemErr *menus.ItemError
	if !errors.As(err, &itemErr) || itemErr.Path != "items[0].children[0]" {
		t.Fatalf("expected path of offending item, got %v", err)
	}
}

func TestNormalizeRejectsBadTargetAndScript(t *testing.T) {
	if _, err := menus.Normalize([]menus.MenuItem{{Target: "_parent"}}); !errors.Is(err, menus.ErrInvalidItem) {
		t.Fatalf("expected invalid target rejected, got %v", err)
	}
	if _, err := menus.Normalize([]menus.MenuItem{{URL: "javascript:alert(1)"}}); !errors.Is(err, menus.ErrInvalidItem) {
		t.Fatalf("expected script url rejected, got %v", err)
	}
}

func TestTreeOperations(t *testing.T) {
	items, _ := menus.Normalize([]menus.MenuItem{
		{ID: "a", Visible: true},
		{ID: "b", Visible: true},
		{ID: "c", Visible: true},
	})

	items, err := menus.Append(items, "b", menus.MenuItem{ID: "b1", Visible: true})
	if err != nil {
		t.Fatalf("append child: %v", err)
	}
	items, _ = menus.Append(items, "b", menus.MenuItem{ID: "b2", Visible: true})
	if _, err := menus.Append(items, "b1", menus.MenuItem{ID: "deep"}); !errors.Is(err, menus.ErrMenuDepthExceeded) {
		t.Fatalf("expected depth error, got %v", err)
	}

	items, ok := menus.Move(items, "b2", 0)
	if !ok || items[1].Children[0].ID != "b2" || items[1].Children[0].Order != 0 {
		t.Fatalf("expected b2 first among children, got %+v", items[1].Children)
	}
	items, _ = menus.Move(items, "a", 99)
	if items[2].ID != "a" || items[2].Order != 2 {
		t.Fatalf("expected a moved to end, got %+v", items)
	}

	items, ok = menus.Remove(items, "b")
	if !ok || len(items) != 2 || items[0].ID != "c" || items[1].Order != 1 {
		t.Fatalf("expected b removed with children, got %+v", items)
	}
	if _, _, found := menus.Find(items, "b1"); found {
		t.Fatalf("expected children removed with parent")
	}

	hidden := false
	items, ok = menus.Update(items, "c", menus.ItemPatch{Visible: &hidden}.Apply)
	if !ok || items[0].Visible {
		t.Fatalf("expected c hidden, got %+v", items[0])
	}
}

func TestReorderRenumbersEveryLevelWithoutValidating(t *testing.T) {
	items := []menus.MenuItem{
		{ID: "b", Order: 7, URL: "vbscript:x"},
		{ID: "a", Order: 2, Children: []menus.MenuItem{
			{ID: "a2", Order: 10},
			{ID: "a1", Order: -1},
		}},
	}
	out := menus.Reorder(items)
	if out[0].ID != "a" || out[0].Order != 0 || out[1].ID != "b" || out[1].Order != 1 {
		t.Fatalf("unexpected top level %+v", out)
	}
	children := out[0].Children
	if children[0].ID != "a1" || children[0].Order != 0 || children[1].ID != "a2" || children[1].Order != 1 {
		t.Fatalf("unexpected children %+v", children)
	}
	if items[0].Order != 7 || items[1].Children[0].Order != 10 {
		t.Fatalf("expected input untouched, got %+v", items)
	}
}
