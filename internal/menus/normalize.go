package menus

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

func (m MenuItem) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.URL, validation.Length(0, 2048), validation.By(safeURL)),
		validation.Field(&m.Target, validation.In(TargetSelf, TargetBlank)),
		validation.Field(&m.PageSlug, validation.Length(0, 200)),
	)
}

func safeURL(value any) error {
	url, _ := value.(string)
	lower := strings.ToLower(strings.TrimSpace(url))
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "vbscript:") {
		return fmt.Errorf("scheme not allowed")
	}
	return nil
}

// Normalize returns a copy of items ready to persist: sorted by order with
// dense orders per sibling group, ids assigned, target defaulted and every
// item validated. Grandchildren are rejected with ErrMenuDepthExceeded.
func Normalize(items []MenuItem) ([]MenuItem, error) {
	return normalizeLevel(items, "items", 1)
}

func normalizeLevel(items []MenuItem, path string, depth int) ([]MenuItem, error) {
	out := cloneItems(items)
	if out == nil {
		out = []MenuItem{}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	for idx := range out {
		item := &out[idx]
		itemPath := fmt.Sprintf("%s[%d]", path, idx)
		item.Order = idx
		if strings.TrimSpace(item.ID) == "" {
			item.ID = uuid.NewString()
		}
		item.URL = strings.TrimSpace(item.URL)
		item.PageSlug = strings.Trim(strings.TrimSpace(item.PageSlug), "/")
		item.Target = strings.TrimSpace(item.Target)
		if item.Target == "" {
			item.Target = TargetSelf
		}
		if err := item.Validate(); err != nil {
			return nil, &ItemError{Path: itemPath, Err: err}
		}
		if len(item.Children) == 0 {
			item.Children = nil
			continue
		}
		if depth >= MaxDepth {
			return nil, &ItemError{Path: itemPath, Err: ErrMenuDepthExceeded}
		}
		children, err := normalizeLevel(item.Children, itemPath+".children", depth+1)
		if err != nil {
			return nil, err
		}
		item.Children = children
	}
	return out, nil
}

// Reorder sorts a copy of items by order and renumbers every sibling group
// densely. Unlike Normalize it never fails: ids, targets and depth are left
// as they are.
func Reorder(items []MenuItem) []MenuItem {
	out := cloneItems(items)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	renumber(out)
	for i := range out {
		if len(out[i].Children) > 0 {
			out[i].Children = Reorder(out[i].Children)
		}
	}
	return out
}
