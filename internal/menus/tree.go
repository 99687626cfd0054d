package menus

import (
	"slices"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/util"
)

// ItemPatch is a partial update of one menu item. Nil fields are kept.
type ItemPatch struct {
	Label    *i18n.Text `json:"label,omitempty"`
	URL      *string    `json:"url,omitempty"`
	Target   *string    `json:"target,omitempty"`
	Visible  *bool      `json:"visible,omitempty"`
	PageSlug *string    `json:"page_slug,omitempty"`
}

// Apply returns item with the patch applied.
func (p ItemPatch) Apply(item MenuItem) MenuItem {
	out := item.Clone()
	if p.Label != nil {
		out.Label = p.Label.Clone()
	}
	if p.URL != nil {
		out.URL = *p.URL
	}
	if p.Target != nil {
		out.Target = *p.Target
	}
	if p.Visible != nil {
		out.Visible = *p.Visible
	}
	if p.PageSlug != nil {
		out.PageSlug = *p.PageSlug
	}
	return out
}

// Append adds item at the end of the top level, or of parentID's children.
// Appending under a child returns ErrMenuDepthExceeded.
func Append(items []MenuItem, parentID string, item MenuItem) ([]MenuItem, error) {
	out := cloneItems(items)
	if parentID == "" {
		item.Order = len(out)
		return append(out, item), nil
	}
	for idx := range out {
		if out[idx].ID == parentID {
			item.Order = len(out[idx].Children)
			out[idx].Children = append(out[idx].Children, item)
			return out, nil
		}
		for _, child := range out[idx].Children {
			if child.ID == parentID {
				return nil, ErrMenuDepthExceeded
			}
		}
	}
	return nil, &NotFoundError{Name: parentID}
}

// Remove deletes the item (and its children) and renumbers its siblings.
func Remove(items []MenuItem, id string) ([]MenuItem, bool) {
	out := cloneItems(items)
	if idx := slices.IndexFunc(out, func(item MenuItem) bool { return item.ID == id }); idx >= 0 {
		out = append(out[:idx], out[idx+1:]...)
		renumber(out)
		return out, true
	}
	for i := range out {
		children := out[i].Children
		if idx := slices.IndexFunc(children, func(item MenuItem) bool { return item.ID == id }); idx >= 0 {
			out[i].Children = append(children[:idx], children[idx+1:]...)
			renumber(out[i].Children)
			return out, true
		}
	}
	return items, false
}

// Move repositions an item within its sibling group. newIndex is clamped.
func Move(items []MenuItem, id string, newIndex int) ([]MenuItem, bool) {
	out := cloneItems(items)
	if idx := slices.IndexFunc(out, func(item MenuItem) bool { return item.ID == id }); idx >= 0 {
		out = util.Move(out, idx, newIndex)
		renumber(out)
		return out, true
	}
	for i := range out {
		if idx := slices.IndexFunc(out[i].Children, func(item MenuItem) bool { return item.ID == id }); idx >= 0 {
			out[i].Children = util.Move(out[i].Children, idx, newIndex)
			renumber(out[i].Children)
			return out, true
		}
	}
	return items, false
}

// Update replaces the item with id by fn(item).
func Update(items []MenuItem, id string, fn func(MenuItem) MenuItem) ([]MenuItem, bool) {
	out := cloneItems(items)
	for i := range out {
		if out[i].ID == id {
			out[i] = fn(out[i])
			return out, true
		}
		for j := range out[i].Children {
			if out[i].Children[j].ID == id {
				out[i].Children[j] = fn(out[i].Children[j])
				return out, true
			}
		}
	}
	return items, false
}

func renumber(items []MenuItem) {
	for i := range items {
		items[i].Order = i
	}
}
