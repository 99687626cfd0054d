package menus

import (
	"encoding/json"
	"time"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// MaxDepth is the deepest nesting a menu may carry: item then child.
const MaxDepth = 2

// Menu is a named navigation tree. Items are stored inline.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name      string     `bun:"name,notnull,unique" json:"name"`
	Items     []MenuItem `bun:"items,type:jsonb" json:"items"`
	Version   int        `bun:"version,notnull,default:1" json:"version"`
	CreatedBy uuid.UUID  `bun:"created_by,type:uuid,nullzero" json:"created_by,omitempty"`
	UpdatedBy uuid.UUID  `bun:"updated_by,type:uuid,nullzero" json:"updated_by,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// MenuItem is one navigation entry. An item with children renders as a
// dropdown and its own URL is not used.
type MenuItem struct {
	ID       string     `json:"id"`
	Label    i18n.Text  `json:"label"`
	URL      string     `json:"url"`
	Target   string     `json:"target"`
	Order    int        `json:"order"`
	Visible  bool       `json:"visible"`
	PageSlug string     `json:"page_slug,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// UnmarshalJSON defaults visible to true when the key is missing.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	type alias MenuItem
	raw := struct {
		*alias
		Visible *bool `json:"visible"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Visible = raw.Visible == nil || *raw.Visible
	return nil
}

// HasChildren reports whether the item renders as a dropdown.
func (m MenuItem) HasChildren() bool {
	return len(m.Children) > 0
}

func (m MenuItem) Clone() MenuItem {
	out := m
	out.Label = m.Label.Clone()
	out.Children = cloneItems(m.Children)
	return out
}

func cloneItems(items []MenuItem) []MenuItem {
	if items == nil {
		return nil
	}
	out := make([]MenuItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// Find locates an item anywhere in the tree. The second value is the parent
// id, empty for top-level items.
func Find(items []MenuItem, id string) (MenuItem, string, bool) {
	for _, item := range items {
		if item.ID == id {
			return item.Clone(), "", true
		}
		for _, child := range item.Children {
			if child.ID == id {
				return child.Clone(), item.ID, true
			}
		}
	}
	return MenuItem{}, "", false
}

func cloneMenu(m *Menu) *Menu {
	if m == nil {
		return nil
	}
	out := *m
	out.Items = cloneItems(m.Items)
	return &out
}

// Clone deep copies the menu.
func (m *Menu) Clone() *Menu {
	return cloneMenu(m)
}
