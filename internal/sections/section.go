package sections

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

// Section is one persisted content block of a page.
type Section struct {
	ID      string  `json:"id"`
	Type    string  `json:"section_type"`
	Order   int     `json:"order"`
	Visible bool    `json:"visible"`
	Content Content `json:"content"`
}

// UnmarshalJSON defaults visible to true when the key is missing or null.
func (s *Section) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID      string  `json:"id"`
		Type    string  `json:"section_type"`
		Order   int     `json:"order"`
		Visible *bool   `json:"visible"`
		Content Content `json:"content"`
	}
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Section{
		ID:      raw.ID,
		Type:    raw.Type,
		Order:   raw.Order,
		Visible: raw.Visible == nil || *raw.Visible,
		Content: raw.Content,
	}
	if s.Content == nil {
		s.Content = Content{}
	}
	return nil
}

func (s Section) Clone() Section {
	out := s
	out.Content = s.Content.Clone()
	return out
}

// CloneAll deep copies a section list.
func CloneAll(list []Section) []Section {
	if list == nil {
		return nil
	}
	out := make([]Section, len(list))
	for i, section := range list {
		out[i] = section.Clone()
	}
	return out
}

// Sorted returns a copy ordered by Order. Ties keep their relative position.
func Sorted(list []Section) []Section {
	out := CloneAll(list)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out
}

// Renumber assigns dense orders following slice position.
func Renumber(list []Section) {
	for i := range list {
		list[i].Order = i
	}
}

// Normalize sorts, renumbers and assigns missing IDs. Content maps are never
// nil afterwards.
func Normalize(list []Section) []Section {
	out := Sorted(list)
	Renumber(out)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = NewID()
		}
		if out[i].Content == nil {
			out[i].Content = Content{}
		}
	}
	return out
}

// NewID returns a fresh opaque identifier for sections and items.
func NewID() string {
	return uuid.NewString()
}

// RenumberItems sorts items by order and assigns dense orders and IDs.
func RenumberItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	for i := range out {
		out[i].Order = i
		if out[i].ID == "" {
			out[i].ID = NewID()
		}
	}
	return out
}
