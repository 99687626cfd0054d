package viewstate

import "slices"

// EditorState tracks what the admin is looking at in the page editor.
type EditorState struct {
	ActiveSectionID string
	Language        string
	Expanded        map[string]bool
	Dragging        string
	Carousels       map[string]Carousel
}

func NewEditorState(language string) *EditorState {
	return &EditorState{
		Language:  language,
		Expanded:  map[string]bool{},
		Carousels: map[string]Carousel{},
	}
}

func (s *EditorState) SetLanguage(lang string) {
	s.Language = lang
}

func (s *EditorState) Activate(sectionID string) {
	s.ActiveSectionID = sectionID
	s.Expanded[sectionID] = true
}

// Toggle flips the expanded flag and returns the new value.
func (s *EditorState) Toggle(sectionID string) bool {
	s.Expanded[sectionID] = !s.Expanded[sectionID]
	return s.Expanded[sectionID]
}

func (s *EditorState) BeginDrag(sectionID string) {
	s.Dragging = sectionID
}

// EndDrag clears the drag source and returns it.
func (s *EditorState) EndDrag() string {
	id := s.Dragging
	s.Dragging = ""
	return id
}

// Forget drops state for sections that no longer exist.
func (s *EditorState) Forget(existing []string) {
	for id := range s.Expanded {
		if !slices.Contains(existing, id) {
			delete(s.Expanded, id)
		}
	}
	for id := range s.Carousels {
		if !slices.Contains(existing, id) {
			delete(s.Carousels, id)
		}
	}
	if s.ActiveSectionID != "" && !slices.Contains(existing, s.ActiveSectionID) {
		s.ActiveSectionID = ""
	}
	if s.Dragging != "" && !slices.Contains(existing, s.Dragging) {
		s.Dragging = ""
	}
}

// MenuEditorState tracks the menu editor selection.
type MenuEditorState struct {
	MenuName string
	Language string
	Selected string
	Expanded map[string]bool
}

func NewMenuEditorState(menuName, language string) *MenuEditorState {
	return &MenuEditorState{MenuName: menuName, Language: language, Expanded: map[string]bool{}}
}

func (s *MenuEditorState) Select(itemID string) {
	s.Selected = itemID
	s.Expanded[itemID] = true
}
