package editor

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-sitecms/internal/pages"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/internal/util"
	"github.com/goliatone/go-sitecms/internal/viewstate"
)

// PageEditor holds one admin's working copy of a page. Every operation runs
// to completion under the editor lock; Load, Save and uploads release it
// while the backend is called so edits can continue meanwhile.
type PageEditor struct {
	backend PageBackend
	opts    options

	mu       sync.Mutex
	status   Status
	page     *pages.Page
	dirty    bool
	revision uint64
	lastErr  error
	notices  noticeBoard
	uploads  map[string]UploadTarget
	view     *viewstate.EditorState
}

func NewPageEditor(backend PageBackend, opts ...Option) (*PageEditor, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PageEditor{
		backend: backend,
		opts:    cfg,
		status:  StatusIdle,
		uploads: map[string]UploadTarget{},
		view:    viewstate.NewEditorState(cfg.language),
	}, nil
}

func (e *PageEditor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Page returns a copy of the working page, or nil when nothing is loaded.
func (e *PageEditor) Page() *pages.Page {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page.Clone()
}

// Dirty reports unsaved edits.
func (e *PageEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Err is the failure of the last Load or Save, if any.
func (e *PageEditor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *PageEditor) Notices() []Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notices.list()
}

func (e *PageEditor) Dismiss(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notices.dismiss(id)
}

// View returns a copy of the UI state.
func (e *PageEditor) View() viewstate.EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := *e.view
	out.Expanded = maps.Clone(e.view.Expanded)
	out.Carousels = maps.Clone(e.view.Carousels)
	return out
}

func (e *PageEditor) SetLanguage(lang string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.SetLanguage(lang)
}

// ToggleSection expands or collapses a section form.
func (e *PageEditor) ToggleSection(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.Toggle(id)
}

// SectionTypes lists the descriptors an admin can add.
func (e *PageEditor) SectionTypes() []sections.Descriptor {
	return e.opts.registry.Descriptors()
}

// Form returns the descriptor driving a section's form. Unknown types get
// the generic content form.
func (e *PageEditor) Form(sectionID string) (sections.Descriptor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.page == nil {
		return sections.Descriptor{}, ErrNotLoaded
	}
	idx := sectionIndex(e.page.Sections, sectionID)
	if idx < 0 {
		return sections.Descriptor{}, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	return e.opts.registry.Resolve(e.page.Sections[idx].Type), nil
}

// Load fetches the page by slug. A miss or a failed fetch leaves the editor
// ready without a page and posts a notice.
func (e *PageEditor) Load(ctx context.Context, slug string) error {
	e.mu.Lock()
	if e.status == StatusSaving {
		e.mu.Unlock()
		return ErrSaveInProgress
	}
	e.status = StatusLoading
	e.mu.Unlock()

	page, err := e.backend.LoadPage(ctx, slug)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = StatusReady
	e.uploads = map[string]UploadTarget{}
	if err != nil {
		kind, classified := loadFailure(err)
		e.page = nil
		e.dirty = false
		e.lastErr = classified
		e.notices.add(kind, classified)
		e.opts.logger.Warn("editor.page.load_failed", "slug", slug, "error", err)
		return classified
	}
	e.adopt(page)
	e.lastErr = nil
	e.opts.logger.Debug("editor.page.loaded", "slug", page.Slug, "sections", len(page.Sections))
	return nil
}

func (e *PageEditor) adopt(page *pages.Page) {
	e.page = page.Clone()
	e.page.Sections = sections.Normalize(e.page.Sections)
	e.dirty = false
	e.view.Forget(sectionIDs(e.page.Sections))
}

// Save sends the whole page. On success the server copy replaces local
// state unless edits were made while the request was in flight; those stay
// dirty on top of the new version.
func (e *PageEditor) Save(ctx context.Context) (*pages.Page, error) {
	e.mu.Lock()
	if e.page == nil {
		e.mu.Unlock()
		return nil, ErrNotLoaded
	}
	if e.status == StatusSaving {
		e.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	snapshot := e.page.Clone()
	revision := e.revision
	e.status = StatusSaving
	e.mu.Unlock()

	list := sections.Normalize(snapshot.Sections)
	title := snapshot.Title.Clone()
	meta := snapshot.MetaDescription.Clone()
	published := snapshot.Published
	req := pages.UpdatePageRequest{
		ID:              snapshot.ID,
		Title:           &title,
		MetaDescription: &meta,
		Sections:        &list,
		Published:       &published,
	}
	if e.opts.concurrency != ConcurrencyLastWriteWins {
		version := snapshot.Version
		req.ExpectedVersion = &version
	}

	saved, err := e.backend.SavePage(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = StatusReady
	if err != nil {
		kind, classified := saveFailure(err)
		e.lastErr = classified
		e.notices.add(kind, classified)
		e.opts.logger.Warn("editor.page.save_failed", "slug", snapshot.Slug, "error", err)
		return nil, classified
	}
	e.lastErr = nil
	if e.revision == revision {
		e.adopt(saved)
	} else {
		e.page.Version = saved.Version
		e.page.UpdatedAt = saved.UpdatedAt
	}
	e.opts.logger.Info("editor.page.saved", "slug", saved.Slug, "version", saved.Version, "dirty", e.dirty)
	return saved.Clone(), nil
}

// mutate applies fn to a copy of the page and keeps it only when fn
// succeeds. Rejected writes post a validation notice.
func (e *PageEditor) mutate(fn func(page *pages.Page) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutateLocked(fn)
}

func (e *PageEditor) mutateLocked(fn func(page *pages.Page) error) error {
	if e.page == nil {
		return ErrNotLoaded
	}
	working := e.page.Clone()
	if err := fn(working); err != nil {
		if IsValidation(err) {
			e.notices.add(NoticeValidation, err)
		}
		return err
	}
	e.page = working
	e.revision++
	e.dirty = true
	return nil
}

// AddSection appends a visible section of sectionType with default content
// and returns its id.
func (e *PageEditor) AddSection(sectionType string) (string, error) {
	var id string
	err := e.mutate(func(page *pages.Page) error {
		section, err := e.opts.registry.NewSection(sectionType, len(page.Sections))
		if err != nil {
			return rejectField(err, "cannot add section")
		}
		page.Sections = append(page.Sections, section)
		id = section.ID
		return nil
	})
	if err == nil {
		e.mu.Lock()
		e.view.Activate(id)
		e.mu.Unlock()
	}
	return id, err
}

func (e *PageEditor) RemoveSection(id string) error {
	err := e.mutate(func(page *pages.Page) error {
		idx, err := findSection(page, id)
		if err != nil {
			return err
		}
		page.Sections = append(page.Sections[:idx], page.Sections[idx+1:]...)
		sections.Renumber(page.Sections)
		return nil
	})
	if err == nil {
		e.mu.Lock()
		e.view.Forget(sectionIDs(e.page.Sections))
		e.mu.Unlock()
	}
	return err
}

// ReorderSection moves a section to newIndex. Out of range indexes clamp.
func (e *PageEditor) ReorderSection(id string, newIndex int) error {
	return e.mutate(func(page *pages.Page) error {
		idx, err := findSection(page, id)
		if err != nil {
			return err
		}
		page.Sections = util.Move(page.Sections, idx, newIndex)
		sections.Renumber(page.Sections)
		return nil
	})
}

// DragSection drops activeID onto the position of overID.
func (e *PageEditor) DragSection(activeID, overID string) error {
	return e.mutate(func(page *pages.Page) error {
		from, err := findSection(page, activeID)
		if err != nil {
			return err
		}
		to, err := findSection(page, overID)
		if err != nil {
			return err
		}
		page.Sections = util.Move(page.Sections, from, to)
		sections.Renumber(page.Sections)
		return nil
	})
}

// UpdateSectionContent replaces one content field after checking it
// against the section's descriptor.
func (e *PageEditor) UpdateSectionContent(id, field string, value any) error {
	return e.mutate(func(page *pages.Page) error {
		section, err := sectionRef(page, id)
		if err != nil {
			return err
		}
		normalized, err := e.opts.registry.ValidateField(e.formType(section.Type), field, value)
		if err != nil {
			return rejectField(err, "field rejected")
		}
		setContent(section, field, normalized)
		return nil
	})
}

// SetSectionText writes one language of a localized field.
func (e *PageEditor) SetSectionText(id, field, lang, value string) error {
	return e.mutate(func(page *pages.Page) error {
		section, err := sectionRef(page, id)
		if err != nil {
			return err
		}
		desc := e.opts.registry.Resolve(section.Type)
		def, ok := desc.Field(field)
		if !ok {
			return rejectField(&sections.FieldError{Type: desc.Type, Field: field, Reason: "not declared", Err: sections.ErrUnknownField}, "field rejected")
		}
		if !def.Kind.Localized() {
			return rejectField(fmt.Errorf("%w: %s", ErrNotLocalized, field), "field rejected")
		}
		text, _ := section.Content.Text(field)
		setContent(section, field, text.With(lang, value))
		return nil
	})
}

func (e *PageEditor) SetSectionVisible(id string, visible bool) error {
	return e.mutate(func(page *pages.Page) error {
		section, err := sectionRef(page, id)
		if err != nil {
			return err
		}
		section.Visible = visible
		return nil
	})
}

// ChangeSectionType rebuilds content for newType, keeping shared fields.
func (e *PageEditor) ChangeSectionType(id, newType string) error {
	return e.mutate(func(page *pages.Page) error {
		section, err := sectionRef(page, id)
		if err != nil {
			return err
		}
		content, err := e.opts.registry.Rebuild(section.Content, section.Type, newType)
		if err != nil {
			return rejectField(err, "cannot change section type")
		}
		section.Type = strings.ToLower(strings.TrimSpace(newType))
		section.Content = content
		return nil
	})
}

func (e *PageEditor) SetTitle(lang, value string) error {
	return e.mutate(func(page *pages.Page) error {
		page.Title = page.Title.With(lang, value)
		return nil
	})
}

func (e *PageEditor) SetMetaDescription(lang, value string) error {
	return e.mutate(func(page *pages.Page) error {
		page.MetaDescription = page.MetaDescription.With(lang, value)
		return nil
	})
}

func (e *PageEditor) SetPublished(published bool) error {
	return e.mutate(func(page *pages.Page) error {
		page.Published = published
		return nil
	})
}

// formType maps unknown types onto the generic form so their content
// stays editable.
func (e *PageEditor) formType(sectionType string) string {
	return e.opts.registry.Resolve(sectionType).Type
}

func findSection(page *pages.Page, id string) (int, error) {
	idx := sectionIndex(page.Sections, id)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	return idx, nil
}

func sectionRef(page *pages.Page, id string) (*sections.Section, error) {
	idx, err := findSection(page, id)
	if err != nil {
		return nil, err
	}
	return &page.Sections[idx], nil
}

func sectionIndex(list []sections.Section, id string) int {
	return slices.IndexFunc(list, func(section sections.Section) bool { return section.ID == id })
}

func sectionIDs(list []sections.Section) []string {
	ids := make([]string, len(list))
	for i, section := range list {
		ids[i] = section.ID
	}
	return ids
}

func setContent(section *sections.Section, field string, value any) {
	if section.Content == nil {
		section.Content = sections.Content{}
	}
	section.Content[field] = value
}
