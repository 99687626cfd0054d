package editor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/goliatone/go-sitecms/internal/i18n"
	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/viewstate"
	"github.com/google/uuid"
)

// MenuEditor edits the two-level item tree of one menu. It shares the page
// editor's lifecycle: Loading, Ready, Saving.
type MenuEditor struct {
	backend MenuBackend
	opts    options

	mu       sync.Mutex
	status   Status
	menu     *menus.Menu
	dirty    bool
	revision uint64
	lastErr  error
	notices  noticeBoard
	view     *viewstate.MenuEditorState
}

func NewMenuEditor(backend MenuBackend, opts ...Option) (*MenuEditor, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MenuEditor{
		backend: backend,
		opts:    cfg,
		status:  StatusIdle,
		view:    viewstate.NewMenuEditorState("", cfg.language),
	}, nil
}

func (e *MenuEditor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *MenuEditor) Menu() *menus.Menu {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.menu.Clone()
}

func (e *MenuEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

func (e *MenuEditor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *MenuEditor) Notices() []Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notices.list()
}

func (e *MenuEditor) Dismiss(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notices.dismiss(id)
}

func (e *MenuEditor) View() viewstate.MenuEditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := *e.view
	out.Expanded = maps.Clone(e.view.Expanded)
	return out
}

func (e *MenuEditor) Select(itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.Select(itemID)
}

// Load fetches the named menu; backends may create it on first access.
func (e *MenuEditor) Load(ctx context.Context, name string) error {
	e.mu.Lock()
	if e.status == StatusSaving {
		e.mu.Unlock()
		return ErrSaveInProgress
	}
	e.status = StatusLoading
	e.mu.Unlock()

	menu, err := e.backend.LoadMenu(ctx, name)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = StatusReady
	e.view.MenuName = name
	if err != nil {
		kind, classified := loadFailure(err)
		e.menu = nil
		e.dirty = false
		e.lastErr = classified
		e.notices.add(kind, classified)
		e.opts.logger.Warn("editor.menu.load_failed", "name", name, "error", err)
		return classified
	}
	e.adopt(menu)
	e.lastErr = nil
	return nil
}

// adopt takes menu as the clean editor state. Items that fail validation
// are kept, in dense order, with a notice so they can be fixed before saving.
func (e *MenuEditor) adopt(menu *menus.Menu) {
	e.menu = menu.Clone()
	items, err := menus.Normalize(e.menu.Items)
	if err != nil {
		items = menus.Reorder(e.menu.Items)
		e.notices.add(NoticeValidation, err)
		e.opts.logger.Warn("editor.menu.invalid_items", "name", e.menu.Name, "error", err)
	}
	e.menu.Items = items
	e.dirty = false
}

// Save sends the full item tree.
func (e *MenuEditor) Save(ctx context.Context) (*menus.Menu, error) {
	e.mu.Lock()
	if e.menu == nil {
		e.mu.Unlock()
		return nil, ErrNotLoaded
	}
	if e.status == StatusSaving {
		e.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	snapshot := e.menu.Clone()
	revision := e.revision
	e.status = StatusSaving
	e.mu.Unlock()

	req := menus.ReplaceMenuRequest{Name: snapshot.Name, Items: snapshot.Items}
	if e.opts.concurrency != ConcurrencyLastWriteWins {
		version := snapshot.Version
		req.ExpectedVersion = &version
	}
	saved, err := e.backend.SaveMenu(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = StatusReady
	if err != nil {
		kind, classified := saveFailure(err)
		e.lastErr = classified
		e.notices.add(kind, classified)
		e.opts.logger.Warn("editor.menu.save_failed", "name", snapshot.Name, "error", err)
		return nil, classified
	}
	e.lastErr = nil
	if e.revision == revision {
		e.adopt(saved)
	} else {
		e.menu.Version = saved.Version
		e.menu.UpdatedAt = saved.UpdatedAt
	}
	e.opts.logger.Info("editor.menu.saved", "name", saved.Name, "version", saved.Version)
	return saved.Clone(), nil
}

func (e *MenuEditor) mutate(fn func(items []menus.MenuItem) ([]menus.MenuItem, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.menu == nil {
		return ErrNotLoaded
	}
	items, err := fn(e.menu.Clone().Items)
	if err != nil {
		if IsValidation(err) {
			e.notices.add(NoticeValidation, err)
		}
		return err
	}
	e.menu.Items = items
	e.revision++
	e.dirty = true
	return nil
}

func newMenuItem(label i18n.Text, url string) menus.MenuItem {
	return menus.MenuItem{
		ID:      uuid.NewString(),
		Label:   label.Clone(),
		URL:     url,
		Target:  menus.TargetSelf,
		Visible: true,
	}
}

// AddItem appends a top-level item and returns its id.
func (e *MenuEditor) AddItem(label i18n.Text, url string) (string, error) {
	item := newMenuItem(label, url)
	err := e.mutate(func(items []menus.MenuItem) ([]menus.MenuItem, error) {
		if err := item.Validate(); err != nil {
			return nil, rejectField(err, "menu item rejected")
		}
		return menus.Append(items, "", item)
	})
	return item.ID, err
}

// AddChild appends an item under parentID. Children cannot have children.
func (e *MenuEditor) AddChild(parentID string, label i18n.Text, url string) (string, error) {
	item := newMenuItem(label, url)
	err := e.mutate(func(items []menus.MenuItem) ([]menus.MenuItem, error) {
		if err := item.Validate(); err != nil {
			return nil, rejectField(err, "menu item rejected")
		}
		out, err := menus.Append(items, parentID, item)
		if errors.Is(err, menus.ErrMenuNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, parentID)
		}
		return out, err
	})
	if err == nil {
		e.mu.Lock()
		e.view.Expanded[parentID] = true
		e.mu.Unlock()
	}
	return item.ID, err
}

func (e *MenuEditor) RemoveItem(id string) error {
	return e.mutate(func(items []menus.MenuItem) ([]menus.MenuItem, error) {
		out, ok := menus.Remove(items, id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		return out, nil
	})
}

// ReorderItem moves an item within its sibling group only.
func (e *MenuEditor) ReorderItem(id string, newIndex int) error {
	return e.mutate(func(items []menus.MenuItem) ([]menus.MenuItem, error) {
		out, ok := menus.Move(items, id, newIndex)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		return out, nil
	})
}

// UpdateItem applies patch; the result must still validate.
func (e *MenuEditor) UpdateItem(id string, patch menus.ItemPatch) error {
	return e.mutate(func(items []menus.MenuItem) ([]menus.MenuItem, error) {
		var invalid error
		out, ok := menus.Update(items, id, func(item menus.MenuItem) menus.MenuItem {
			patched := patch.Apply(item)
			if err := patched.Validate(); err != nil {
				invalid = rejectField(err, "menu item rejected")
				return item
			}
			return patched
		})
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		if invalid != nil {
			return nil, invalid
		}
		return out, nil
	})
}

// SetItemLabel writes one language of an item label.
func (e *MenuEditor) SetItemLabel(id, lang, value string) error {
	return e.mutate(func(items []menus.MenuItem) ([]menus.MenuItem, error) {
		out, ok := menus.Update(items, id, func(item menus.MenuItem) menus.MenuItem {
			item.Label = item.Label.With(lang, value)
			return item
		})
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		return out, nil
	})
}
