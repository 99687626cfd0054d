package menus

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryMenuRepository keeps menus in process memory.
type MemoryMenuRepository struct {
	mu     sync.RWMutex
	menus  map[uuid.UUID]*Menu
	byName map[string]uuid.UUID
}

var _ MenuRepository = (*MemoryMenuRepository)(nil)

func NewMemoryMenuRepository() *MemoryMenuRepository {
	return &MemoryMenuRepository{
		menus:  make(map[uuid.UUID]*Menu),
		byName: make(map[string]uuid.UUID),
	}
}

func (m *MemoryMenuRepository) Create(_ context.Context, record *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := nameKey(record.Name)
	if _, exists := m.byName[key]; exists {
		return nil, ErrMenuExists
	}
	copied := cloneMenu(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.menus[copied.ID] = copied
	m.byName[key] = copied.ID
	return cloneMenu(copied), nil
}

func (m *MemoryMenuRepository) GetByName(_ context.Context, name string) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[nameKey(name)]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return cloneMenu(m.menus[id]), nil
}

func (m *MemoryMenuRepository) List(_ context.Context) ([]*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Menu, 0, len(m.menus))
	for _, record := range m.menus {
		out = append(out, cloneMenu(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryMenuRepository) Update(_ context.Context, record *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.menus[record.ID]
	if !ok {
		return nil, &NotFoundError{Name: record.Name}
	}
	updated := cloneMenu(current)
	updated.Items = cloneItems(record.Items)
	updated.Version = record.Version
	updated.UpdatedBy = record.UpdatedBy
	updated.UpdatedAt = record.UpdatedAt
	m.menus[record.ID] = updated
	return cloneMenu(updated), nil
}

func (m *MemoryMenuRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.menus[id]
	if !ok {
		return &NotFoundError{Name: id.String()}
	}
	delete(m.byName, nameKey(record.Name))
	delete(m.menus, id)
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
