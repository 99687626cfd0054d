package pages

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryPageRepository keeps pages in process. It backs the "memory" storage
// driver and the service tests.
type MemoryPageRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Page
	bySlug map[string]uuid.UUID
}

var _ PageRepository = (*MemoryPageRepository)(nil)

func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		byID:   map[uuid.UUID]*Page{},
		bySlug: map[string]uuid.UUID{},
	}
}

func (m *MemoryPageRepository) Create(_ context.Context, record *Page) (*Page, error) {
	stored := clonePage(record)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	slug := normalizeSlugKey(stored.Slug)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.bySlug[slug]; taken {
		return nil, ErrSlugExists
	}
	m.byID[stored.ID] = stored
	m.bySlug[slug] = stored.ID
	return clonePage(stored), nil
}

func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(id, id.String())
}

func (m *MemoryPageRepository) GetBySlug(_ context.Context, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(m.bySlug[normalizeSlugKey(slug)], slug)
}

// find expects the lock to be held.
func (m *MemoryPageRepository) find(id uuid.UUID, key string) (*Page, error) {
	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return clonePage(record), nil
}

// List orders pages newest first, breaking ties by slug.
func (m *MemoryPageRepository) List(_ context.Context) ([]*Page, error) {
	m.mu.RLock()
	out := make([]*Page, 0, len(m.byID))
	for _, record := range m.byID {
		out = append(out, clonePage(record))
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Page) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return out, nil
}

// Update writes the columns a save may change. Slug, ID and creation
// metadata stay as stored.
func (m *MemoryPageRepository) Update(_ context.Context, record *Page) (*Page, error) {
	incoming := clonePage(record)

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[incoming.ID]
	if !ok {
		return nil, &NotFoundError{Key: incoming.ID.String()}
	}
	next := clonePage(stored)
	next.Title = incoming.Title
	next.MetaDescription = incoming.MetaDescription
	next.Sections = incoming.Sections
	next.Published = incoming.Published
	next.Version = incoming.Version
	next.UpdatedBy = incoming.UpdatedBy
	next.UpdatedAt = incoming.UpdatedAt
	m.byID[next.ID] = next
	return clonePage(next), nil
}

func (m *MemoryPageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.bySlug, normalizeSlugKey(stored.Slug))
	delete(m.byID, id)
	return nil
}

func normalizeSlugKey(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
