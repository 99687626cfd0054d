package pages

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// updatableColumns excludes slug, is_system_page and created_at, which are
// fixed once a page exists.
var updatableColumns = []string{
	"title",
	"meta_description",
	"sections",
	"published",
	"version",
	"updated_by",
	"updated_at",
}

// BunPageRepository stores pages in the "pages" table, optionally behind
// go-repository-cache.
type BunPageRepository struct {
	db   *bun.DB
	repo repository.Repository[*Page]
}

var _ PageRepository = (*BunPageRepository)(nil)

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache caches reads when both cache collaborators
// are supplied.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	var repo repository.Repository[*Page] = repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord:          func() *Page { return &Page{} },
		GetID:              func(p *Page) uuid.UUID { return p.ID },
		SetID:              func(p *Page, id uuid.UUID) { p.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(p *Page) string { return p.Slug },
	})
	if cacheService != nil && keySerializer != nil {
		repo = repositorycache.New(repo, cacheService, keySerializer)
	}
	return &BunPageRepository{db: db, repo: repo}
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create page %q: %w", record.Slug, err)
	}
	return created, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	return lookup(record, err, id.String())
}

func (r *BunPageRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	return lookup(record, err, slug)
}

func (r *BunPageRepository) List(ctx context.Context) ([]*Page, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.created_at DESC")
	}))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return records, nil
}

func (r *BunPageRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(updatableColumns...),
	)
	if err != nil {
		_, err = lookup(nil, err, record.ID.String())
		return nil, err
	}
	return updated, nil
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return errors.New("page repository: database not configured")
	}
	result, err := r.db.NewDelete().
		Model((*Page)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete page %s: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Key: id.String()}
	}
	return nil
}

func lookup(record *Page, err error, key string) (*Page, error) {
	switch {
	case err == nil && record != nil:
		return record, nil
	case err == nil, goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		return nil, &NotFoundError{Key: key}
	default:
		return nil, fmt.Errorf("page %s: %w", key, err)
	}
}
