package menus

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunMenuRepository struct {
	db   *bun.DB
	repo repository.Repository[*Menu]
}

var _ MenuRepository = (*BunMenuRepository)(nil)

func NewBunMenuRepository(db *bun.DB) *BunMenuRepository {
	return NewBunMenuRepositoryWithCache(db, nil, nil)
}

// NewBunMenuRepositoryWithCache wraps the bun repository with go-repository-cache
// when both cache collaborators are supplied.
func NewBunMenuRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunMenuRepository {
	var base repository.Repository[*Menu] = repository.MustNewRepository(db, repository.ModelHandlers[*Menu]{
		NewRecord:          func() *Menu { return &Menu{} },
		GetID:              func(m *Menu) uuid.UUID { return m.ID },
		SetID:              func(m *Menu, id uuid.UUID) { m.ID = id },
		GetIdentifier:      func() string { return "name" },
		GetIdentifierValue: func(m *Menu) string { return m.Name },
	})
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunMenuRepository{db: db, repo: base}
}

func (r *BunMenuRepository) Create(ctx context.Context, record *Menu) (*Menu, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunMenuRepository) GetByName(ctx context.Context, name string) (*Menu, error) {
	record, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, name)
	}
	if record == nil {
		return nil, &NotFoundError{Name: name}
	}
	return record, nil
}

func (r *BunMenuRepository) List(ctx context.Context) ([]*Menu, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.name ASC")
	}))
	return records, err
}

func (r *BunMenuRepository) Update(ctx context.Context, record *Menu) (*Menu, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("items", "version", "updated_by", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.Name)
	}
	return updated, nil
}

func (r *BunMenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("menu repository: database not configured")
	}
	result, err := r.db.NewDelete().
		Model((*Menu)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Name: id.String()}
	}
	return nil
}

func mapRepositoryError(err error, name string) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Name: name}
	}
	return fmt.Errorf("menu repository error: %w", err)
}
