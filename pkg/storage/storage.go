// Package storage opens the SQL database behind the bun repositories and
// creates the page and menu tables.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-sitecms/internal/menus"
	"github.com/goliatone/go-sitecms/internal/pages"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
)

var (
	ErrProviderUnknown = errors.New("storage: unknown provider")
	ErrDSNRequired     = errors.New("storage: dsn is required")
)

// Config selects the SQL provider.
type Config struct {
	Provider string
	DSN      string
}

// Open connects to the configured database and verifies it answers.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var db *bun.DB
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// sqlite serializes writers; one connection keeps in-memory databases shared.
		sqlDB.SetMaxOpenConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case ProviderPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderUnknown, cfg.Provider)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", cfg.Provider, err)
	}
	return db, nil
}

// EnsureSchema creates the pages and menus tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: db is required")
	}
	models := []any{(*pages.Page)(nil), (*menus.Menu)(nil)}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	return nil
}

// Ping returns a health check bound to db.
func Ping(db *bun.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
