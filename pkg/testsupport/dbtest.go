// Package testsupport holds helpers shared by repository tests.
package testsupport

import (
	"context"
	"database/sql"
	"net/url"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteDB opens an in-memory sqlite database private to tb and creates a
// table for each model. The database is closed when tb finishes.
func NewSQLiteDB(tb testing.TB, models ...any) *bun.DB {
	tb.Helper()
	dsn := "file:" + url.PathEscape(tb.Name()) + "?mode=memory&cache=shared"
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = db.Close() })

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(context.Background()); err != nil {
			tb.Fatalf("create table for %T: %v", model, err)
		}
	}
	return db
}
