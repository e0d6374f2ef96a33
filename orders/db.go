package orders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewSQLiteDB opens (or creates) a SQLite database with foreign keys on.
// This is the default backend, matching the single-user deployment model.
func NewSQLiteDB(path string) (*bun.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// In-memory SQLite gives each connection its own database; pin to one
	// connection so schema and data survive across goroutines.
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewPostgresDB connects to Postgres via bun's pgdriver.
func NewPostgresDB(dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// Init creates the orders and order_items tables if they do not exist yet.
func Init(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*Order)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*OrderItem)(nil)).
		IfNotExists().
		ForeignKey(`("order_id") REFERENCES "orders" ("order_id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create order_items table: %w", err)
	}
	return nil
}
