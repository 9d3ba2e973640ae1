// Package sqlite implements the relational credential store over a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dtroode/credcheck/database"
)

const schemaQuery = `SELECT 1 FROM users LIMIT 0`

type Connection struct {
	*sql.DB
}

// NewConnection opens the SQLite database at path and verifies the users table
// is readable. The file must already exist unless migrate is set.
func NewConnection(ctx context.Context, path string, migrate bool) (*Connection, error) {
	mode := "rw"
	if migrate {
		mode = "rwc"
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=%s", path, mode))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one logical worker issues lookups serially
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach sqlite database %s: %w", path, err)
	}

	if migrate {
		if err := database.Migrate(ctx, db, database.DialectSQLite); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	if err := checkSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Connection{DB: db}, nil
}

func checkSchema(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, schemaQuery)
	if err != nil {
		return fmt.Errorf("failed to read users table: %w", err)
	}
	return rows.Close()
}
