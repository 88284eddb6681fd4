package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/warriorsbball/painttouch/internal/database"
)

//go:embed *.sql
var fs embed.FS

// Run applies all pending sync schema migrations against db.
func Run(ctx context.Context, db *database.DB) error {
	dialect := goose.DialectSQLite3
	if db.Dialect == database.DialectPostgres {
		dialect = goose.DialectPostgres
	}

	p, err := goose.NewProvider(dialect, db.DB, fs)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
