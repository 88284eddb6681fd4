package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/tursodatabase/go-libsql"
)

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DB is a connection pool together with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect

	pool *pgxpool.Pool
}

// Open connects to the database named by url. postgres:// and postgresql://
// URLs go through a pgx pool; file:, libsql://, http(s):// URLs and bare
// paths go through libSQL.
func Open(ctx context.Context, url string) (*DB, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return openPostgres(ctx, url)
	case strings.HasPrefix(url, "libsql://"), strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return openLibSQL(ctx, url, false)
	case strings.HasPrefix(url, "file:"):
		return openLibSQL(ctx, url, true)
	case url == "":
		return nil, fmt.Errorf("empty database url")
	default:
		return openLibSQL(ctx, "file:"+url, true)
	}
}

// Close releases the pool.
func (db *DB) Close() error {
	err := db.DB.Close()
	if db.pool != nil {
		db.pool.Close()
	}
	return err
}

// Rebind rewrites ? placeholders into the dialect's form.
func (db *DB) Rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func openPostgres(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: DialectPostgres, pool: pool}, nil
}

// openLibSQL creates a libSQL connection. Local files are configured for
// concurrent use: WAL journal mode, 5 s busy timeout, foreign keys enabled.
func openLibSQL(ctx context.Context, dsn string, local bool) (*DB, error) {
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if local {
		// libSQL rejects Exec for PRAGMAs that return rows, but some PRAGMAs
		// (like foreign_keys=ON) return nothing. Use QueryContext and drain
		// rows to handle both cases uniformly.
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA foreign_keys=ON",
		}
		for _, p := range pragmas {
			rows, err := db.QueryContext(ctx, p)
			if err != nil {
				db.Close()
				return nil, fmt.Errorf("executing %s: %w", p, err)
			}
			rows.Close()
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{DB: db, Dialect: DialectSQLite}, nil
}
