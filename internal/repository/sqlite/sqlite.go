// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database, a single file next to the binary. It is the
// default backend for local development and for the test suite (":memory:").
// PostgreSQL is available through internal/repository/postgres.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so no C compiler is
// needed and the driver's typed errors can be inspected (see errors.go).
//
// The pattern is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// The driver registers itself with database/sql as "sqlite" in its init().
	_ "modernc.org/sqlite"

	"github.com/sakif/news-api/internal/query"
	"github.com/sakif/news-api/internal/repository"
)

var _ repository.Store = (*DB)(nil)
var _ repository.Seeder = (*DB)(nil)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/news.db"  → file-based database (persistent)
//   - ":memory:"      → in-memory database (tests)
//
// SINGLE CONNECTION:
// An in-memory database exists per connection, and SQLite serialises writers
// anyway, so the pool is capped at one connection. PRAGMAs are also
// per-connection, which this keeps consistent.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. Comments and articles rely on
	// them to reject unknown authors, topics and articles.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Dialect() query.Dialect {
	return query.SQLite
}

// Columns returns the column names of table in declaration order.
func (db *DB) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, wrap("listing columns of "+table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrap("scanning column name", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterating columns", err)
	}
	return cols, nil
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS makes it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS topics (
			slug        TEXT PRIMARY KEY,
			description TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS users (
			username   TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating topics and users tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS articles (
			article_id INTEGER PRIMARY KEY AUTOINCREMENT,
			title      TEXT NOT NULL,
			topic      TEXT NOT NULL REFERENCES topics(slug),
			author     TEXT NOT NULL REFERENCES users(username),
			body       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			votes      INTEGER NOT NULL DEFAULT 0
				CONSTRAINT articles_votes_range CHECK (votes BETWEEN -2147483648 AND 2147483647)
		);
		CREATE INDEX IF NOT EXISTS idx_articles_topic ON articles(topic);
	`)
	if err != nil {
		return fmt.Errorf("creating articles table: %w", err)
	}

	// article_img_url arrived after the first schema; keep older files working.
	if err := db.addColumnIfNotExists("articles", "article_img_url",
		"TEXT NOT NULL DEFAULT ''"); err != nil {
		return fmt.Errorf("adding article_img_url to articles: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			comment_id INTEGER PRIMARY KEY AUTOINCREMENT,
			body       TEXT NOT NULL,
			article_id INTEGER NOT NULL REFERENCES articles(article_id) ON DELETE CASCADE,
			author     TEXT NOT NULL REFERENCES users(username),
			votes      INTEGER NOT NULL DEFAULT 0
				CONSTRAINT comments_votes_range CHECK (votes BETWEEN -2147483648 AND 2147483647),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_article_id ON comments(article_id);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	return nil
}

// addColumnIfNotExists adds a column to a table only if it doesn't already exist.
// Makes ALTER TABLE migrations idempotent.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}
