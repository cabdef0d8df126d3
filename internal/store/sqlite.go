package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tormodhaugland/ft/internal/tree"
)

// SQLiteBackend stores templates as JSON documents in a SQLite database.
type SQLiteBackend struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens or creates the template database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	b := &SQLiteBackend{conn: conn, path: dbPath}
	if err := b.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return b, nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.conn.Close()
}

// Path returns the database file path.
func (b *SQLiteBackend) Path() string {
	return b.path
}

func (b *SQLiteBackend) migrate() error {
	_, err := b.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var currentVersion int
	row := b.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := b.conn.Exec(m.sql); err != nil {
			return fmt.Errorf("migration v%d: %w", m.version, err)
		}
		if _, err := b.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("recording migration v%d: %w", m.version, err)
		}
	}
	return nil
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS templates (
    name TEXT PRIMARY KEY,
    document TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

func (b *SQLiteBackend) Read(ctx context.Context, name string) (*tree.Node, error) {
	var doc string
	err := b.conn.QueryRowContext(ctx, "SELECT document FROM templates WHERE name = ?", name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &TemplateNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}

	root := tree.NewNode()
	if err := json.Unmarshal([]byte(doc), root); err != nil {
		return nil, &InvalidDocumentError{Path: b.path + "#" + name, Err: err}
	}
	return root, nil
}

func (b *SQLiteBackend) Write(ctx context.Context, name string, root *tree.Node) error {
	doc, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("encoding template %s: %w", name, err)
	}
	_, err = b.conn.ExecContext(ctx, `
		INSERT INTO templates (name, document) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`, name, string(doc))
	if err != nil {
		return fmt.Errorf("writing template %s: %w", name, err)
	}
	return nil
}

func (b *SQLiteBackend) Exists(ctx context.Context, name string) (bool, error) {
	var count int
	err := b.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM templates WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking template %s: %w", name, err)
	}
	return count > 0, nil
}

func (b *SQLiteBackend) Names(ctx context.Context) ([]string, error) {
	rows, err := b.conn.QueryContext(ctx, "SELECT name FROM templates ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("listing templates: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (b *SQLiteBackend) Delete(ctx context.Context, name string) error {
	res, err := b.conn.ExecContext(ctx, "DELETE FROM templates WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting template %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting template %s: %w", name, err)
	}
	if n == 0 {
		return &TemplateNotFoundError{Name: name}
	}
	return nil
}
