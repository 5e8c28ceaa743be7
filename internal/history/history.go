package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sadopc/schemagen/internal/config"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS generations (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	adapter       TEXT,
	database_name TEXT,
	table_name    TEXT NOT NULL,
	procedures    TEXT,
	generated_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
	bytes         INTEGER,
	is_error      BOOLEAN DEFAULT FALSE,
	message       TEXT
)`

const selectColumns = `SELECT id, adapter, database_name, table_name, procedures, generated_at, bytes, is_error, message
		 FROM generations`

// Entry records one table's generation run.
type Entry struct {
	ID           int64
	Adapter      string
	DatabaseName string
	TableName    string
	Procedures   string // comma-separated procedure names
	GeneratedAt  time.Time
	Bytes        int64
	IsError      bool
	Message      string // error text when IsError
}

// History provides SQLite-backed generation history storage.
type History struct {
	db *sql.DB
}

// New opens (or creates) the history database at ConfigDir()/history.db and
// ensures the schema exists.
func New() (*History, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("history: config dir: %w", err)
	}
	return Open(filepath.Join(dir, "history.db"))
}

// Open opens (or creates) the history database at path.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create table: %w", err)
	}

	return &History{db: db}, nil
}

// Add inserts a new history entry. A zero GeneratedAt is stored as now.
func (h *History) Add(entry Entry) error {
	if entry.GeneratedAt.IsZero() {
		entry.GeneratedAt = time.Now()
	}
	_, err := h.db.Exec(
		`INSERT INTO generations (adapter, database_name, table_name, procedures, generated_at, bytes, is_error, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Adapter,
		entry.DatabaseName,
		entry.TableName,
		entry.Procedures,
		entry.GeneratedAt,
		entry.Bytes,
		entry.IsError,
		entry.Message,
	)
	if err != nil {
		return fmt.Errorf("history add: %w", err)
	}
	return nil
}

// Search returns history entries whose table name matches the given pattern
// using SQL LIKE. Results are ordered by most recent first, limited to limit
// rows.
func (h *History) Search(pattern string, limit int) ([]Entry, error) {
	rows, err := h.db.Query(selectColumns+`
		 WHERE table_name LIKE ?
		 ORDER BY generated_at DESC, id DESC
		 LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history search: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Recent returns the most recent history entries, limited to limit rows.
func (h *History) Recent(limit int) ([]Entry, error) {
	rows, err := h.db.Query(selectColumns+`
		 ORDER BY generated_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history recent: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Clear deletes all history entries.
func (h *History) Clear() error {
	if _, err := h.db.Exec(`DELETE FROM generations`); err != nil {
		return fmt.Errorf("history clear: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// scanEntries reads all rows from the result set into a slice of Entry.
func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			message sql.NullString
		)
		if err := rows.Scan(
			&e.ID,
			&e.Adapter,
			&e.DatabaseName,
			&e.TableName,
			&e.Procedures,
			&e.GeneratedAt,
			&e.Bytes,
			&e.IsError,
			&message,
		); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		e.Message = message.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return entries, nil
}
