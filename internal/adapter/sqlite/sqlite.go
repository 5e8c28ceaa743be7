package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sadopc/schemagen/internal/adapter"
	"github.com/sadopc/schemagen/internal/schema"

	_ "modernc.org/sqlite"
)

func init() {
	adapter.Register(&sqliteAdapter{})
}

// MainDatabase is the only database name an SQLite connection reports.
const MainDatabase = "main"

// sqliteAdapter implements adapter.Adapter for SQLite databases.
type sqliteAdapter struct{}

func (a *sqliteAdapter) Name() string     { return "sqlite" }
func (a *sqliteAdapter) DefaultPort() int { return 0 }

func (a *sqliteAdapter) Connect(ctx context.Context, dsn string) (adapter.Connection, error) {
	dsn = normalizeDSN(dsn)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// Every connection to :memory: is a separate database, so keep one.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	dbName := dsn
	if dsn != ":memory:" {
		dbName = filepath.Base(dsn)
	}

	return &sqliteConn{
		db:     db,
		dbName: dbName,
	}, nil
}

// normalizeDSN strips common SQLite URI prefixes.
func normalizeDSN(dsn string) string {
	if strings.HasPrefix(dsn, "sqlite://") {
		return strings.TrimPrefix(dsn, "sqlite://")
	}
	if strings.HasPrefix(dsn, "file:") {
		return strings.TrimPrefix(dsn, "file:")
	}
	return dsn
}

// sqliteConn implements adapter.Connection. The db arguments of the
// introspection calls are ignored; an SQLite file holds one database.
type sqliteConn struct {
	db     *sql.DB
	dbName string
}

func (c *sqliteConn) AdapterName() string  { return "sqlite" }
func (c *sqliteConn) DatabaseName() string { return c.dbName }

func (c *sqliteConn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *sqliteConn) Close() error {
	return c.db.Close()
}

// Databases returns the single "main" database.
func (c *sqliteConn) Databases(ctx context.Context) ([]schema.Database, error) {
	return []schema.Database{{Name: MainDatabase}}, nil
}

// Tables returns all user tables in the database.
func (c *sqliteConn) Tables(ctx context.Context, db string) ([]schema.Table, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("sqlite tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite tables scan: %w", err)
		}
		tables = append(tables, schema.Table{Name: name})
	}
	return tables, rows.Err()
}

// Procedures always returns an empty list; SQLite has no stored routines.
func (c *sqliteConn) Procedures(ctx context.Context, db string) ([]schema.Procedure, error) {
	return nil, nil
}

// Columns returns column metadata for the given table using PRAGMA table_info.
func (c *sqliteConn) Columns(ctx context.Context, db, table string) ([]schema.Column, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("sqlite columns: %w", err)
	}
	defer rows.Close()

	var (
		columns []schema.Column
		pkCount int
	)
	for rows.Next() {
		var (
			cid       int
			name      string
			declType  string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("sqlite columns scan: %w", err)
		}
		col := parseDeclType(declType)
		col.Name = name
		col.Nullable = notNull == 0
		if pk > 0 {
			col.ColumnKey = "PRI"
			pkCount++
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, adapter.TableNotFound("", table)
	}

	// A single INTEGER PRIMARY KEY column aliases the rowid.
	if pkCount == 1 {
		for i := range columns {
			if columns[i].IsPrimaryKey() && columns[i].DataType == "integer" {
				columns[i].Extra = "auto_increment"
			}
		}
	}
	return columns, nil
}

var declTypePattern = regexp.MustCompile(`^\s*([^(]*?)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?\s*$`)

// parseDeclType splits a declared column type such as "VARCHAR(50)" or
// "DECIMAL(8,2)" into its base type and size attributes. A column declared
// without a type gets "blob", its SQLite affinity.
func parseDeclType(decl string) schema.Column {
	lower := strings.ToLower(strings.TrimSpace(decl))
	if lower == "" {
		return schema.Column{DataType: "blob", ColumnType: "blob"}
	}

	col := schema.Column{DataType: lower, ColumnType: lower}
	m := declTypePattern.FindStringSubmatch(lower)
	if m == nil {
		return col
	}
	col.DataType = m[1]

	first, _ := strconv.ParseInt(m[2], 10, 64)
	switch {
	case m[2] == "":
	case strings.Contains(col.DataType, "char"):
		col.CharMaxLength = schema.Int64(first)
	case col.DataType == "decimal" || col.DataType == "numeric":
		col.NumericPrecision = schema.Int64(first)
		scale, _ := strconv.ParseInt(m[3], 10, 64)
		col.NumericScale = schema.Int64(scale)
	}
	return col
}
