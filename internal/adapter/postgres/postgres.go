package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sadopc/schemagen/internal/adapter"
	"github.com/sadopc/schemagen/internal/schema"
)

func init() {
	adapter.Register(&postgresAdapter{})
}

// defaultSchema is used when no schema name is given.
const defaultSchema = "public"

// postgresAdapter implements adapter.Adapter for PostgreSQL. A connection
// covers one database; the db argument of the introspection calls names a
// schema inside it.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string     { return "postgres" }
func (a *postgresAdapter) DefaultPort() int { return 5432 }

func (a *postgresAdapter) Connect(ctx context.Context, dsn string) (adapter.Connection, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &pgConn{
		pool:   pool,
		dbName: cfg.ConnConfig.Database,
	}, nil
}

// pgConn implements adapter.Connection for PostgreSQL.
type pgConn struct {
	pool   *pgxpool.Pool
	dbName string
}

func (c *pgConn) DatabaseName() string { return c.dbName }
func (c *pgConn) AdapterName() string  { return "postgres" }

func (c *pgConn) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *pgConn) Close() error {
	c.pool.Close()
	return nil
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

// Databases lists the user-visible schemas of the connected database.
func (c *pgConn) Databases(ctx context.Context) ([]schema.Database, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT schema_name::text
		 FROM information_schema.schemata
		 WHERE catalog_name = current_database()
		   AND schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		   AND schema_name NOT LIKE 'pg_temp_%'
		   AND schema_name NOT LIKE 'pg_toast_temp_%'
		 ORDER BY schema_name`)
	if err != nil {
		return nil, fmt.Errorf("postgres: schemas: %w", err)
	}
	defer rows.Close()

	var dbs []schema.Database
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres: schemas scan: %w", err)
		}
		dbs = append(dbs, schema.Database{Name: name})
	}
	return dbs, rows.Err()
}

func (c *pgConn) Tables(ctx context.Context, db string) ([]schema.Table, error) {
	schemaName := orDefault(db)

	rows, err := c.pool.Query(ctx,
		`SELECT table_name::text
		 FROM information_schema.tables
		 WHERE table_catalog = current_database()
		   AND table_schema  = $1
		   AND table_type    = 'BASE TABLE'
		 ORDER BY table_name`, schemaName)
	if err != nil {
		return nil, fmt.Errorf("postgres: tables of %s: %w", schemaName, err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres: tables scan: %w", err)
		}
		tables = append(tables, schema.Table{Name: name})
	}
	return tables, rows.Err()
}

func (c *pgConn) Procedures(ctx context.Context, db string) ([]schema.Procedure, error) {
	schemaName := orDefault(db)

	rows, err := c.pool.Query(ctx,
		`SELECT routine_name::text, COALESCE(routine_type, 'FUNCTION')::text
		 FROM information_schema.routines
		 WHERE routine_schema = $1
		 ORDER BY routine_name`, schemaName)
	if err != nil {
		return nil, fmt.Errorf("postgres: routines of %s: %w", schemaName, err)
	}
	defer rows.Close()

	var procs []schema.Procedure
	for rows.Next() {
		var p schema.Procedure
		if err := rows.Scan(&p.Name, &p.Type); err != nil {
			return nil, fmt.Errorf("postgres: routines scan: %w", err)
		}
		procs = append(procs, p)
	}
	return procs, rows.Err()
}

func (c *pgConn) Columns(ctx context.Context, db, table string) ([]schema.Column, error) {
	schemaName := orDefault(db)

	rows, err := c.pool.Query(ctx,
		`SELECT c.column_name::text,
		        c.data_type::text,
		        c.character_maximum_length::int8,
		        c.numeric_precision::int8,
		        c.numeric_scale::int8,
		        c.is_nullable::text,
		        COALESCE(c.column_default, '')::text,
		        c.is_identity::text,
		        EXISTS (
		            SELECT 1
		            FROM information_schema.table_constraints tc
		            JOIN information_schema.key_column_usage k
		              ON  k.constraint_schema = tc.constraint_schema
		              AND k.constraint_name   = tc.constraint_name
		            WHERE tc.constraint_type = 'PRIMARY KEY'
		              AND tc.table_schema    = c.table_schema
		              AND tc.table_name      = c.table_name
		              AND k.column_name      = c.column_name
		        ) AS is_pk
		 FROM information_schema.columns c
		 WHERE c.table_schema = $1
		   AND c.table_name   = $2
		 ORDER BY c.ordinal_position`, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("postgres: columns of %s.%s: %w", schemaName, table, err)
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var r rawColumn
		if err := rows.Scan(&r.Name, &r.DataType, &r.CharMaxLength, &r.NumericPrecision,
			&r.NumericScale, &r.IsNullable, &r.Default, &r.IsIdentity, &r.IsPK); err != nil {
			return nil, fmt.Errorf("postgres: columns scan: %w", err)
		}
		cols = append(cols, r.column())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: columns of %s.%s: %w", schemaName, table, err)
	}
	if len(cols) == 0 {
		return nil, adapter.TableNotFound(schemaName, table)
	}
	return cols, nil
}

func orDefault(schemaName string) string {
	if schemaName == "" {
		return defaultSchema
	}
	return schemaName
}

// ---------------------------------------------------------------------------
// Type mapping
// ---------------------------------------------------------------------------

// rawColumn is one information_schema.columns row.
type rawColumn struct {
	Name             string
	DataType         string
	CharMaxLength    *int64
	NumericPrecision *int64
	NumericScale     *int64
	IsNullable       string
	Default          string
	IsIdentity       string
	IsPK             bool
}

// dataTypes maps PostgreSQL data_type names to MySQL type names.
var dataTypes = map[string]string{
	"character varying":           "varchar",
	"character":                   "char",
	"integer":                     "int",
	"smallint":                    "smallint",
	"bigint":                      "bigint",
	"numeric":                     "numeric",
	"real":                        "float",
	"double precision":            "double",
	"boolean":                     "boolean",
	"text":                        "text",
	"bytea":                       "blob",
	"date":                        "date",
	"timestamp without time zone": "datetime",
	"timestamp with time zone":    "timestamp",
	"time without time zone":      "time",
	"json":                        "json",
	"jsonb":                       "json",
	"uuid":                        "char",
}

// column maps r onto the MySQL column model. Identity and serial columns
// become auto_increment; PostgreSQL has no unsigned types.
func (r rawColumn) column() schema.Column {
	col := schema.Column{
		Name:             r.Name,
		DataType:         r.DataType,
		CharMaxLength:    r.CharMaxLength,
		NumericPrecision: r.NumericPrecision,
		NumericScale:     r.NumericScale,
		Nullable:         r.IsNullable == "YES",
	}
	if t, ok := dataTypes[r.DataType]; ok {
		col.DataType = t
	}
	if r.DataType == "uuid" {
		col.CharMaxLength = schema.Int64(36)
	}
	if r.IsPK {
		col.ColumnKey = "PRI"
	}
	if r.IsIdentity == "YES" || strings.HasPrefix(r.Default, "nextval(") {
		col.Extra = "auto_increment"
	}
	col.ColumnType = columnType(col)
	return col
}

func columnType(c schema.Column) string {
	switch {
	case strings.Contains(c.DataType, "char") && c.CharMaxLength != nil:
		return fmt.Sprintf("%s(%d)", c.DataType, *c.CharMaxLength)
	case c.DataType == "numeric" && c.NumericPrecision != nil && c.NumericScale != nil:
		return fmt.Sprintf("numeric(%d,%d)", *c.NumericPrecision, *c.NumericScale)
	default:
		return c.DataType
	}
}
