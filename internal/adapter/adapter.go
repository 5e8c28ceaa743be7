package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sadopc/schemagen/internal/schema"
)

var (
	ErrUnknownAdapter = errors.New("unknown adapter")
	ErrTableNotFound  = errors.New("table not found")
)

// Adapter creates schema connections.
type Adapter interface {
	Connect(ctx context.Context, dsn string) (Connection, error)
	Name() string
	DefaultPort() int // 0 when the engine has no network port
}

// Connection reads schema metadata from one database server or source.
type Connection interface {
	// Introspection
	Databases(ctx context.Context) ([]schema.Database, error)
	Tables(ctx context.Context, db string) ([]schema.Table, error)
	Procedures(ctx context.Context, db string) ([]schema.Procedure, error)

	// Columns returns the table's columns in ordinal order, or
	// ErrTableNotFound when the table has none.
	Columns(ctx context.Context, db, table string) ([]schema.Column, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Info
	DatabaseName() string
	AdapterName() string
}

// Registry holds registered adapters by name.
var Registry = map[string]Adapter{}

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	Registry[a.Name()] = a
}

// Lookup returns the adapter registered under name.
func Lookup(name string) (Adapter, error) {
	a, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownAdapter, name, Names())
	}
	return a, nil
}

// Names returns the registered adapter names, sorted.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for n := range Registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TableError reports a table that has no columns in the named database.
type TableError struct {
	Database string
	Table    string
}

func (e *TableError) Error() string {
	if e.Database == "" {
		return fmt.Sprintf("%s: %s", ErrTableNotFound, e.Table)
	}
	return fmt.Sprintf("%s: %s.%s", ErrTableNotFound, e.Database, e.Table)
}

// Is makes errors.Is(err, ErrTableNotFound) hold.
func (e *TableError) Is(target error) bool { return target == ErrTableNotFound }

// TableNotFound returns a *TableError for the qualified table name.
func TableNotFound(db, table string) error {
	return &TableError{Database: db, Table: table}
}
