package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sadopc/schemagen/internal/adapter"
)

// Default DSN for a local PostgreSQL.
// Override with SCHEMAGEN_PG_DSN env var.
const defaultTestDSN = "postgres://localhost:5432/schemagen_test?sslmode=disable"

func testDSN() string {
	if dsn := os.Getenv("SCHEMAGEN_PG_DSN"); dsn != "" {
		return dsn
	}
	return defaultTestDSN
}

func connectForTest(t *testing.T) *pgConn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &postgresAdapter{}
	conn, err := a.Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping: cannot connect to PostgreSQL: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn.(*pgConn)
}

func TestIntegration_ConnectAndPing(t *testing.T) {
	conn := connectForTest(t)

	if err := conn.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if conn.AdapterName() != "postgres" {
		t.Errorf("AdapterName() = %q, want %q", conn.AdapterName(), "postgres")
	}
	if conn.DatabaseName() == "" {
		t.Error("DatabaseName() is empty")
	}
}

func TestIntegration_Introspection(t *testing.T) {
	conn := connectForTest(t)
	ctx := context.Background()

	exec := func(sql string) {
		t.Helper()
		if _, err := conn.pool.Exec(ctx, sql); err != nil {
			t.Fatalf("exec %q: %v", sql, err)
		}
	}

	exec("DROP TABLE IF EXISTS sg_users")
	exec(`CREATE TABLE sg_users (
		id    SERIAL PRIMARY KEY,
		name  VARCHAR(100) NOT NULL,
		price NUMERIC(8,2),
		notes TEXT
	)`)
	t.Cleanup(func() { conn.pool.Exec(context.Background(), "DROP TABLE IF EXISTS sg_users") })

	tables, err := conn.Tables(ctx, "")
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	found := false
	for _, tbl := range tables {
		if tbl.Name == "sg_users" {
			found = true
		}
	}
	if !found {
		t.Errorf("sg_users not in Tables(): %v", tables)
	}

	cols, err := conn.Columns(ctx, "public", "sg_users")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if len(cols) != 4 {
		t.Fatalf("got %d columns, want 4", len(cols))
	}
	wantNames := []string{"id", "name", "price", "notes"}
	for i, c := range cols {
		if c.Name != wantNames[i] {
			t.Errorf("cols[%d].Name = %q, want %q", i, c.Name, wantNames[i])
		}
	}
	if !cols[0].IsAutonumberPrimaryKey() {
		t.Errorf("id not an autonumber key: %+v", cols[0])
	}
	if cols[1].ColumnType != "varchar(100)" || !cols[1].NotNullable() {
		t.Errorf("name column = %+v", cols[1])
	}
	if cols[2].ColumnType != "numeric(8,2)" || !cols[2].Nullable {
		t.Errorf("price column = %+v", cols[2])
	}

	dbs, err := conn.Databases(ctx)
	if err != nil {
		t.Fatalf("Databases: %v", err)
	}
	if len(dbs) == 0 {
		t.Error("Databases() returned no schemas")
	}
}

func TestIntegration_ColumnsTableNotFound(t *testing.T) {
	conn := connectForTest(t)

	_, err := conn.Columns(context.Background(), "", "sg_no_such_table")
	if !errors.Is(err, adapter.ErrTableNotFound) {
		t.Errorf("Columns() error = %v, want ErrTableNotFound", err)
	}
}
