package file

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/schemagen/internal/adapter"
	"github.com/sadopc/schemagen/internal/schema"
)

const shopYAML = `
databases:
  - name: shop
    tables:
      - name: users
        columns:
          - name: id
            data_type: int
            column_key: PRI
            column_type: int unsigned
            extra: auto_increment
          - name: email
            data_type: varchar
            char_max_length: 120
            column_type: varchar(120)
          - name: nickname
            data_type: varchar
            char_max_length: 40
            nullable: true
            column_type: varchar(40)
      - name: orders
        columns:
          - name: id
            data_type: int
            column_key: PRI
            extra: auto_increment
    procedures:
      - name: User_List
        type: PROCEDURE
  - name: archive
    tables: []
`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func connect(t *testing.T) adapter.Connection {
	t.Helper()
	a, err := adapter.Lookup("file")
	require.NoError(t, err)
	conn, err := a.Connect(context.Background(), "file://"+writeSchema(t, shopYAML))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConnect(t *testing.T) {
	conn := connect(t)
	ctx := context.Background()

	assert.Equal(t, "file", conn.AdapterName())
	assert.Equal(t, "shop", conn.DatabaseName())
	assert.NoError(t, conn.Ping(ctx))

	dbs, err := conn.Databases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []schema.Database{{Name: "shop"}, {Name: "archive"}}, dbs)

	tables, err := conn.Tables(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, []schema.Table{{Name: "users"}, {Name: "orders"}}, tables)

	procs, err := conn.Procedures(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []schema.Procedure{{Name: "User_List", Type: "PROCEDURE"}}, procs)
}

func TestColumns(t *testing.T) {
	conn := connect(t)

	cols, err := conn.Columns(context.Background(), "shop", "users")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.True(t, cols[0].IsAutonumberPrimaryKey())
	assert.True(t, cols[0].IsUnsigned())
	require.NotNil(t, cols[1].CharMaxLength)
	assert.Equal(t, int64(120), *cols[1].CharMaxLength)
	assert.False(t, cols[1].Nullable)
	assert.True(t, cols[2].Nullable)
}

func TestColumns_Errors(t *testing.T) {
	conn := connect(t)
	ctx := context.Background()

	_, err := conn.Columns(ctx, "shop", "ghosts")
	assert.True(t, errors.Is(err, adapter.ErrTableNotFound), "err = %v", err)

	_, err = conn.Columns(ctx, "archive", "users")
	assert.ErrorIs(t, err, adapter.ErrTableNotFound)

	_, err = conn.Tables(ctx, "nowhere")
	assert.ErrorContains(t, err, `unknown database "nowhere"`)
}

func TestConnect_Errors(t *testing.T) {
	a := &fileAdapter{}
	ctx := context.Background()

	_, err := a.Connect(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "err = %v", err)

	_, err = a.Connect(ctx, writeSchema(t, "databases:\n  - tables: []\n"))
	assert.ErrorContains(t, err, "database without name")

	_, err = a.Connect(ctx, writeSchema(t, "databases:\n  - name: x\n    colour: red\n"))
	assert.Error(t, err, "unknown fields must be rejected")
}

func TestEncodeDecode(t *testing.T) {
	doc := &Document{Databases: []DatabaseDoc{{
		Name: "shop",
		Tables: []schema.Table{{
			Name: "users",
			Columns: []schema.Column{
				{Name: "id", DataType: "int", ColumnKey: "PRI", Extra: "auto_increment"},
				{Name: "price", DataType: "decimal", NumericPrecision: schema.Int64(8), NumericScale: schema.Int64(2)},
			},
		}},
	}}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	assert.True(t, strings.HasPrefix(buf.String(), "databases:\n"), buf.String())
	assert.NotContains(t, buf.String(), "char_max_length")

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDecode_Empty(t *testing.T) {
	doc, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Databases)
	assert.Equal(t, "", newConn(doc).DatabaseName())
}
