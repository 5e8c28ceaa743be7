// Package file provides a schema adapter backed by a YAML document, so
// procedures can be generated without a running server.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/schemagen/internal/adapter"
	"github.com/sadopc/schemagen/internal/schema"
)

func init() {
	adapter.Register(&fileAdapter{})
}

// Document is the YAML layout read by the adapter and written by Encode.
type Document struct {
	Databases []DatabaseDoc `yaml:"databases"`
}

// DatabaseDoc is one database of a Document.
type DatabaseDoc struct {
	Name       string             `yaml:"name"`
	Tables     []schema.Table     `yaml:"tables"`
	Procedures []schema.Procedure `yaml:"procedures,omitempty"`
}

type fileAdapter struct{}

func (a *fileAdapter) Name() string     { return "file" }
func (a *fileAdapter) DefaultPort() int { return 0 }

// Connect reads the document at dsn, a path optionally prefixed with
// "file://".
func (a *fileAdapter) Connect(_ context.Context, dsn string) (adapter.Connection, error) {
	path := strings.TrimPrefix(dsn, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", path, err)
	}
	return newConn(doc), nil
}

// Decode parses a schema document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	for _, db := range doc.Databases {
		if db.Name == "" {
			return nil, fmt.Errorf("decode schema: database without name")
		}
	}
	return &doc, nil
}

// Encode writes doc in the layout Decode reads.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	return enc.Close()
}

type fileConn struct {
	doc *Document
}

func newConn(doc *Document) *fileConn {
	return &fileConn{doc: doc}
}

func (c *fileConn) AdapterName() string { return "file" }

// DatabaseName returns the first database in the document.
func (c *fileConn) DatabaseName() string {
	if len(c.doc.Databases) == 0 {
		return ""
	}
	return c.doc.Databases[0].Name
}

func (c *fileConn) Ping(context.Context) error { return nil }
func (c *fileConn) Close() error               { return nil }

func (c *fileConn) database(name string) (*DatabaseDoc, error) {
	if name == "" {
		name = c.DatabaseName()
	}
	for i := range c.doc.Databases {
		if c.doc.Databases[i].Name == name {
			return &c.doc.Databases[i], nil
		}
	}
	return nil, fmt.Errorf("file: unknown database %q", name)
}

func (c *fileConn) Databases(context.Context) ([]schema.Database, error) {
	dbs := make([]schema.Database, len(c.doc.Databases))
	for i, db := range c.doc.Databases {
		dbs[i] = schema.Database{Name: db.Name}
	}
	return dbs, nil
}

func (c *fileConn) Tables(_ context.Context, db string) ([]schema.Table, error) {
	d, err := c.database(db)
	if err != nil {
		return nil, err
	}
	tables := make([]schema.Table, len(d.Tables))
	for i, t := range d.Tables {
		tables[i] = schema.Table{Name: t.Name}
	}
	return tables, nil
}

func (c *fileConn) Procedures(_ context.Context, db string) ([]schema.Procedure, error) {
	d, err := c.database(db)
	if err != nil {
		return nil, err
	}
	return append([]schema.Procedure(nil), d.Procedures...), nil
}

func (c *fileConn) Columns(_ context.Context, db, table string) ([]schema.Column, error) {
	d, err := c.database(db)
	if err != nil {
		return nil, err
	}
	for _, t := range d.Tables {
		if t.Name == table && len(t.Columns) > 0 {
			return append([]schema.Column(nil), t.Columns...), nil
		}
	}
	return nil, adapter.TableNotFound(d.Name, table)
}
