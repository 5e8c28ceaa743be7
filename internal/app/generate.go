// Package app ties a schema connection to the procedure emitter: it fetches
// table metadata, renders every requested procedure and records each run.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/schemagen/internal/adapter"
	"github.com/sadopc/schemagen/internal/history"
	"github.com/sadopc/schemagen/internal/logging"
	"github.com/sadopc/schemagen/internal/procgen"
	"github.com/sadopc/schemagen/internal/schema"
)

// DefaultWorkers bounds concurrent column queries.
const DefaultWorkers = 4

// maxSuggestions caps the names offered for an unknown table.
const maxSuggestions = 3

// ErrNoTables is returned when a request names no tables.
var ErrNoTables = errors.New("no tables requested")

// Recorder stores one history entry per generated table.
type Recorder interface {
	Add(entry history.Entry) error
}

// Generator renders procedures for tables read from Conn.
type Generator struct {
	Conn    adapter.Connection
	Emitter *procgen.Emitter
	Logger  *zap.Logger
	History Recorder // nil disables history
	Workers int      // <= 0 uses DefaultWorkers
}

// Request selects what Generate writes.
type Request struct {
	Database string
	Tables   []string
	Prefix   string         // empty derives one per table
	Kinds    []procgen.Kind // empty means every kind
	Confirm  []string       // column names to confirm before update/delete
	Script   bool           // wrap each table in DELIMITER directives
}

// Connect opens a connection through the named adapter and verifies it.
func Connect(ctx context.Context, adapterName, dsn string, logger *zap.Logger) (adapter.Connection, error) {
	logger = logging.OrNop(logger)
	a, err := adapter.Lookup(adapterName)
	if err != nil {
		return nil, err
	}
	logger.Debug("connecting", zap.String("adapter", a.Name()), logging.DSN(dsn))

	conn, err := a.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("connected", zap.String("adapter", a.Name()), zap.String("database", conn.DatabaseName()))
	return conn, nil
}

func (g *Generator) log() *zap.Logger { return logging.OrNop(g.Logger) }

// TableNames returns the names of the tables in database.
func (g *Generator) TableNames(ctx context.Context, database string) ([]string, error) {
	tables, err := g.Conn.Tables(ctx, database)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names, nil
}

// Generate writes the procedures of every table in req to w, in request
// order. Column metadata is fetched concurrently. Each table is rendered
// completely before anything of it is written.
func (g *Generator) Generate(ctx context.Context, w io.Writer, req Request) error {
	if len(req.Tables) == 0 {
		return ErrNoTables
	}

	columns, err := g.fetchColumns(ctx, req.Database, req.Tables)
	if err != nil {
		return err
	}

	for i, table := range req.Tables {
		if err := g.generateTable(w, req, table, columns[i]); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) fetchColumns(ctx context.Context, database string, tables []string) ([][]schema.Column, error) {
	workers := g.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	columns := make([][]schema.Column, len(tables))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, table := range tables {
		eg.Go(func() error {
			g.log().Debug("fetching columns", zap.String("database", database), zap.String("table", table))
			cols, err := g.Conn.Columns(egCtx, database, table)
			if err != nil {
				return err
			}
			columns[i] = cols
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		if errors.Is(err, adapter.ErrTableNotFound) {
			return nil, g.withSuggestions(ctx, database, err)
		}
		return nil, err
	}
	return columns, nil
}

// withSuggestions appends close table names to a not-found error.
func (g *Generator) withSuggestions(ctx context.Context, database string, err error) error {
	var te *adapter.TableError
	if !errors.As(err, &te) {
		return err
	}
	names, lerr := g.TableNames(ctx, database)
	if lerr != nil {
		g.log().Warn("listing tables for suggestions", zap.Error(lerr))
		return err
	}
	if s := Suggest(te.Table, names); len(s) > 0 {
		return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
	}
	return err
}

func (g *Generator) generateTable(w io.Writer, req Request, table string, cols []schema.Column) error {
	start := time.Now()
	entry := history.Entry{
		Adapter:      g.Conn.AdapterName(),
		DatabaseName: req.Database,
		TableName:    table,
		GeneratedAt:  start,
	}

	body, procs, err := g.render(req, table, cols)
	if err != nil {
		entry.IsError = true
		entry.Message = err.Error()
		g.record(entry)
		return fmt.Errorf("%s: %w", table, err)
	}

	if req.Script {
		err = procgen.WriteScript(w, g.Emitter.Options().Delimiter, body)
	} else {
		_, err = w.Write(body)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}

	entry.Procedures = strings.Join(procs, ",")
	entry.Bytes = int64(len(body))
	g.record(entry)

	g.log().Info("generated",
		zap.String("table", table),
		zap.Strings("procedures", procs),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// render emits every planned procedure of table into one buffer.
func (g *Generator) render(req Request, table string, cols []schema.Column) ([]byte, []string, error) {
	confirm, err := schema.ConfirmFields(cols, req.Confirm)
	if err != nil {
		return nil, nil, err
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = procgen.DefaultPrefix(table)
	}

	var (
		b     bytes.Buffer
		procs []string
	)
	for _, job := range procgen.Plan(table, prefix, confirm, req.Kinds...) {
		if err := g.Emitter.Emit(&b, cols, job); err != nil {
			return nil, nil, err
		}
		procs = append(procs, job.ProcName)
	}
	return b.Bytes(), procs, nil
}

func (g *Generator) record(entry history.Entry) {
	if g.History == nil {
		return
	}
	if err := g.History.Add(entry); err != nil {
		g.log().Warn("recording history", zap.String("table", entry.TableName), zap.Error(err))
	}
}

// Suggest returns up to three candidates that fuzzily match name, best
// first. Matching ignores case.
func Suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}
	lower := make([]string, len(candidates))
	for i, c := range candidates {
		lower[i] = strings.ToLower(c)
	}

	matches := fuzzy.Find(strings.ToLower(name), lower)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, candidates[m.Index])
	}
	return out
}
