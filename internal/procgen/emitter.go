// Package procgen emits MySQL stored procedures for the CRUD kinds of a
// table, laying out every parameter and column list with the wrap printer.
package procgen

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sadopc/schemagen/internal/schema"
	"github.com/sadopc/schemagen/internal/wrap"
)

// Options controls the layout of generated procedures.
type Options struct {
	TabStop       int
	Delimiter     string
	Limit         int
	ItemsPerLine  int // <= 0 for no cap
	EnumAsVarchar bool
}

// DefaultOptions returns the conventional layout: four-space tabs, "$$"
// delimiter, 80-column limit and no per-line item cap.
func DefaultOptions() Options {
	return Options{
		TabStop:   4,
		Delimiter: "$$",
		Limit:     80,
	}
}

// Emitter writes procedure definitions. Each emit call renders the whole
// procedure before writing, so a failed call writes nothing.
type Emitter struct {
	opts Options
	tab  string
}

// New returns an Emitter for opts. Zero TabStop, Limit or Delimiter values
// take their defaults.
func New(opts Options) *Emitter {
	def := DefaultOptions()
	if opts.TabStop <= 0 {
		opts.TabStop = def.TabStop
	}
	if opts.Limit <= 0 {
		opts.Limit = def.Limit
	}
	if opts.Delimiter == "" {
		opts.Delimiter = def.Delimiter
	}
	return &Emitter{
		opts: opts,
		tab:  strings.Repeat(" ", opts.TabStop),
	}
}

// Options returns the effective options.
func (e *Emitter) Options() Options { return e.opts }

// tableAlias returns the lower-cased first character of table.
func tableAlias(table string) string {
	r, _ := utf8.DecodeRuneInString(table)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToLower(r))
}

func (e *Emitter) printer(indent int) *wrap.Printer {
	return &wrap.Printer{
		Indent:       indent,
		Limit:        e.opts.Limit,
		Separator:    wrap.DefaultSeparator,
		ItemsPerLine: e.opts.ItemsPerLine,
	}
}

// list writes items anchored at column indent. The first line continues
// the current output line.
func (e *Emitter) list(b *bytes.Buffer, indent int, items []string) {
	b.WriteString(strings.Join(e.printer(indent).Lines(items), "\n"))
}

// header writes the DROP/CREATE pair and the parameter list, through BEGIN.
func (e *Emitter) header(b *bytes.Buffer, proc string, params []schema.Column) error {
	fmt.Fprintf(b, "DROP PROCEDURE IF EXISTS %s %s\n", proc, e.opts.Delimiter)

	declare := fmt.Sprintf("CREATE PROCEDURE %s (", proc)
	items := make([]string, 0, len(params))
	for _, c := range params {
		typ, err := schema.ParamType(c, schema.TypeOptions{
			KeepNotNull:   !c.IsAutonumberPrimaryKey(),
			EnumAsVarchar: e.opts.EnumAsVarchar,
		})
		if err != nil {
			return fmt.Errorf("procedure %s: %w", proc, err)
		}
		items = append(items, c.Name+" "+typ)
	}

	b.WriteString(declare)
	e.list(b, len(declare), items)
	b.WriteString(")\nBEGIN\n")
	return nil
}

func (e *Emitter) footer(b *bytes.Buffer) {
	fmt.Fprintf(b, "END %s\n", e.opts.Delimiter)
}

// keyword writes kw right-justified to end at column indent, so clause
// keywords line up on the column where their operands start.
func keyword(b *bytes.Buffer, indent int, kw string) {
	b.WriteString(strings.Repeat(" ", max(indent-len(kw), 0)))
	b.WriteString(kw)
}

// confirmCall writes the guarded call to the confirm procedure.
func (e *Emitter) confirmCall(b *bytes.Buffer, proc, arg string) {
	b.WriteString("\n")
	fmt.Fprintf(b, "%sIF ROW_COUNT() > 0 THEN\n", e.tab)
	fmt.Fprintf(b, "%s%sCALL %s(%s);\n", e.tab, e.tab, proc, arg)
	fmt.Fprintf(b, "%sEND IF;\n", e.tab)
}

// confirmClauses writes one AND condition per confirm field, each on a new
// line, leaving the last line open for the statement terminator.
func confirmClauses(b *bytes.Buffer, indent int, prefix string, confirm []schema.Column) {
	for _, c := range confirm {
		b.WriteString("\n")
		keyword(b, indent, "AND ")
		fmt.Fprintf(b, "%s%s = %s", prefix, c.LogicalName(), c.Name)
	}
}

func names(cols []schema.Column, prefix string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c.Name
	}
	return out
}

func missingKey(w io.Writer, kind Kind) error {
	_, err := fmt.Fprintf(w, "-- Can't generate %s procedure without autonumber primary key field.\n\n", kind)
	if err != nil {
		return fmt.Errorf("procgen: %w", err)
	}
	return nil
}

func flush(w io.Writer, b *bytes.Buffer) error {
	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("procgen: %w", err)
	}
	return nil
}
