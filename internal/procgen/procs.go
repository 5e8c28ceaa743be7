package procgen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sadopc/schemagen/internal/schema"
)

// EmitList writes a procedure selecting every row of table when called with
// a NULL id, or the single matching row otherwise.
func (e *Emitter) EmitList(w io.Writer, fields []schema.Column, table, proc string) error {
	key, ok := schema.FindAutonumberPrimaryKey(fields)
	if !ok {
		return missingKey(w, KindList)
	}
	alias := tableAlias(table)
	prefix := alias + "."

	var b bytes.Buffer
	if err := e.header(&b, proc, []schema.Column{key}); err != nil {
		return err
	}

	sel := e.tab + "SELECT "
	b.WriteString(sel)
	e.list(&b, len(sel), names(fields, prefix))
	b.WriteString("\n")

	indent := len(sel)
	keyword(&b, indent, "FROM ")
	fmt.Fprintf(&b, "%s %s\n", table, alias)
	keyword(&b, indent, "WHERE ")
	fmt.Fprintf(&b, "%s IS NULL\n", key.Name)
	keyword(&b, indent, "OR ")
	fmt.Fprintf(&b, "%s%s = %s;\n", prefix, key.Name, key.Name)

	e.footer(&b)
	return flush(w, &b)
}

// EmitAdd writes a procedure inserting one row from parameters for every
// column but the autonumber key. A non-empty confirmProc is called with the
// new id after a successful insert.
func (e *Emitter) EmitAdd(w io.Writer, fields []schema.Column, table, proc, confirmProc string) error {
	addFields := schema.WithoutAutonumberPrimaryKey(fields)

	var b bytes.Buffer
	if err := e.header(&b, proc, addFields); err != nil {
		return err
	}

	insert := fmt.Sprintf("%sINSERT INTO %s (", e.tab, table)
	indent := len(insert)
	columns := names(addFields, "")

	b.WriteString(insert)
	e.list(&b, indent, columns)
	b.WriteString(")\n")

	// VALUES lists its names on the same column as the INSERT names.
	keyword(&b, indent, "VALUES (")
	e.list(&b, indent, columns)
	b.WriteString(");\n")

	if confirmProc != "" {
		e.confirmCall(&b, confirmProc, "LAST_INSERT_ID()")
	}

	e.footer(&b)
	return flush(w, &b)
}

// EmitRead writes a procedure selecting the row with the given id. Confirm
// fields are selected right after the first column, under their confirm
// names.
func (e *Emitter) EmitRead(w io.Writer, fields []schema.Column, table, proc string, confirm []schema.Column) error {
	key, ok := schema.FindAutonumberPrimaryKey(fields)
	if !ok {
		return missingKey(w, KindRead)
	}
	alias := tableAlias(table)
	prefix := alias + "."

	var b bytes.Buffer
	if err := e.header(&b, proc, []schema.Column{key}); err != nil {
		return err
	}

	items := names(fields, prefix)
	if len(confirm) > 0 {
		extra := make([]string, len(confirm))
		for i, c := range confirm {
			extra[i] = fmt.Sprintf("%s%s AS %s", prefix, c.LogicalName(), c.Name)
		}
		at := min(1, len(items))
		items = append(items[:at], append(extra, items[at:]...)...)
	}

	sel := e.tab + "SELECT "
	indent := len(sel)
	b.WriteString(sel)
	e.list(&b, indent, items)
	b.WriteString("\n")

	keyword(&b, indent, "FROM ")
	fmt.Fprintf(&b, "%s %s\n", table, alias)
	keyword(&b, indent, "WHERE ")
	fmt.Fprintf(&b, "%s%s = %s;\n", prefix, key.Name, key.Name)

	e.footer(&b)
	return flush(w, &b)
}

// EmitUpdate writes a procedure updating every column but the autonumber
// key of the row with the given id. Each confirm field adds an equality
// guard on its column. A non-empty confirmProc is called with the id after
// a successful update.
func (e *Emitter) EmitUpdate(w io.Writer, fields []schema.Column, table, proc, confirmProc string, confirm []schema.Column) error {
	key, ok := schema.FindAutonumberPrimaryKey(fields)
	if !ok {
		return missingKey(w, KindUpdate)
	}
	alias := tableAlias(table)
	prefix := alias + "."

	params := make([]schema.Column, 0, len(fields)+len(confirm))
	params = append(params, fields...)
	params = append(params, confirm...)

	var b bytes.Buffer
	if err := e.header(&b, proc, params); err != nil {
		return err
	}

	update := e.tab + "UPDATE "
	indent := len(update)
	fmt.Fprintf(&b, "%s%s %s\n", update, table, alias)

	var sets []string
	for _, c := range schema.WithoutAutonumberPrimaryKey(fields) {
		sets = append(sets, fmt.Sprintf("%s%s = %s", prefix, c.Name, c.Name))
	}
	keyword(&b, indent, "SET ")
	e.list(&b, indent, sets)
	b.WriteString("\n")

	keyword(&b, indent, "WHERE ")
	fmt.Fprintf(&b, "%s%s = %s", prefix, key.Name, key.Name)
	confirmClauses(&b, indent, prefix, confirm)
	b.WriteString(";\n")

	if confirmProc != "" {
		e.confirmCall(&b, confirmProc, key.Name)
	}

	e.footer(&b)
	return flush(w, &b)
}

// EmitDelete writes a procedure deleting the row with the given id, guarded
// by the confirm fields, and reporting the number of rows deleted.
func (e *Emitter) EmitDelete(w io.Writer, fields []schema.Column, table, proc string, confirm []schema.Column) error {
	key, ok := schema.FindAutonumberPrimaryKey(fields)
	if !ok {
		return missingKey(w, KindDelete)
	}
	alias := tableAlias(table)
	prefix := alias + "."

	params := make([]schema.Column, 0, 1+len(confirm))
	params = append(params, key)
	params = append(params, confirm...)

	var b bytes.Buffer
	if err := e.header(&b, proc, params); err != nil {
		return err
	}

	del := e.tab + "DELETE FROM "
	indent := len(del)
	fmt.Fprintf(&b, "%s%s USING %s AS %s\n", del, alias, table, alias)

	keyword(&b, indent, "WHERE ")
	fmt.Fprintf(&b, "%s%s = %s", prefix, key.Name, key.Name)
	confirmClauses(&b, indent, prefix, confirm)
	b.WriteString(";\n\n")

	fmt.Fprintf(&b, "%sSELECT ROW_COUNT() AS deleted;\n", e.tab)

	e.footer(&b)
	return flush(w, &b)
}
