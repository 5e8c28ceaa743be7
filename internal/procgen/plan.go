package procgen

import (
	"fmt"
	"io"

	"github.com/go-openapi/inflect"

	"github.com/sadopc/schemagen/internal/schema"
)

// Job describes one procedure to generate for a table.
type Job struct {
	Kind        Kind
	Table       string
	ProcName    string
	ConfirmProc string          // add, update; empty for none
	Confirm     []schema.Column // read, update, delete
}

var rules = inflect.NewDefaultRuleset()

// DefaultPrefix derives a procedure name prefix from a table name, e.g.
// "order_items" -> "OrderItem_".
func DefaultPrefix(table string) string {
	return rules.Camelize(rules.Singularize(table)) + "_"
}

// Plan returns the jobs for table in the order of kinds, or of AllKinds when
// none are given. Procedure names are prefix plus the kind title. Add and
// Update confirm through the List procedure so callers get the stored row
// back; Read, Update and Delete carry the confirm fields.
func Plan(table, prefix string, confirm []schema.Column, kinds ...Kind) []Job {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	jobs := make([]Job, 0, len(kinds))
	for _, k := range kinds {
		job := Job{
			Kind:     k,
			Table:    table,
			ProcName: prefix + k.Title(),
		}
		switch k {
		case KindAdd:
			job.ConfirmProc = prefix + KindList.Title()
		case KindUpdate:
			job.ConfirmProc = prefix + KindList.Title()
			job.Confirm = confirm
		case KindRead, KindDelete:
			job.Confirm = confirm
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Emit writes the procedure described by job for the given columns.
func (e *Emitter) Emit(w io.Writer, fields []schema.Column, job Job) error {
	switch job.Kind {
	case KindList:
		return e.EmitList(w, fields, job.Table, job.ProcName)
	case KindAdd:
		return e.EmitAdd(w, fields, job.Table, job.ProcName, job.ConfirmProc)
	case KindRead:
		return e.EmitRead(w, fields, job.Table, job.ProcName, job.Confirm)
	case KindUpdate:
		return e.EmitUpdate(w, fields, job.Table, job.ProcName, job.ConfirmProc, job.Confirm)
	case KindDelete:
		return e.EmitDelete(w, fields, job.Table, job.ProcName, job.Confirm)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, job.Kind)
	}
}

// WriteScript writes body between DELIMITER directives so a MySQL client
// accepts the procedure bodies' semicolons.
func WriteScript(w io.Writer, delimiter string, body []byte) error {
	if _, err := fmt.Fprintf(w, "DELIMITER %s\n\n", delimiter); err != nil {
		return fmt.Errorf("procgen: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("procgen: %w", err)
	}
	if _, err := io.WriteString(w, "\nDELIMITER ;\n"); err != nil {
		return fmt.Errorf("procgen: %w", err)
	}
	return nil
}
