// Package schema holds the column metadata consumed by the procedure
// generator, along with the predicates that classify it.
package schema

// Database represents a database (MySQL schema) with its tables.
type Database struct {
	Name   string  `yaml:"name"`
	Tables []Table `yaml:"tables"`
}

// Table represents a database table.
type Table struct {
	Name    string   `yaml:"name"`
	Columns []Column `yaml:"columns"`
}

// Procedure represents a stored routine found in a database.
type Procedure struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"` // PROCEDURE or FUNCTION
}

// Column mirrors a row of information_schema.COLUMNS. Columns are read-only
// once fetched; slices of them keep the table's ordinal order.
type Column struct {
	Name             string `yaml:"name"`
	DataType         string `yaml:"data_type"`
	CharMaxLength    *int64 `yaml:"char_max_length,omitempty"`
	NumericPrecision *int64 `yaml:"numeric_precision,omitempty"`
	NumericScale     *int64 `yaml:"numeric_scale,omitempty"`
	Nullable         bool   `yaml:"nullable"`
	ColumnKey        string `yaml:"column_key,omitempty"` // PRI, UNI, MUL
	ColumnType       string `yaml:"column_type,omitempty"`
	Extra            string `yaml:"extra,omitempty"`
}

// Int64 returns a pointer to v, for filling the optional Column attributes.
func Int64(v int64) *int64 {
	return &v
}
