package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ConfirmPrefix marks a column copy used as an equality guard parameter.
const ConfirmPrefix = "confirm_"

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrConfirmOnKey  = errors.New("autonumber primary key cannot be a confirm field")
)

// NotNullable reports whether the column rejects NULL.
func (c Column) NotNullable() bool { return !c.Nullable }

// IsPrimaryKey reports whether the column is part of the primary key.
func (c Column) IsPrimaryKey() bool { return strings.Contains(c.ColumnKey, "PRI") }

// IsUnsigned reports whether the full column type carries "unsigned".
func (c Column) IsUnsigned() bool { return strings.Contains(c.ColumnType, "unsigned") }

// IsAutoIncrement reports whether the column's extra attributes carry
// "auto_increment".
func (c Column) IsAutoIncrement() bool { return strings.Contains(c.Extra, "auto_increment") }

// IsAutonumberPrimaryKey reports whether the column is an auto-incrementing
// primary key.
func (c Column) IsAutonumberPrimaryKey() bool {
	return c.IsPrimaryKey() && c.IsAutoIncrement()
}

// LogicalName returns the column name without its confirm prefix.
func (c Column) LogicalName() string {
	return strings.TrimPrefix(c.Name, ConfirmPrefix)
}

// FindAutonumberPrimaryKey returns the first autonumber primary key column.
// Later matches, if the metadata has any, are ignored.
func FindAutonumberPrimaryKey(cols []Column) (Column, bool) {
	for _, c := range cols {
		if c.IsAutonumberPrimaryKey() {
			return c, true
		}
	}
	return Column{}, false
}

// WithoutAutonumberPrimaryKey returns cols, in order, minus every column
// classified as an autonumber primary key.
func WithoutAutonumberPrimaryKey(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if !c.IsAutonumberPrimaryKey() {
			out = append(out, c)
		}
	}
	return out
}

// ConfirmFields builds confirm columns for the named columns of cols. Each
// result is a copy of the source column renamed to "confirm_<name>", in the
// order of names.
func ConfirmFields(cols []Column, names []string) ([]Column, error) {
	if len(names) == 0 {
		return nil, nil
	}

	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}

	out := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("confirm field %q: %w", name, ErrUnknownColumn)
		}
		if c.IsAutonumberPrimaryKey() {
			return nil, fmt.Errorf("confirm field %q: %w", name, ErrConfirmOnKey)
		}
		c.Name = ConfirmPrefix + c.Name
		out = append(out, c)
	}
	return out, nil
}
