package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedMetadata is matched by every *MetadataError.
var ErrMalformedMetadata = errors.New("malformed column metadata")

// MetadataError reports a column lacking an attribute its data type needs.
type MetadataError struct {
	Column    string
	DataType  string
	Attribute string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("column %q (%s): missing %s", e.Column, e.DataType, e.Attribute)
}

func (e *MetadataError) Is(target error) bool {
	return target == ErrMalformedMetadata
}

// TypeOptions controls parameter type rendering.
type TypeOptions struct {
	// KeepNotNull appends NOT NULL for columns that reject NULL.
	KeepNotNull bool
	// EnumAsVarchar renders ENUM columns as VARCHAR of the enum's maximum
	// value length instead of repeating the enum literal.
	EnumAsVarchar bool
}

// ParamType renders the type of a stored procedure parameter for c. Key and
// auto-increment attributes never appear in the result. Unknown data types
// fall back to the upper-cased data type.
func ParamType(c Column, opts TypeOptions) (string, error) {
	dataType := strings.ToUpper(c.DataType)

	var parts []string
	switch {
	case strings.Contains(dataType, "INT"):
		parts = append(parts, dataType)
		if c.IsUnsigned() {
			parts = append(parts, "UNSIGNED")
		}
	case strings.Contains(dataType, "CHAR"):
		if c.CharMaxLength == nil {
			return "", missing(c, "character maximum length")
		}
		parts = append(parts, fmt.Sprintf("%s(%d)", dataType, *c.CharMaxLength))
	case dataType == "NUMERIC" || dataType == "DECIMAL":
		if c.NumericPrecision == nil {
			return "", missing(c, "numeric precision")
		}
		if c.NumericScale == nil {
			return "", missing(c, "numeric scale")
		}
		parts = append(parts, fmt.Sprintf("NUMERIC(%d,%d)", *c.NumericPrecision, *c.NumericScale))
	case dataType == "ENUM":
		if opts.EnumAsVarchar {
			if c.CharMaxLength == nil {
				return "", missing(c, "character maximum length")
			}
			parts = append(parts, fmt.Sprintf("VARCHAR(%d)", *c.CharMaxLength))
		} else {
			lit, err := literalType(c, "enum")
			if err != nil {
				return "", err
			}
			parts = append(parts, lit)
		}
	case dataType == "SET":
		lit, err := literalType(c, "set")
		if err != nil {
			return "", err
		}
		parts = append(parts, lit)
	default:
		parts = append(parts, dataType)
	}

	if opts.KeepNotNull && c.NotNullable() {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " "), nil
}

// literalType returns the full enum/set column type with its keyword
// upper-cased once, e.g. enum('a','b') -> ENUM('a','b').
func literalType(c Column, keyword string) (string, error) {
	if c.ColumnType == "" {
		return "", missing(c, "column type")
	}
	return strings.Replace(c.ColumnType, keyword, strings.ToUpper(keyword), 1), nil
}

func missing(c Column, attr string) error {
	return &MetadataError{Column: c.Name, DataType: c.DataType, Attribute: attr}
}
