package schema

import (
	"errors"
	"reflect"
	"testing"
)

func idColumn() Column {
	return Column{
		Name:       "id",
		DataType:   "int",
		ColumnKey:  "PRI",
		ColumnType: "int unsigned",
		Extra:      "auto_increment",
	}
}

func nameColumn() Column {
	return Column{
		Name:          "name",
		DataType:      "varchar",
		CharMaxLength: Int64(50),
		ColumnType:    "varchar(50)",
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		col       Column
		notNull   bool
		pk        bool
		unsigned  bool
		autoInc   bool
		autonumPK bool
	}{
		{"autonumber key", idColumn(), true, true, true, true, true},
		{"nullable varchar", Column{Name: "n", DataType: "varchar", Nullable: true}, false, false, false, false, false},
		{"pk without auto_increment", Column{Name: "code", ColumnKey: "PRI"}, true, true, false, false, false},
		{"auto_increment without pk", Column{Name: "seq", Extra: "auto_increment"}, true, false, false, true, false},
		{"unique key is not primary", Column{Name: "u", ColumnKey: "UNI", ColumnType: "bigint unsigned"}, true, false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.col.NotNullable(); got != tt.notNull {
				t.Errorf("NotNullable() = %v, want %v", got, tt.notNull)
			}
			if got := tt.col.IsPrimaryKey(); got != tt.pk {
				t.Errorf("IsPrimaryKey() = %v, want %v", got, tt.pk)
			}
			if got := tt.col.IsUnsigned(); got != tt.unsigned {
				t.Errorf("IsUnsigned() = %v, want %v", got, tt.unsigned)
			}
			if got := tt.col.IsAutoIncrement(); got != tt.autoInc {
				t.Errorf("IsAutoIncrement() = %v, want %v", got, tt.autoInc)
			}
			if got := tt.col.IsAutonumberPrimaryKey(); got != tt.autonumPK {
				t.Errorf("IsAutonumberPrimaryKey() = %v, want %v", got, tt.autonumPK)
			}
		})
	}
}

func TestFindAutonumberPrimaryKey(t *testing.T) {
	second := idColumn()
	second.Name = "other_id"

	got, ok := FindAutonumberPrimaryKey([]Column{nameColumn(), idColumn(), second})
	if !ok {
		t.Fatal("FindAutonumberPrimaryKey() found nothing")
	}
	if got.Name != "id" {
		t.Errorf("FindAutonumberPrimaryKey() = %q, want first match %q", got.Name, "id")
	}

	if _, ok := FindAutonumberPrimaryKey([]Column{nameColumn()}); ok {
		t.Error("FindAutonumberPrimaryKey() on table without key returned ok")
	}
	if _, ok := FindAutonumberPrimaryKey(nil); ok {
		t.Error("FindAutonumberPrimaryKey(nil) returned ok")
	}
}

func TestWithoutAutonumberPrimaryKey(t *testing.T) {
	age := Column{Name: "age", DataType: "int"}
	dup := idColumn()
	dup.Name = "legacy_id"

	got := WithoutAutonumberPrimaryKey([]Column{idColumn(), nameColumn(), dup, age})
	want := []Column{nameColumn(), age}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WithoutAutonumberPrimaryKey() = %+v, want %+v", got, want)
	}
}

func TestConfirmFields(t *testing.T) {
	email := Column{Name: "email", DataType: "varchar", CharMaxLength: Int64(120)}
	cols := []Column{idColumn(), nameColumn(), email}

	got, err := ConfirmFields(cols, []string{"email", "name"})
	if err != nil {
		t.Fatalf("ConfirmFields() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ConfirmFields() returned %d columns, want 2", len(got))
	}
	if got[0].Name != "confirm_email" || got[1].Name != "confirm_name" {
		t.Errorf("ConfirmFields() names = %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].LogicalName() != "email" {
		t.Errorf("LogicalName() = %q, want %q", got[0].LogicalName(), "email")
	}
	if *got[0].CharMaxLength != 120 {
		t.Errorf("confirm column lost its metadata: %+v", got[0])
	}
	if cols[2].Name != "email" {
		t.Errorf("ConfirmFields() mutated its input: %q", cols[2].Name)
	}

	if _, err := ConfirmFields(cols, []string{"missing"}); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("ConfirmFields(missing) error = %v, want ErrUnknownColumn", err)
	}
	if _, err := ConfirmFields(cols, []string{"id"}); !errors.Is(err, ErrConfirmOnKey) {
		t.Errorf("ConfirmFields(id) error = %v, want ErrConfirmOnKey", err)
	}
	if got, err := ConfirmFields(cols, nil); err != nil || got != nil {
		t.Errorf("ConfirmFields(nil) = %v, %v; want nil, nil", got, err)
	}
}

func TestParamType(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		opts TypeOptions
		want string
	}{
		{
			name: "unsigned int",
			col:  Column{DataType: "int", ColumnType: "int unsigned"},
			want: "INT UNSIGNED",
		},
		{
			name: "signed bigint",
			col:  Column{DataType: "bigint", ColumnType: "bigint", Nullable: true},
			want: "BIGINT",
		},
		{
			name: "varchar",
			col:  Column{DataType: "varchar", CharMaxLength: Int64(50), Nullable: true},
			want: "VARCHAR(50)",
		},
		{
			name: "char not null kept",
			col:  Column{DataType: "char", CharMaxLength: Int64(2)},
			opts: TypeOptions{KeepNotNull: true},
			want: "CHAR(2) NOT NULL",
		},
		{
			name: "not null dropped by default",
			col:  Column{DataType: "char", CharMaxLength: Int64(2)},
			want: "CHAR(2)",
		},
		{
			name: "decimal normalized",
			col:  Column{DataType: "decimal", NumericPrecision: Int64(10), NumericScale: Int64(2), Nullable: true},
			want: "NUMERIC(10,2)",
		},
		{
			name: "numeric",
			col:  Column{DataType: "NUMERIC", NumericPrecision: Int64(8), NumericScale: Int64(0), Nullable: true},
			want: "NUMERIC(8,0)",
		},
		{
			name: "enum literal",
			col:  Column{DataType: "enum", ColumnType: "enum('enum','b')", Nullable: true},
			want: "ENUM('enum','b')",
		},
		{
			name: "enum as varchar",
			col:  Column{DataType: "enum", ColumnType: "enum('red','green')", CharMaxLength: Int64(5)},
			opts: TypeOptions{EnumAsVarchar: true, KeepNotNull: true},
			want: "VARCHAR(5) NOT NULL",
		},
		{
			name: "set literal",
			col:  Column{DataType: "set", ColumnType: "set('a','b')", Nullable: true},
			want: "SET('a','b')",
		},
		{
			name: "fallback",
			col:  Column{DataType: "datetime", Nullable: true},
			want: "DATETIME",
		},
		{
			name: "fallback not null",
			col:  Column{DataType: "text"},
			opts: TypeOptions{KeepNotNull: true},
			want: "TEXT NOT NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParamType(tt.col, tt.opts)
			if err != nil {
				t.Fatalf("ParamType() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParamType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParamType_MalformedMetadata(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		opts TypeOptions
		attr string
	}{
		{"char without length", Column{Name: "code", DataType: "char"}, TypeOptions{}, "character maximum length"},
		{"decimal without precision", Column{Name: "price", DataType: "decimal", NumericScale: Int64(2)}, TypeOptions{}, "numeric precision"},
		{"decimal without scale", Column{Name: "price", DataType: "decimal", NumericPrecision: Int64(10)}, TypeOptions{}, "numeric scale"},
		{"enum as varchar without length", Column{Name: "color", DataType: "enum", ColumnType: "enum('a')"}, TypeOptions{EnumAsVarchar: true}, "character maximum length"},
		{"set without column type", Column{Name: "flags", DataType: "set"}, TypeOptions{}, "column type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParamType(tt.col, tt.opts)
			if !errors.Is(err, ErrMalformedMetadata) {
				t.Fatalf("ParamType() error = %v, want ErrMalformedMetadata", err)
			}
			var me *MetadataError
			if !errors.As(err, &me) {
				t.Fatalf("ParamType() error %T is not *MetadataError", err)
			}
			if me.Column != tt.col.Name || me.Attribute != tt.attr {
				t.Errorf("MetadataError = %+v, want column %q attribute %q", me, tt.col.Name, tt.attr)
			}
		})
	}
}
