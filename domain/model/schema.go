package model

import (
	"fmt"
	"strings"
)

// Schema is the ordered, name-unique column list of one table.
// It is immutable once created.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema validates columns and returns a Schema.
// Column names are unique without regard to case.
func NewSchema(columns []Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		key := strings.ToLower(col.Name)
		if _, exists := s.index[key]; exists {
			return nil, &duplicateColumnError{name: col.Name}
		}
		s.index[key] = i
		s.columns[i] = col
	}
	return s, nil
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Column returns the i-th column.
func (s *Schema) Column(i int) Column {
	return s.columns[i]
}

// Columns returns a copy of the columns in header order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in header order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// Lookup returns the position of the named column.
func (s *Schema) Lookup(name string) (int, bool) {
	i, ok := s.index[strings.ToLower(name)]
	return i, ok
}

// Row is a typed row bound to a Schema.
// Values are int64 for INTEGER columns, float64 for REAL and string for TEXT.
type Row struct {
	schema *Schema
	values []any
}

// NewRow checks values against schema and returns a Row.
func NewRow(schema *Schema, values []any) (Row, error) {
	if len(values) != schema.Len() {
		return Row{}, fmt.Errorf("%w: got %d values for %d columns", ErrInvalidRow, len(values), schema.Len())
	}
	for i, v := range values {
		col := schema.Column(i)
		if !col.Type.accepts(v) {
			return Row{}, fmt.Errorf("%w: column %s is %s, got %T", ErrInvalidRow, col.Name, col.Type, v)
		}
	}
	return Row{schema: schema, values: values}, nil
}

// Schema returns the schema the row is bound to.
func (r Row) Schema() *Schema {
	return r.schema
}

// Len returns the number of values.
func (r Row) Len() int {
	return len(r.values)
}

// Value returns the i-th value.
func (r Row) Value(i int) any {
	return r.values[i]
}

// Get returns the value of the named column.
func (r Row) Get(name string) (any, bool) {
	i, ok := r.schema.Lookup(name)
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Values returns a copy of the row values in column order.
func (r Row) Values() []any {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}
