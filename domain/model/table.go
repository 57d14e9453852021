package model

import (
	"path/filepath"
	"strings"
)

// Table represents file contents as a typed database table.
type Table struct {
	// name is the logical table name derived from the file path.
	name string
	// source is the path of the file the table was read from.
	source string
	// schema holds the inferred column types in header order.
	schema *Schema
	// rows are the typed rows in file order.
	rows []Row
}

// NewTable infers column types from the raw records and returns the typed Table.
func NewTable(
	name string,
	source string,
	header Header,
	records []Record,
) (*Table, error) {
	schema, rows, err := InferSchema(header, records)
	if err != nil {
		return nil, err
	}

	return &Table{
		name:   name,
		source: source,
		schema: schema,
		rows:   rows,
	}, nil
}

// Name return table name.
func (t *Table) Name() string {
	return t.name
}

// Source returns the path of the file the table was read from.
func (t *Table) Source() string {
	return t.source
}

// Schema returns the inferred schema.
func (t *Table) Schema() *Schema {
	return t.schema
}

// Rows returns the typed rows.
func (t *Table) Rows() []Row {
	return t.rows
}

// TableFromFilePath creates table name from file path
func TableFromFilePath(filePath string) string {
	fileName := filepath.Base(filePath)
	// Remove compression extensions first
	for _, ext := range []string{ExtGZ, ExtBZ2, ExtXZ, ExtZSTD} {
		if strings.HasSuffix(strings.ToLower(fileName), ext) {
			fileName = fileName[:len(fileName)-len(ext)]
			break
		}
	}
	// Then remove the file type extension
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
