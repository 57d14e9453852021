// Package model provides domain model for tabsql
package model

import "strings"

// Header is file header.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Validate reports the first header name that appears twice.
// Names are compared after trimming whitespace and without regard to case,
// the same way SQLite compares identifiers.
func (h Header) Validate() error {
	seen := make(map[string]bool, len(h))
	for _, name := range h {
		key := strings.ToLower(strings.TrimSpace(name))
		if seen[key] {
			return &duplicateColumnError{name: name}
		}
		seen[key] = true
	}
	return nil
}

// Record is one raw row of a file: every value is still a string.
type Record []string

// NewRecord create new Record.
func NewRecord(r []string) Record {
	return Record(r)
}

// ColumnType represents the SQL column type
type ColumnType int

const (
	// ColumnTypeText represents TEXT column type
	ColumnTypeText ColumnType = iota
	// ColumnTypeInteger represents INTEGER column type
	ColumnTypeInteger
	// ColumnTypeReal represents REAL column type
	ColumnTypeReal
)

const (
	// sqlTypeText is the SQL TEXT type string
	sqlTypeText = "TEXT"
	// sqlTypeInteger is the SQL INTEGER type string
	sqlTypeInteger = "INTEGER"
	// sqlTypeReal is the SQL REAL type string
	sqlTypeReal = "REAL"
)

// String returns the SQL column type string
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeInteger:
		return sqlTypeInteger
	case ColumnTypeReal:
		return sqlTypeReal
	default:
		return sqlTypeText
	}
}

// accepts reports whether v is the Go representation of a value of this type.
func (ct ColumnType) accepts(v any) bool {
	switch ct {
	case ColumnTypeInteger:
		_, ok := v.(int64)
		return ok
	case ColumnTypeReal:
		_, ok := v.(float64)
		return ok
	default:
		_, ok := v.(string)
		return ok
	}
}

// Column is a column name with its inferred type.
type Column struct {
	Name string
	Type ColumnType
}
