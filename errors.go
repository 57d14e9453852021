package tabsql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/tabsql/domain/model"
	"github.com/nao1215/tabsql/store"
)

// Standard errors returned while loading and querying files
var (
	// ErrDialectUnrecognized indicates that no delimiter and quote combination splits the sample consistently
	ErrDialectUnrecognized = errors.New("tabsql: dialect not recognized")

	// ErrInvalidEncoding indicates that a file is not valid UTF-8
	ErrInvalidEncoding = errors.New("tabsql: invalid UTF-8 encoding")

	// ErrEmptyFile indicates that a file has no header record
	ErrEmptyFile = errors.New("tabsql: empty file")

	// ErrDuplicateTable indicates that two sources map to the same table name
	ErrDuplicateTable = errors.New("tabsql: duplicate table name")

	// ErrDuplicateColumn indicates that two columns of one table share a name
	ErrDuplicateColumn = model.ErrDuplicateColumnName

	// ErrClosed indicates the database has already been closed
	ErrClosed = store.ErrClosed
)

// IngestError reports a file that could not be loaded.
type IngestError struct {
	// Path is the file that failed.
	Path string
	// Table is the table name planned for the file, when one was derived.
	Table string
	// Err is the originating error.
	Err error
}

func (e *IngestError) Error() string {
	parts := []string{"tabsql: load failed", "file: " + e.Path}
	if e.Table != "" {
		parts = append(parts, "table: "+e.Table)
	}
	return fmt.Sprintf("%s: %v", strings.Join(parts, ", "), e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// RelationError reports a CREATE TABLE statement the engine rejected.
type RelationError struct {
	Table     string
	Statement string
	Err       error
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("tabsql: create table %s failed, statement: %s: %v", e.Table, e.Statement, e.Err)
}

func (e *RelationError) Unwrap() error {
	return e.Err
}

// QueryError reports a query the engine rejected. Queries are never retried.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("tabsql: query failed, query: %s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
