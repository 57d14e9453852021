package store

import (
	"context"

	"github.com/nao1215/tabsql/domain/model"
)

// Store is a relational store that can hold relations and answer SQL.
//
// A Store belongs to one Database and is not safe for concurrent use.
type Store interface {
	// CreateRelation creates the table described by rel.
	CreateRelation(ctx context.Context, rel *model.Relation) error
	// InsertRows inserts rows into rel in order, all or nothing.
	InsertRows(ctx context.Context, rel *model.Relation, rows []model.Row) error
	// DropRelation removes the named table if it exists.
	DropRelation(ctx context.Context, name string) error
	// TableNames returns the names of all user tables, sorted.
	TableNames(ctx context.Context) ([]string, error)
	// Execute runs query and returns every row it produced.
	Execute(ctx context.Context, query string) (*model.ResultSet, error)
	// Close releases the store. Later calls return ErrClosed.
	Close() error
}
