package model

// Relation is a table definition ready to be created in the store.
// Name and column names are identifier-safe; Columns are in header order and
// line up with the values of the rows inserted into the relation.
type Relation struct {
	Name            string
	Source          string
	Columns         []Column
	CreateStatement string
	InsertStatement string
}

// ResultSet is the outcome of a query: column names and rows of scalar values.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}
