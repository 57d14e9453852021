package tabsql

import (
	"context"
)

// Open opens a Database and loads path into it.
//
// path may be empty, which opens an empty Database, a single file, or a
// directory whose regular, non-hidden files are each loaded as one table.
// Column types are inferred from the values of each column: INTEGER when
// every value is an integer, REAL when every value is a number, TEXT
// otherwise.
//
// Example usage:
//
//	db, err := tabsql.Open("data/people.csv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	res, err := db.Query(ctx, "SELECT name FROM people WHERE age > 30 ORDER BY name")
//	if err != nil {
//		log.Fatal(err)
//	}
//	tabsql.PrintTable(os.Stdout, res)
func Open(path string) (*Database, error) {
	return OpenContext(context.Background(), path)
}

// OpenContext is like Open but includes context support.
// The context is checked between files and passed to the engine.
func OpenContext(ctx context.Context, path string) (*Database, error) {
	builder := NewBuilder()
	if path != "" {
		builder.AddPath(path)
	}

	validatedBuilder, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	return validatedBuilder.Open(ctx)
}

// New opens an empty Database. Files can be added later with Database.Load.
func New() (*Database, error) {
	return Open("")
}
