package tabsql

import (
	"fmt"
	"strings"

	"github.com/nao1215/tabsql/domain/model"
)

// buildRelation derives identifier-safe names for table and its columns and
// renders the statements that create and fill it. Column types are the
// inferred ones, in header order.
func buildRelation(table *model.Table, ids identifierSanitizer) (*model.Relation, error) {
	schema := table.Schema()
	if err := validateColumnCount(schema.Len()); err != nil {
		return nil, err
	}

	name := ids.tableName(table.Name())

	columns := make([]model.Column, schema.Len())
	seen := make(map[string]string, schema.Len())
	for i, col := range schema.Columns() {
		id := ids.columnName(col.Name)
		key := strings.ToLower(id)
		if previous, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w: %q and %q both become %s", ErrDuplicateColumn, previous, col.Name, id)
		}
		seen[key] = col.Name
		columns[i] = model.Column{Name: id, Type: col.Type}
	}

	return &model.Relation{
		Name:            name,
		Source:          table.Source(),
		Columns:         columns,
		CreateStatement: createTableStatement(name, columns),
		InsertStatement: insertStatement(name, columns),
	}, nil
}

// createTableStatement renders CREATE TABLE [t] ([c1] INTEGER, [c2] TEXT, ...)
func createTableStatement(name string, columns []model.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("[%s] %s", col.Name, col.Type)
	}
	return fmt.Sprintf("CREATE TABLE [%s] (%s)", name, strings.Join(defs, ", "))
}

// insertStatement renders INSERT INTO [t] ([c1], [c2]) VALUES (:c1, :c2)
func insertStatement(name string, columns []model.Column) string {
	names := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, col := range columns {
		names[i] = "[" + col.Name + "]"
		params[i] = ":" + col.Name
	}
	return fmt.Sprintf("INSERT INTO [%s] (%s) VALUES (%s)",
		name, strings.Join(names, ", "), strings.Join(params, ", "))
}
