// Package tabsql loads tabular files into an in-memory SQLite database and
// lets you query them with SQL.
//
// No schema has to be declared. For delimited text the dialect (delimiter,
// quote character, spacing) is detected from a sample of the file, and every
// column is typed from its values: INTEGER when all of them parse as
// integers, REAL when all of them parse as numbers, TEXT otherwise.
//
// # Features
//
//   - Delimited text with comma, tab, semicolon, pipe or colon delimiters
//   - Excel (XLSX) workbooks, one table per sheet
//   - Parquet files
//   - Automatic handling of compressed files (gzip, bzip2, xz, zstandard)
//   - Files, directories and fs.FS (for example embed.FS) as input
//
// # Basic Usage
//
//	db, err := tabsql.Open("people.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	res, err := db.Query(ctx, "SELECT name, age FROM people WHERE age > 25")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = tabsql.PrintTable(os.Stdout, res)
//
// # Advanced Usage
//
//	validatedBuilder, err := tabsql.NewBuilder().
//	    AddPath("users.csv").
//	    AddPath("exports/").
//	    EnableBestEffort().
//	    SetLogger(slog.Default()).
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db, err := validatedBuilder.Open(ctx)
//
// # Table Naming
//
// Table names are derived from file paths and made safe as SQL identifiers:
//   - "users.csv" becomes table "users"
//   - "data.tsv.gz" becomes table "data"
//   - "2024 sales.csv" becomes table "table_2024_sales"
//   - "Café.csv" becomes table "Cafe"
//   - "book.xlsx" with sheets "A" and "B" becomes tables "book_A" and "book_B"
//
// Column names follow the same rules with a "column" prefix. Two files or
// two columns that end up with the same name, compared without regard to
// case, are rejected.
//
// # SQL Syntax
//
// Queries are passed to SQLite unchanged. Changes made by queries affect only
// the in-memory database; input files are never written.
// For complete SQL syntax documentation, see: https://www.sqlite.org/lang.html
package tabsql
