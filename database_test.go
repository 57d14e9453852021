//nolint:errcheck // Test cleanup error handling is intentionally ignored
package tabsql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/tabsql/domain/model"
)

const peopleCSV = "id,name,age\n1,alice,30\n2,bob,25\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func mustQuery(t *testing.T, db *Database, query string) *Result {
	t.Helper()

	res, err := db.Query(context.Background(), query)
	require.NoError(t, err)
	return res
}

func TestOpen_SingleFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "people.csv", peopleCSV)

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	res := mustQuery(t, db, "SELECT name FROM people WHERE age > 26")
	assert.Equal(t, []string{"name"}, res.Columns)
	assert.Equal(t, [][]any{{"alice"}}, res.Rows)

	assert.Equal(t, []string{"people"}, db.Tables())
	source, ok := db.Source("PEOPLE")
	assert.True(t, ok)
	assert.Equal(t, path, source)

	columns, ok := db.Columns("people")
	require.True(t, ok)
	assert.Equal(t, []model.Column{
		{Name: "id", Type: model.ColumnTypeInteger},
		{Name: "name", Type: model.ColumnTypeText},
		{Name: "age", Type: model.ColumnTypeInteger},
	}, columns)
}

func TestOpen_InfersStorageTypes(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "values.csv",
		"ints,reals,texts,blanks\n1,1,1,1\n2,2.5,x,\n3,3,3,3\n")

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	res := mustQuery(t, db, "SELECT typeof(ints), typeof(reals), typeof(texts), typeof(blanks) FROM [values] LIMIT 1")
	assert.Equal(t, [][]any{{"integer", "real", "text", "text"}}, res.Rows)

	res = mustQuery(t, db, "SELECT SUM(ints), SUM(reals) FROM [values]")
	assert.Equal(t, [][]any{{int64(6), 6.5}}, res.Rows)

	res = mustQuery(t, db, "SELECT blanks FROM [values] ORDER BY ints")
	assert.Equal(t, [][]any{{"1"}, {""}, {"3"}}, res.Rows)
}

func TestOpen_DetectsDialectFromContent(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join("testdata", "cities.txt"))
	require.NoError(t, err)
	defer db.Close()

	res := mustQuery(t, db, "SELECT city, population, area FROM cities ORDER BY population DESC")
	assert.Equal(t, [][]any{
		{"Paris", int64(2148000), 105.4},
		{"Lyon", int64(513000), 47.87},
	}, res.Rows)
}

func TestOpen_QuotedFields(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join("testdata", "quoted.csv"))
	require.NoError(t, err)
	defer db.Close()

	res := mustQuery(t, db, "SELECT comment FROM quoted WHERE name = 'Smith, J.'")
	assert.Equal(t, [][]any{{"said \"hi\"\nthen left"}}, res.Rows)
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()

	db, err := Open("")
	require.NoError(t, err)
	defer db.Close()

	assert.Empty(t, db.Tables())
	res := mustQuery(t, db, "SELECT 1 AS one")
	assert.Equal(t, [][]any{{int64(1)}}, res.Rows)
}

func TestOpen_Directory(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join("testdata", "mixed"))
	require.NoError(t, err)
	defer db.Close()

	// Hidden files and subdirectories are not loaded.
	assert.Equal(t, []string{"labels", "prices"}, db.Tables())

	res := mustQuery(t, db, "SELECT label FROM labels WHERE id = 2")
	assert.Equal(t, [][]any{{"second"}}, res.Rows)

	res = mustQuery(t, db, "SELECT sku, price FROM prices ORDER BY sku")
	assert.Equal(t, [][]any{{"A-1", 3.5}, {"B-2", 4.0}}, res.Rows)
}

func TestOpen_DirectoryJoin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "id,x\n1,10\n2,20\n")
	writeFile(t, dir, "b.csv", "id,y\n1,100\n3,300\n")

	db, err := Open(dir)
	require.NoError(t, err)
	defer db.Close()

	res := mustQuery(t, db, "SELECT a.x, b.y FROM a JOIN b ON a.id = b.id")
	assert.Equal(t, [][]any{{int64(10), int64(100)}}, res.Rows)
}

func TestOpen_DuplicateStems(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "people.csv", peopleCSV)
	writeFile(t, dir, "people.tsv", "id\tname\n3\tcarol\n")

	_, err := Open(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTable)

	var ingestErr *IngestError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, "people", ingestErr.Table)

	t.Run("neither table is created", func(t *testing.T) {
		t.Parallel()

		db, err := New()
		require.NoError(t, err)
		defer db.Close()

		assert.ErrorIs(t, db.Load(context.Background(), dir), ErrDuplicateTable)
		assert.Empty(t, db.Tables())
		res := mustQuery(t, db, "SELECT name FROM sqlite_master WHERE type = 'table'")
		assert.Empty(t, res.Rows)
	})
}

func TestOpen_DuplicateStemsAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "People.csv", peopleCSV)
	writeFile(t, dir, "people.txt", peopleCSV)

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrDuplicateTable)
}

func TestOpen_DuplicateColumns(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "dup.csv", "id,name,ID\n1,a,2\n")

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	var ingestErr *IngestError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, path, ingestErr.Path)
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.csv"), wantErr: os.ErrNotExist},
		{name: "empty file", path: writeFile(t, dir, "empty.csv", ""), wantErr: ErrEmptyFile},
		{name: "single column", path: writeFile(t, dir, "single.csv", "name\nalice\n"), wantErr: ErrDialectUnrecognized},
		{name: "invalid encoding", path: writeFile(t, dir, "latin1.csv", "a,b\ncaf\xe9,1\n"), wantErr: ErrInvalidEncoding},
		{name: "null byte in path", path: "bad\x00.csv", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, err := Open(tt.path)
			assert.Nil(t, db)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDatabase_Query(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "people.csv", peopleCSV)
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	t.Run("rejected query", func(t *testing.T) {
		query := "SELEC name FROM people"
		_, err := db.Query(context.Background(), query)
		require.Error(t, err)

		var queryErr *QueryError
		require.True(t, errors.As(err, &queryErr))
		assert.Equal(t, query, queryErr.Query)
		assert.NotNil(t, queryErr.Unwrap())

		res := mustQuery(t, db, "SELECT COUNT(*) FROM people")
		assert.Equal(t, [][]any{{int64(2)}}, res.Rows)
	})

	t.Run("failed statement list is rolled back", func(t *testing.T) {
		query := "INSERT INTO people (id, name, age) VALUES (3, 'zed', 40); SELEC x"
		_, err := db.Query(context.Background(), query)

		var queryErr *QueryError
		require.True(t, errors.As(err, &queryErr))
		assert.Equal(t, query, queryErr.Query)

		res := mustQuery(t, db, "SELECT name FROM people ORDER BY id")
		assert.Equal(t, [][]any{{"alice"}, {"bob"}}, res.Rows)
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := db.Query(context.Background(), "SELECT * FROM nobody")
		var queryErr *QueryError
		assert.True(t, errors.As(err, &queryErr))
	})

	t.Run("NULL values", func(t *testing.T) {
		res := mustQuery(t, db, "SELECT NULL AS missing")
		assert.Equal(t, [][]any{{nil}}, res.Rows)
	})
}

func TestDatabase_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	require.NoError(t, os.Mkdir(first, 0750))
	require.NoError(t, os.Mkdir(second, 0750))
	writeFile(t, first, "people.csv", peopleCSV)
	writeFile(t, second, "people.csv", "id,name\n9,zed\n")
	orders := writeFile(t, second, "orders.csv", "id,total\n1,9.5\n")

	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Load(ctx, first))
	assert.Equal(t, []string{"people"}, db.Tables())

	err = db.Load(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicateTable)
	assert.Equal(t, []string{"people"}, db.Tables(), "a rejected batch adds no table")

	res := mustQuery(t, db, "SELECT name FROM people ORDER BY id")
	assert.Equal(t, [][]any{{"alice"}, {"bob"}}, res.Rows)

	require.NoError(t, db.Load(ctx, orders))
	assert.Equal(t, []string{"people", "orders"}, db.Tables())
}

func TestDatabase_LoadCanceled(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "people.csv", peopleCSV)
	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, db.Load(ctx, path), context.Canceled)
	assert.Empty(t, db.Tables())
}

func TestDatabase_BestEffort(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bad.csv", "only\none\n")
	writeFile(t, dir, "good.csv", peopleCSV)
	writeFile(t, dir, "latin1.csv", "a,b\ncaf\xe9,1\n")

	t.Run("default mode aborts on the first failure", func(t *testing.T) {
		t.Parallel()

		_, err := Open(dir)
		assert.ErrorIs(t, err, ErrDialectUnrecognized)

		var ingestErr *IngestError
		require.True(t, errors.As(err, &ingestErr))
		assert.Equal(t, filepath.Join(dir, "bad.csv"), ingestErr.Path)
	})

	t.Run("best-effort mode keeps the good files", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		builder, err := NewBuilder().
			AddPath(dir).
			EnableBestEffort().
			SetLogger(slog.New(slog.NewTextHandler(&logs, nil))).
			Build(context.Background())
		require.NoError(t, err)

		db, err := builder.Open(context.Background())
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, []string{"good"}, db.Tables())

		failures := db.Failures()
		require.Len(t, failures, 2)
		assert.ErrorIs(t, failures[0], ErrDialectUnrecognized)
		assert.ErrorIs(t, failures[1], ErrInvalidEncoding)
		assert.Contains(t, logs.String(), "skipping file")
	})

	t.Run("duplicate tables stay fatal", func(t *testing.T) {
		t.Parallel()

		dupDir := t.TempDir()
		writeFile(t, dupDir, "t.csv", peopleCSV)
		writeFile(t, dupDir, "t.tsv", "a\tb\n1\t2\n")

		builder, err := NewBuilder().AddPath(dupDir).EnableBestEffort().Build(context.Background())
		require.NoError(t, err)
		_, err = builder.Open(context.Background())
		assert.ErrorIs(t, err, ErrDuplicateTable)
	})
}

func TestDatabase_Close(t *testing.T) {
	t.Parallel()

	db, err := New()
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.ErrorIs(t, db.Close(), ErrClosed)
	_, err = db.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, db.Load(context.Background(), "people.csv"), ErrClosed)
}

func TestOpen_IdentifierSanitizing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "My Data-2024.csv", "Unit Price,item.name\n1.5,pen\n")
	writeFile(t, dir, "Café.csv", "naïve,x\n1,2\n")

	db, err := Open(dir)
	require.NoError(t, err)
	defer db.Close()

	assert.ElementsMatch(t, []string{"My_Data_2024", "Cafe"}, db.Tables())

	res := mustQuery(t, db, "SELECT Unit_Price, item_name FROM My_Data_2024")
	assert.Equal(t, [][]any{{1.5, "pen"}}, res.Rows)

	res = mustQuery(t, db, "SELECT naive FROM Cafe")
	assert.Equal(t, [][]any{{int64(1)}}, res.Rows)

	source, ok := db.Source("Cafe")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Café.csv"), source)
}

func TestOpen_CustomTransliterator(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "é.csv", "a,b\n1,2\n")

	builder, err := NewBuilder().
		AddPath(path).
		SetTransliterator(func(string) string { return "accent" }).
		Build(context.Background())
	require.NoError(t, err)

	db, err := builder.Open(context.Background())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, []string{"accent"}, db.Tables())
}

func TestOpen_FS(t *testing.T) {
	t.Parallel()

	mockFS := fstest.MapFS{
		"people.csv":     &fstest.MapFile{Data: []byte(peopleCSV)},
		"scores.tsv":     &fstest.MapFile{Data: []byte("id\tscore\n1\t9.5\n")},
		".ignored.csv":   &fstest.MapFile{Data: []byte("a,b\n1,2\n")},
		"nested/x.csv":   &fstest.MapFile{Data: []byte("a,b\n1,2\n")},
		"orders.csv.zst": &fstest.MapFile{Data: compressBytes(t, model.CompressionZSTD, []byte("id,total\n1,3\n"))},
	}

	builder, err := NewBuilder().AddFS(mockFS).Build(context.Background())
	require.NoError(t, err)

	db, err := builder.Open(context.Background())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, []string{"orders", "people", "scores"}, db.Tables())
	res := mustQuery(t, db, "SELECT p.name, s.score FROM people p JOIN scores s ON p.id = s.id")
	assert.Equal(t, [][]any{{"alice", 9.5}}, res.Rows)
}

func TestOpen_CompressedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeCompressedFile(t, dir, "gz.csv.gz", []byte(peopleCSV)),
		writeCompressedFile(t, dir, "xz.csv.xz", []byte(peopleCSV)),
		writeCompressedFile(t, dir, "zst.csv.zst", []byte(peopleCSV)),
	}

	builder, err := NewBuilder().
		AddPaths(paths...).
		AddPath(filepath.Join("testdata", "people.csv.bz2")).
		Build(context.Background())
	require.NoError(t, err)

	db, err := builder.Open(context.Background())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, []string{"gz", "xz", "zst", "people"}, db.Tables())
	for _, table := range []string{"gz", "xz", "zst"} {
		res := mustQuery(t, db, "SELECT typeof(id), SUM(age) FROM "+table)
		assert.Equal(t, [][]any{{"integer", int64(55)}}, res.Rows, table)
	}

	res := mustQuery(t, db, "SELECT SUM(age), SUM(score) FROM people")
	assert.Equal(t, [][]any{{int64(90), 24.75}}, res.Rows)
}

func TestOpen_MaxFileSize(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "people.csv", peopleCSV)

	builder, err := NewBuilder().AddPath(path).SetMaxFileSize(10).Build(context.Background())
	require.NoError(t, err)
	_, err = builder.Open(context.Background())
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestOpen_Logging(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "wide.csv", "a,b\n1,2\n3,4,5\n")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	builder, err := NewBuilder().AddPath(path).SetLogger(logger).SetSampleLines(2).Build(context.Background())
	require.NoError(t, err)
	db, err := builder.Open(context.Background())
	require.NoError(t, err)
	defer db.Close()

	out := logs.String()
	assert.Contains(t, out, "dialect detected")
	assert.Contains(t, out, "CREATE TABLE [wide] ([a] INTEGER, [b] INTEGER)")
	assert.Contains(t, out, "truncated")
	assert.Contains(t, out, "table loaded")

	res := mustQuery(t, db, "SELECT a, b FROM wide ORDER BY a")
	assert.Equal(t, [][]any{{int64(1), int64(2)}, {int64(3), int64(4)}}, res.Rows)
}

func TestOpen_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "people.csv", "name,age\nAna,30\nLeo,25\n")
	writeFile(t, dir, "raw.csv", "code,label\n9223372036854775807,  padded \n-12,x\n")

	db, err := Open(dir)
	require.NoError(t, err)
	defer db.Close()

	columns, ok := db.Columns("people")
	require.True(t, ok)
	assert.Equal(t, model.ColumnTypeInteger, columns[1].Type)

	res := mustQuery(t, db, "SELECT name FROM people WHERE age > 26")
	assert.Equal(t, [][]any{{"Ana"}}, res.Rows)

	res = mustQuery(t, db, "SELECT code, label FROM raw ORDER BY code")
	assert.Equal(t, [][]any{
		{int64(-12), "x"},
		{int64(9223372036854775807), "  padded "},
	}, res.Rows)
}

func TestDatabase_LoadCollidesWithQueryTable(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "notes.csv", "id,body\n1,hello\n")

	db, err := New()
	require.NoError(t, err)
	defer db.Close()

	mustQuery(t, db, "CREATE TABLE Notes (x INTEGER)")
	assert.ErrorIs(t, db.Load(context.Background(), path), ErrDuplicateTable)
	assert.Empty(t, db.Tables())
}

func TestDatabase_BestEffortSkipsUnbuildableRelation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "clash.csv", "a b,A-B\n1,2\n")
	writeFile(t, dir, "good.csv", peopleCSV)

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	builder, err := NewBuilder().AddPath(dir).EnableBestEffort().Build(context.Background())
	require.NoError(t, err)
	db, err := builder.Open(context.Background())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, []string{"good"}, db.Tables())
	failures := db.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, filepath.Join(dir, "clash.csv"), failures[0].Path)
	assert.Equal(t, "clash", failures[0].Table)
	assert.ErrorIs(t, failures[0], ErrDuplicateColumn)
}
