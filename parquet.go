package tabsql

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/nao1215/tabsql/domain/model"
)

// readParquet decodes a Parquet file into a header and raw records.
// Every cell is rendered to its string form so that column types are still
// inferred from the observed values; nulls become empty strings.
func readParquet(ctx context.Context, data []byte) (model.Header, []model.Record, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: empty parquet file", ErrEmptyFile)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make(model.Header, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	records := make([]model.Record, 0, table.NumRows())
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			record := make(model.Record, batch.NumCols())
			for j, col := range batch.Columns() {
				record[j] = extractValueFromArrowArray(col, i)
			}
			records = append(records, record)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading table records: %w", err)
	}
	return header, records, nil
}

// extractValueFromArrowArray renders one cell as text. Booleans become 1 and 0.
func extractValueFromArrowArray(arr arrow.Array, i int) string {
	if arr.IsNull(i) {
		return ""
	}

	switch a := arr.(type) {
	case *array.Boolean:
		if a.Value(i) {
			return "1"
		}
		return "0"
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(i)), 'g', -1, 32)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'g', -1, 64)
	default:
		return arr.ValueStr(i)
	}
}
