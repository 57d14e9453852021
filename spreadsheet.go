package tabsql

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/tabsql/domain/model"
)

// sheetTable is the raw content of one worksheet.
type sheetTable struct {
	name    string
	header  model.Header
	records []model.Record
}

// readSpreadsheet reads every non-empty sheet of an XLSX workbook.
// A workbook with a single sheet yields a table named stem; otherwise each
// sheet yields stem_sheet. The first row of a sheet is its header.
func readSpreadsheet(data []byte, stem string) ([]sheetTable, error) {
	xlsxFile, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: no sheets found", ErrEmptyFile)
	}

	tables := make([]sheetTable, 0, len(sheetNames))
	for _, sheetName := range sheetNames {
		rows, err := xlsxFile.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
		}
		if len(rows) == 0 {
			continue
		}

		header, records := convertSheetRows(rows)
		name := stem
		if len(sheetNames) > 1 {
			name = stem + "_" + sheetName
		}
		tables = append(tables, sheetTable{name: name, header: header, records: records})
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: every sheet is empty", ErrEmptyFile)
	}
	return tables, nil
}

// convertSheetRows splits sheet rows into header and records.
// excelize drops trailing empty cells, so records may be shorter than the header.
func convertSheetRows(rows [][]string) (model.Header, []model.Record) {
	header := make(model.Header, len(rows[0]))
	copy(header, rows[0])

	records := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) > len(header) {
			row = row[:len(header)]
		}
		records = append(records, model.NewRecord(row))
	}
	return header, records
}
