package tabsql

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

const (
	columnSeparator    = " | "
	separatorCrossing  = "-+-"
	nullRepresentation = "NULL"
)

// PrintTable writes res as an aligned text table: the column names, a
// separator line, then one line per row. Columns are padded to their widest
// cell and nil values are shown as NULL.
//
//	id | name
//	---+------
//	1  | alice
func PrintTable(w io.Writer, res *Result) error {
	cells := make([][]string, 0, len(res.Rows)+1)
	cells = append(cells, res.Columns)
	for _, row := range res.Rows {
		line := make([]string, len(row))
		for i, v := range row {
			line[i] = formatValue(v)
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(res.Columns))
	for _, line := range cells {
		for i, cell := range line {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	var b strings.Builder
	writeLine := func(line []string) {
		for i := range widths {
			if i > 0 {
				b.WriteString(columnSeparator)
			}
			cell := ""
			if i < len(line) {
				cell = line[i]
			}
			b.WriteString(cell)
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
			}
		}
		b.WriteByte('\n')
	}

	writeLine(cells[0])
	dashes := make([]string, len(widths))
	for i, width := range widths {
		dashes[i] = strings.Repeat("-", width)
	}
	b.WriteString(strings.Join(dashes, separatorCrossing))
	b.WriteByte('\n')
	for _, line := range cells[1:] {
		writeLine(line)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatValue renders one result value for PrintTable.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return nullRepresentation
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// jsonResult is the JSON shape written by WriteJSON.
type jsonResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// WriteJSON writes res as {"columns":[...],"rows":[[...],...]} followed by a newline.
func WriteJSON(w io.Writer, res *Result) error {
	out := jsonResult{Columns: res.Columns, Rows: res.Rows}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	if out.Rows == nil {
		out.Rows = [][]any{}
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
