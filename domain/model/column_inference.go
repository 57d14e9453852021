package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// converter converts one raw value to the Go representation of a column type.
// The second result reports whether the conversion succeeded.
type converter func(raw string) (any, bool)

// conversionOrder lists the numeric types in the order they are tried.
// INTEGER comes first so whole numbers never end up REAL.
var conversionOrder = []struct {
	columnType ColumnType
	convert    converter
}{
	{ColumnTypeInteger, toInteger},
	{ColumnTypeReal, toReal},
}

// toInteger parses a base-10 64-bit integer, ignoring surrounding whitespace.
func toInteger(raw string) (any, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

// toReal parses a finite decimal floating point number, ignoring surrounding whitespace.
// Hexadecimal floats, NaN and Inf are rejected: SQLite has no representation for
// the latter two and a column holding them is better kept as TEXT. Whole numbers
// outside the int64 range are rejected too, so their digits are kept exactly.
func toReal(raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, "xX") {
		return nil, false
	}
	if _, err := strconv.ParseInt(s, 10, 64); errors.Is(err, strconv.ErrRange) {
		return nil, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, false
	}
	return v, true
}

// convertAll converts every value with convert, stopping at the first failure.
func convertAll(values []string, convert converter) ([]any, bool) {
	out := make([]any, len(values))
	for i, raw := range values {
		v, ok := convert(raw)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// InferColumnType decides the type of one column from all of its raw values
// and returns the values converted to that type.
//
// Every conversion starts from the raw strings. The first type for which every
// value converts wins; otherwise the column is TEXT and the values are returned
// unchanged. A column without values is TEXT.
func InferColumnType(values []string) (ColumnType, []any) {
	if len(values) > 0 {
		for _, candidate := range conversionOrder {
			if converted, ok := convertAll(values, candidate.convert); ok {
				return candidate.columnType, converted
			}
		}
	}

	text := make([]any, len(values))
	for i, v := range values {
		text[i] = v
	}
	return ColumnTypeText, text
}

// InferSchema infers one type per header column and returns the schema with
// the typed rows in file order. Records shorter than the header are padded
// with empty strings and longer ones are truncated, so every row has exactly
// the header's columns.
func InferSchema(header Header, records []Record) (*Schema, []Row, error) {
	if err := header.Validate(); err != nil {
		return nil, nil, err
	}

	columnValues := make([][]string, len(header))
	for i := range header {
		values := make([]string, len(records))
		for j, record := range records {
			if i < len(record) {
				values[j] = record[i]
			}
		}
		columnValues[i] = values
	}

	columns := make([]Column, len(header))
	converted := make([][]any, len(header))
	for i, name := range header {
		columnType, values := InferColumnType(columnValues[i])
		columns[i] = Column{Name: name, Type: columnType}
		converted[i] = values
	}

	schema, err := NewSchema(columns)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]Row, len(records))
	for j := range records {
		values := make([]any, len(header))
		for i := range header {
			values[i] = converted[i][j]
		}
		row, err := NewRow(schema, values)
		if err != nil {
			return nil, nil, err
		}
		rows[j] = row
	}
	return schema, rows, nil
}
