package tabsql

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/tabsql/domain/model"
)

// utf8BOM is dropped from the start of delimited text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// tokenizer splits delimited text into records under one dialect.
// Quoted fields may contain delimiters and line breaks; a quote inside a
// quoted field is escaped by doubling it. Lines holding nothing but
// whitespace are skipped.
type tokenizer struct {
	dialect model.Dialect

	records [][]string
	// partial is true when the text ended inside an open quote.
	partial bool
	// delimiters counts delimiters outside quotes, spaced those directly followed by a space.
	delimiters int
	spaced     int
	// quoted counts fields wrapped in quotes that end at a delimiter or line end.
	quoted int
}

func (t *tokenizer) split(text string) {
	var (
		fields     []string
		field      strings.Builder
		inQuotes   bool
		fieldStart = true
		lineEmpty  = true
		// closed is set right after a closing quote.
		closed bool
		// lineQuoted is set once the current record opened a quote.
		lineQuoted bool
	)

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
		fieldStart = true
	}
	endQuotedField := func() {
		if closed {
			t.quoted++
			closed = false
		}
	}
	endRecord := func() {
		blank := lineEmpty ||
			(len(fields) == 0 && !lineQuoted && strings.TrimSpace(field.String()) == "")
		lineEmpty = true
		lineQuoted = false
		closed = false
		if blank {
			fields = fields[:0]
			field.Reset()
			fieldStart = true
			return
		}
		endField()
		t.records = append(t.records, fields)
		fields = nil
	}

	d := t.dialect
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inQuotes {
			if r == d.Quote {
				if d.DoubleQuote && i+1 < len(runes) && runes[i+1] == d.Quote {
					field.WriteRune(r)
					i++
					continue
				}
				inQuotes = false
				closed = true
				continue
			}
			field.WriteRune(r)
			continue
		}

		switch {
		case r == '\n' || r == '\r':
			if r == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endQuotedField()
			endRecord()
		case r == d.Delimiter:
			t.delimiters++
			if i+1 < len(runes) && runes[i+1] == ' ' {
				t.spaced++
			}
			lineEmpty = false
			endQuotedField()
			endField()
		case fieldStart && d.SkipInitialSpace && r == ' ' && len(fields) > 0:
			lineEmpty = false
		case fieldStart && r == d.Quote:
			lineEmpty = false
			lineQuoted = true
			fieldStart = false
			inQuotes = true
		default:
			lineEmpty = false
			fieldStart = false
			closed = false
			field.WriteRune(r)
		}
	}

	if inQuotes {
		t.partial = true
		return
	}
	if !lineEmpty {
		endQuotedField()
		endRecord()
	}
}

// splitRecords parses text into records under d. The second result reports
// whether the text ended inside an open quote; the unfinished record is not
// included.
func splitRecords(text string, d model.Dialect) ([][]string, bool) {
	t := &tokenizer{dialect: d}
	t.split(text)
	return t.records, t.partial
}

// delimitedTable is the raw content of one delimited file.
type delimitedTable struct {
	header    model.Header
	records   []model.Record
	dialect   model.Dialect
	truncated int
}

// readDelimited detects the dialect of data and parses all of it into a
// header and raw records. hint is the delimiter suggested by the file
// extension, or zero.
func readDelimited(data []byte, hint rune, sampleLines int) (*delimitedTable, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	dialect, err := detectDialect(bytes.NewReader(data), sampleLines, hint)
	if err != nil {
		return nil, err
	}

	records, partial := splitRecords(string(data), dialect)
	if partial {
		return nil, fmt.Errorf("%w: unterminated quoted field", ErrDialectUnrecognized)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header := model.NewHeader(records[0])
	if err := header.Validate(); err != nil {
		return nil, err
	}

	table := &delimitedTable{
		header:  header,
		records: make([]model.Record, 0, len(records)-1),
		dialect: dialect,
	}
	for _, fields := range records[1:] {
		if len(fields) > len(header) {
			fields = fields[:len(header)]
			table.truncated++
		}
		table.records = append(table.records, model.NewRecord(fields))
	}
	return table, nil
}
