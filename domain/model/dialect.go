package model

import "fmt"

// Dialect describes how one delimited text file separates and quotes its fields.
type Dialect struct {
	// Delimiter separates fields within a record.
	Delimiter rune
	// Quote wraps fields that contain delimiters, quotes or line breaks.
	Quote rune
	// DoubleQuote means a quote inside a quoted field is written twice.
	DoubleQuote bool
	// SkipInitialSpace drops spaces that directly follow a delimiter.
	SkipInitialSpace bool
	// LineTerminator is the record separator observed in the file.
	LineTerminator string
}

// String returns a short human-readable description, used in logs.
func (d Dialect) String() string {
	return fmt.Sprintf("delimiter=%q quote=%q skipinitialspace=%t", d.Delimiter, d.Quote, d.SkipInitialSpace)
}
