package tabsql

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/tabsql/domain/model"
)

// DefaultSampleLines is the number of physical lines inspected to detect a dialect.
const DefaultSampleLines = 10

var (
	// candidateQuotes are tried in order.
	candidateQuotes = []rune{'"', '\''}
	// candidateDelimiters are tried in preference order.
	candidateDelimiters = []rune{',', '\t', ';', '|', ':'}
)

// detectDialect reads at most sampleLines lines from r and seeks r back to
// the start. A delimiter and quote pair qualifies when it splits every
// complete record of the sample into the same number of fields, more than
// one. Among qualifying pairs the one whose quote wraps the most fields wins;
// ties go to the earlier candidate. preferred, when non-zero, is tried before
// the other delimiters.
func detectDialect(r io.ReadSeeker, sampleLines int, preferred rune) (model.Dialect, error) {
	if sampleLines <= 0 {
		sampleLines = DefaultSampleLines
	}

	sample, err := readSample(r, sampleLines)
	if err != nil {
		return model.Dialect{}, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return model.Dialect{}, fmt.Errorf("failed to rewind after sampling: %w", err)
	}

	terminator := "\n"
	if i := strings.IndexByte(sample, '\n'); i > 0 && sample[i-1] == '\r' {
		terminator = "\r\n"
	}

	var (
		best       model.Dialect
		bestQuoted = -1
	)
	for _, quote := range candidateQuotes {
		for _, delimiter := range delimiterOrder(preferred) {
			d := model.Dialect{
				Delimiter:        delimiter,
				Quote:            quote,
				DoubleQuote:      true,
				SkipInitialSpace: true,
				LineTerminator:   terminator,
			}
			t := &tokenizer{dialect: d}
			t.split(sample)
			if !consistent(t.records) || t.quoted <= bestQuoted {
				continue
			}
			d.SkipInitialSpace = t.delimiters > 0 && t.spaced == t.delimiters
			best, bestQuoted = d, t.quoted
		}
	}
	if bestQuoted < 0 {
		return model.Dialect{}, ErrDialectUnrecognized
	}
	return best, nil
}

// readSample returns the first n physical lines of r with their terminators.
func readSample(r io.Reader, n int) (string, error) {
	br := bufio.NewReader(r)
	var sb strings.Builder
	for range n {
		line, err := br.ReadString('\n')
		sb.WriteString(line)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read sample: %w", err)
		}
	}
	return sb.String(), nil
}

// delimiterOrder returns the candidate delimiters with preferred first.
func delimiterOrder(preferred rune) []rune {
	if preferred == 0 {
		return candidateDelimiters
	}
	order := []rune{preferred}
	for _, d := range candidateDelimiters {
		if d != preferred {
			order = append(order, d)
		}
	}
	return order
}

// consistent reports whether every record has the same field count and that count exceeds one.
func consistent(records [][]string) bool {
	if len(records) == 0 {
		return false
	}
	width := len(records[0])
	if width < 2 {
		return false
	}
	for _, rec := range records[1:] {
		if len(rec) != width {
			return false
		}
	}
	return true
}
