package tabsql

import (
	"strings"
	"unicode/utf8"
)

// Character validation constants
const (
	// firstDigitChar represents the first numeric character
	firstDigitChar = '0'
	// lastDigitChar represents the last numeric character
	lastDigitChar = '9'
	// firstLowerChar represents the first lowercase letter
	firstLowerChar = 'a'
	// lastLowerChar represents the last lowercase letter
	lastLowerChar = 'z'
	// firstUpperChar represents the first uppercase letter
	firstUpperChar = 'A'
	// lastUpperChar represents the last uppercase letter
	lastUpperChar = 'Z'
	// underscoreChar represents the underscore character
	underscoreChar = '_'
)

const (
	tableFallback  = "table"
	columnFallback = "column"
)

// identifierSanitizer turns file stems and header names into SQL identifiers
// made only of ASCII letters, digits and underscores.
type identifierSanitizer struct {
	transliterate Transliterator
}

func newIdentifierSanitizer(t Transliterator) identifierSanitizer {
	if t == nil {
		t = defaultTransliterator
	}
	return identifierSanitizer{transliterate: t}
}

// tableName returns the identifier for a table derived from raw.
func (s identifierSanitizer) tableName(raw string) string {
	return s.sanitize(raw, tableFallback)
}

// columnName returns the identifier for a column derived from raw.
func (s identifierSanitizer) columnName(raw string) string {
	return s.sanitize(raw, columnFallback)
}

func (s identifierSanitizer) sanitize(raw, fallback string) string {
	value := strings.TrimSpace(s.toASCII(raw))

	replacer := strings.NewReplacer(" ", "_", "-", "_", ".", "_")
	value = replacer.Replace(value)

	var sanitized strings.Builder
	for _, r := range value {
		if (r >= firstLowerChar && r <= lastLowerChar) ||
			(r >= firstUpperChar && r <= lastUpperChar) ||
			(r >= firstDigitChar && r <= lastDigitChar) ||
			r == underscoreChar {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()
	if result == "" {
		return fallback
	}
	if result[0] >= firstDigitChar && result[0] <= lastDigitChar {
		return fallback + "_" + result
	}
	return result
}

// toASCII transliterates each run of non-ASCII characters and keeps ASCII text as is.
func (s identifierSanitizer) toASCII(raw string) string {
	if isASCII(raw) {
		return raw
	}

	var b strings.Builder
	start := -1
	for i, r := range raw {
		if r >= utf8.RuneSelf {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(s.transliterate(raw[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(s.transliterate(raw[start:]))
	}
	return b.String()
}
