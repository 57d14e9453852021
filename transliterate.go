package tabsql

import (
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transliterator maps text to an ASCII approximation. It must be pure and total.
type Transliterator func(string) string

// transliterationProbe is converted by every candidate at start-up.
const transliterationProbe = "Ærøskøbing Straße Ελλάδα"

// transliterators are the candidates in priority order.
var transliterators = []Transliterator{
	unidecode.Unidecode,
	foldToLetters,
}

// defaultTransliterator is chosen once; later calls never re-select.
var defaultTransliterator = selectTransliterator(transliterators, transliterationProbe)

// selectTransliterator returns the first candidate whose output for probe is
// ASCII, or the last candidate when none qualifies.
func selectTransliterator(candidates []Transliterator, probe string) Transliterator {
	for _, candidate := range candidates {
		if isASCII(candidate(probe)) {
			return candidate
		}
	}
	return candidates[len(candidates)-1]
}

// foldToLetters decomposes s and keeps only letters, digits and spaces.
// Accents are removed; letters without a decomposition survive unchanged.
func foldToLetters(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
