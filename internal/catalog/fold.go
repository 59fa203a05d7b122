package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold normalizes text for keyword matching: trimmed, compatibility-normalized,
// stripped of combining marks (French accents, Arabic harakat and hamza carriers)
// and case-folded.
func fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// matchText prepares a folded name for keyword search: punctuation becomes a
// space, runs of spaces collapse and the text is padded so that " car " style
// keywords match whole words, including at either end.
func matchText(folded string) string {
	return " " + separate(folded) + " "
}

// keyword folds a rule keyword like a name but keeps one space on each side where
// the keyword had one, marking a word boundary.
func keyword(w string) string {
	f := separate(fold(w))
	if f == "" {
		return ""
	}
	if strings.TrimLeftFunc(w, unicode.IsSpace) != w {
		f = " " + f
	}
	if strings.TrimRightFunc(w, unicode.IsSpace) != w {
		f += " "
	}
	return f
}

// separate splits s into words of letters and digits joined by single spaces.
func separate(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " ")
}
