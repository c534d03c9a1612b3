package lilypond

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identifier turns free text, e.g. a part name, into a LilyPond identifier:
// accents are removed, words are title cased and everything but ASCII
// letters is dropped. "1st Violón" becomes "StViolon".
func Identifier(s string) string {
	// casers and transformers keep state, so they are not shared
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	titleCaser := cases.Title(language.English)
	plain, _, err := transform.String(stripAccents, s)
	if err != nil {
		plain = s
	}
	words := strings.FieldsFunc(plain, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsLetter(r)
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCaser.String(w))
	}
	return b.String()
}

var (
	smallNumbers = []string{"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// NumberWords spells a number in title cased English words without spaces,
// since LilyPond identifiers cannot contain digits: 21 becomes
// "TwentyOne".
func NumberWords(n int) string {
	switch {
	case n < 0:
		return "Minus" + NumberWords(-n)
	case n < 20:
		return smallNumbers[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + smallNumbers[n%10]
	case n < 1000:
		if n%100 == 0 {
			return smallNumbers[n/100] + "Hundred"
		}
		return smallNumbers[n/100] + "Hundred" + NumberWords(n%100)
	}
	if n%1000 == 0 {
		return NumberWords(n/1000) + "Thousand"
	}
	return NumberWords(n/1000) + "Thousand" + NumberWords(n%1000)
}

// String returns s as a LilyPond string literal.
func String(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
