package fixture

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	teamCodeLength = 3
	teamCodeFiller = 'X'
)

// FormatTeamCode builds the three letter display code for a team name.
// Names with three or more words use initials; shorter names are read from
// the first word's letters, then following initials, then padded with X.
func FormatTeamCode(name string) string {
	words := codeWords(name)

	code := make([]rune, 0, teamCodeLength)
	if len(words) >= teamCodeLength {
		for _, word := range words[:teamCodeLength] {
			code = append(code, word[0])
		}
		return string(code)
	}

	if len(words) > 0 {
		code = append(code, words[0]...)
		for _, word := range words[1:] {
			code = append(code, word[0])
		}
	}
	if len(code) > teamCodeLength {
		code = code[:teamCodeLength]
	}
	for len(code) < teamCodeLength {
		code = append(code, teamCodeFiller)
	}
	return string(code)
}

func codeWords(name string) [][]rune {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		stripped = name
	}

	// Punctuation is dropped in place so "O'Higgins" stays one word.
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, stripped)

	words := make([][]rune, 0, 4)
	for _, field := range strings.FieldsFunc(cleaned, unicode.IsSpace) {
		words = append(words, []rune(strings.ToUpper(field)))
	}
	return words
}
