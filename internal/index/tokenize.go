package index

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/skillroute/internal/loader/markdown"
)

// Tokenize lowercases text and splits it on anything that is not a letter
// or digit. Empty tokens are dropped.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// analyse returns the tokens indexed for a document body. Markdown syntax
// and front-matter are removed before tokenising.
func analyse(title, body string) []string {
	return Tokenize(title + "\n" + markdown.PlainText(body))
}

// excerptLength is the maximum excerpt length in runes.
const excerptLength = 240

// excerpt collapses whitespace in the plain body text and truncates it on
// a word boundary.
func excerpt(body string) string {
	text := strings.Join(strings.Fields(markdown.PlainText(body)), " ")
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}

	cut := string(runes[:excerptLength])
	if i := strings.LastIndex(cut, " "); i > excerptLength/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}
