// Package facet derives structured attributes (brand, RAM, storage, CPU
// family, material, color) from free-text product titles.
package facet

import (
	"regexp"
	"strings"
)

// tokenRe matches lowercase alphanumeric runs. Hyphens are not part of a
// token, so SKU-style terms like "RTX-4060" split into "rtx" and "4060" and
// match regardless of how hyphenation is written in query or corpus.
var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// Tokenize lowercases text and splits it into alphanumeric tokens. The same
// tokenizer is used for brand inference, lexical indexing, and query parsing
// so indexed and query tokens stay comparable.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// TokenSet returns the tokens of text as a membership set.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// IsNumeric reports whether a token consists only of digits.
func IsNumeric(token string) bool {
	if token == "" {
		return false
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
