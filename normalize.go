package oematch

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// separatorPattern matches the delimiters that may appear between identifiers
// inside a single cell: whitespace and ASCII or full-width punctuation.
var separatorPattern = regexp.MustCompile(`[\s,;:/|，；：／｜、]+`)

// minTokenLength is the shortest normalized token that is indexed.
const minTokenLength = 3

// Normalize reduces s to its comparable key: ASCII letters and digits only,
// uppercased. Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NormalizeValue stringifies v and normalizes the result. Cells are resolved
// to their display value first.
func NormalizeValue(v any) string {
	if cd, ok := v.(*CellData); ok {
		return Normalize(Text(Resolve(cd)))
	}
	return Normalize(Text(v))
}

// FoldWidth maps full-width letters and digits to their ASCII forms so that
// "１２３４ＡＢＣ" normalizes like "1234ABC".
func FoldWidth(s string) string {
	return width.Fold.String(s)
}

// NormalizeFolded is Normalize preceded by FoldWidth.
func NormalizeFolded(s string) string {
	return Normalize(FoldWidth(s))
}

// SplitTokens splits an identifier cell into its candidate tokens.
// Empty fragments are dropped.
func SplitTokens(s string) []string {
	parts := separatorPattern.Split(s, -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// isSeparator reports whether s consists only of separator characters.
func isSeparator(s string) bool {
	loc := separatorPattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}
