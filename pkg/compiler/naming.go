package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/divan/num2words"
)

// reservedIdentifiers collide with base type names of the generated code.
var reservedIdentifiers = map[string]bool{
	"int":   true,
	"long":  true,
	"float": true,
}

// Identifier converts a free-text label into an identifier.
//
// The label is split into words at runs of characters other than ASCII
// letters, digits and underscore. Every word but the first gets an upper
// case first character; the first word does too when capitalizeFirst is
// set, and otherwise gets a lower case one unless it is all upper case.
// A leading number is spelled out ("3 Phase" -> "threePhase").
func Identifier(label string, capitalizeFirst bool) (string, error) {
	words := splitWords(label)
	if len(words) == 0 {
		return "", fmt.Errorf("%w: %q", ErrEmptyIdentifier, label)
	}
	if isDigit(words[0][0]) {
		words = spellLeadingNumber(words)
	}

	var b strings.Builder
	for i, w := range words {
		switch {
		case capitalizeFirst || i > 0:
			b.WriteString(strings.ToUpper(w[:1]) + w[1:])
		case isAllUpper(w):
			b.WriteString(w)
		default:
			b.WriteString(strings.ToLower(w[:1]) + w[1:])
		}
	}

	ident := b.String()
	if reservedIdentifiers[ident] {
		ident += "_"
	}
	return ident, nil
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !isWordChar(r)
	})
}

func isWordChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isAllUpper reports whether w has at least one letter and no lower case
// letters.
func isAllUpper(w string) bool {
	hasUpper := false
	for i := 0; i < len(w); i++ {
		switch c := w[i]; {
		case c >= 'a' && c <= 'z':
			return false
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		}
	}
	return hasUpper
}

// spellLeadingNumber replaces the digit run starting the first word with its
// English spelling, split into words of its own.
func spellLeadingNumber(words []string) []string {
	first := words[0]
	n := 0
	for n < len(first) && isDigit(first[n]) {
		n++
	}
	value, err := strconv.Atoi(first[:n])
	if err != nil {
		// Too large to spell; an underscore keeps the identifier valid.
		out := append([]string{"_" + first}, words[1:]...)
		return out
	}

	out := splitWords(num2words.Convert(value))
	if rest := first[n:]; rest != "" {
		out = append(out, rest)
	}
	return append(out, words[1:]...)
}
