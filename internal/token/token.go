// Package token normalizes sign tokens. A token is an uppercase word or
// hyphenated phrase such as HELLO or THANK-YOU; identity is case-insensitive.
package token

import (
	"strings"
	"unicode"
)

// Canonical returns the canonical (trimmed, uppercase) form of s.
func Canonical(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Letters returns the alphabetic characters of s in canonical form. Digits,
// punctuation and spaces are dropped.
func Letters(s string) []rune {
	var letters []rune
	for _, r := range Canonical(s) {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	return letters
}

// CanonicalAll canonicalizes every element of tokens, dropping blanks.
func CanonicalAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if c := Canonical(t); c != "" {
			out = append(out, c)
		}
	}
	return out
}
