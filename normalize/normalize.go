// Package normalize turns free-text drug and disease names into canonical keys.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/eczane/pharmacy-api/reference"
)

// dotless ı has no decomposition, so it is mapped explicitly after mark removal
var dotlessI = runes.Map(func(r rune) rune {
	if r == 'ı' {
		return 'i'
	}
	return r
})

// Fold lower-cases s with Turkish casing rules (I→ı, İ→i), strips diacritics
// (ç→c, ğ→g, ı→i, ö→o, ş→s, ü→u, é→e, ...), trims it and collapses inner
// whitespace to single spaces. It is used for substring search.
func Fold(s string) string {
	// Casers and transformer chains keep state, so each call builds its own.
	lower := cases.Lower(language.Turkish).String(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), dotlessI, norm.NFC)
	folded, _, err := transform.String(t, lower)
	if err != nil {
		folded = lower
	}
	return strings.Join(strings.Fields(folded), " ")
}

// Key is the pre-alias form of a drug name: folded, whitespace runs replaced by
// underscores, and anything outside [a-z0-9_-] dropped.
func Key(raw string) string {
	folded := Fold(raw)
	if folded == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToGeneric maps a Turkish, brand or generic drug name to its canonical generic
// name. Names missing from the alias table are returned in key form. It never
// fails, returns "" for empty input and is idempotent.
func ToGeneric(raw string) string {
	key := Key(raw)
	if key == "" {
		return ""
	}
	if generic, ok := reference.Alias(key); ok {
		return generic
	}
	return key
}

// Many normalizes every name, keeping position; empty results are kept as "".
func Many(raws []string) []string {
	out := make([]string, len(raws))
	for i, r := range raws {
		out[i] = ToGeneric(r)
	}
	return out
}

// IsKnown reports whether raw is an alias or the generic target of one
func IsKnown(raw string) bool {
	key := Key(raw)
	if key == "" {
		return false
	}
	if _, ok := reference.Alias(key); ok {
		return true
	}
	return reference.IsAliasTarget(key)
}
