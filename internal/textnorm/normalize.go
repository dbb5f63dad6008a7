// Package textnorm sanitizes and tokenizes free text into comparable
// keyword sets. It is the shared first stage of both matching paths, kept
// separate from scoring so keyword extraction is independently testable.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const (
	// DefaultNameMax is the sanitization cap for product names.
	DefaultNameMax = 200

	minTokenLen = 2
	maxTokenLen = 50
)

// sanitizer removes C0/C1 control characters and folds full-width forms to
// their canonical halves. NFKC keeps Korean compatibility jamo comparable.
var sanitizer = transform.Chain(
	runes.Remove(runes.In(unicode.Cc)),
	width.Fold,
	norm.NFKC,
)

// bracketNoise matches bracketed quantity/unit noise such as "(500ml)",
// "[3개입]" or "(대용량 1L)". Only segments carrying a digit or a unit word
// are stripped; bracketed product descriptors are kept.
var bracketNoise = regexp.MustCompile(`[(\[][^)\]]*(?:\d|ml|mm|cm|kg|g\b|[lL]\b|개|매|입|장|종|호|인용|세트|쌍|롤|pcs?|ea)[^)\]]*[)\]]`)

// unitToken matches digits-only tokens and digit+unit tokens ("500ml",
// "3개", "2p") that carry no discriminative signal on their own.
var unitToken = regexp.MustCompile(`^\d+(?:ml|mm|cm|kg|g|l|m|p|pcs|ea|개|매|입|장|종|호|인용|세트|쌍|롤)?$`)

// Sanitize strips control characters, folds width variants and truncates
// the result to maxLength runes. A maxLength of 0 applies DefaultNameMax.
func Sanitize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultNameMax
	}
	out, _, err := transform.String(sanitizer, text)
	if err != nil {
		// Transform failures only occur on malformed UTF-8; fall back to
		// the raw input rather than dropping the text.
		out = text
	}
	out = strings.TrimSpace(out)
	r := []rune(out)
	if len(r) > maxLength {
		out = string(r[:maxLength])
	}
	return out
}

// Tokenize splits a product name into its keyword tokens: sanitized,
// lower-cased, quantity noise stripped, punctuation collapsed, deduplicated
// in first-occurrence order. Tokens shorter than 2 or longer than 50 runes
// and digits-only unit tokens are discarded.
func Tokenize(name string) []string {
	s := strings.ToLower(Sanitize(name, DefaultNameMax))
	s = bracketNoise.ReplaceAllString(s, " ")
	s = stripPunct(s)

	seen := make(map[string]struct{})
	tokens := make([]string, 0, 8)
	for _, tok := range strings.Fields(s) {
		n := len([]rune(tok))
		if n < minTokenLen || n > maxTokenLen {
			continue
		}
		if unitToken.MatchString(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Set converts a token slice to a set for intersection arithmetic.
func Set(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// stripPunct replaces every non letter/digit rune with a space, preserving
// word boundaries across Hangul and Latin runs alike.
func stripPunct(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
