package matching

import "github.com/storelens/matcher/internal/textnorm"

// stopwords are store self-references and generic superlatives that inflate
// or dilute token overlap without identifying a product. They are removed
// from the mention name before scoring.
var stopwords = map[string]struct{}{
	// Store self-references
	"다이소":   {},
	"daiso": {},
	"올리브영":  {},
	"이케아":   {},
	"코스트코":  {},
	"이마트":   {},
	"편의점":   {},
	// Promotional filler
	"추천":   {},
	"추천템":  {},
	"꿀템":   {},
	"인생템":  {},
	"필수템":  {},
	"정품":   {},
	"공식":   {},
	"베스트":  {},
	"best": {},
	"인기":   {},
	"신상":   {},
	"가성비":  {},
}

// filterStopwords tokenizes a mention name and drops stopword tokens.
func filterStopwords(name string) []string {
	tokens := textnorm.Tokenize(name)
	out := tokens[:0]
	for _, t := range tokens {
		if _, drop := stopwords[t]; drop {
			continue
		}
		out = append(out, t)
	}
	return out
}
