package matching

import (
	"strings"

	"github.com/storelens/matcher/internal/textnorm"
)

// Confidence contribution magnitudes.
const (
	nameEqualWeight   = 0.5
	nameContainWeight = 0.3
	nameOverlapWeight = 0.2

	// discriminativeRunes is the minimum token length for the word-level
	// containment contribution.
	discriminativeRunes = 3

	priceEqualWeight = 0.5
	priceNearWeight  = 0.3
)

// EstimateConfidence converts name and price agreement into a bounded
// [0,1] estimate of match correctness, distinct from the raw acceptance
// score. Either price may be nil, in which case the price contribution
// is zero.
func EstimateConfidence(mentionName, candidateName string, mentionPrice, candidatePrice *int) float64 {
	confidence := nameConfidence(mentionName, candidateName)

	if mentionPrice != nil && candidatePrice != nil {
		diff := *mentionPrice - *candidatePrice
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			confidence += priceEqualWeight
		case diff <= priceTolerance:
			confidence += priceNearWeight
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func nameConfidence(mentionName, candidateName string) float64 {
	mNorm := foldWhitespace(strings.ToLower(textnorm.Sanitize(mentionName, textnorm.DefaultNameMax)))
	cNorm := foldWhitespace(strings.ToLower(textnorm.Sanitize(candidateName, textnorm.DefaultNameMax)))
	if mNorm == "" || cNorm == "" {
		return 0
	}
	if mNorm == cNorm {
		return nameEqualWeight
	}
	if strings.Contains(cNorm, mNorm) || strings.Contains(mNorm, cNorm) {
		return nameContainWeight
	}

	mTokens := textnorm.Tokenize(mentionName)
	cTokens := textnorm.Tokenize(candidateName)

	// Abbreviated mentions ("스텐" for "스테인레스") rarely survive the
	// whole-name substring test, but a discriminative word often does;
	// a contained word of at least three runes earns the same contribution.
	// Shorter shared tokens only count toward the overlap ratio below.
	candNorm := strings.ToLower(textnorm.Sanitize(candidateName, textnorm.DefaultNameMax))
	for _, t := range mTokens {
		if len([]rune(t)) >= discriminativeRunes && strings.Contains(candNorm, t) {
			return nameContainWeight
		}
	}

	larger := len(mTokens)
	if len(cTokens) > larger {
		larger = len(cTokens)
	}
	if larger == 0 {
		return 0
	}
	inter := 0
	cSet := textnorm.Set(cTokens)
	for _, t := range mTokens {
		if _, ok := cSet[t]; ok {
			inter++
		}
	}
	return nameOverlapWeight * float64(inter) / float64(larger)
}

// foldWhitespace removes all whitespace so equality is insensitive to
// spacing differences between mention and catalog names.
func foldWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
