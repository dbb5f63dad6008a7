// Package quality scores raw transcripts on fitness for product extraction.
// The gate decides up front whether a transcript is worth sending to the
// (external) AI extraction step at all.
package quality

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// MinTranscriptLength is the hard floor below which a transcript is
	// rejected regardless of content.
	MinTranscriptLength = 300

	// Score saturation points per component.
	lengthSaturation  = 1000
	productSaturation = 5
	priceSaturation   = 3

	// Component weights; they sum to 1.0.
	lengthWeight    = 0.30
	productWeight   = 0.25
	priceWeight     = 0.20
	sentimentWeight = 0.15
	storeWeight     = 0.10

	// neutralSentiment is the flat contribution when no sentiment words
	// appear (out of the 0.15 sentiment weight).
	neutralSentiment = 0.05

	// Partial credit factor for the diagnostic score on length rejection.
	lengthRejectCredit = 0.5
)

// Fixed rejection reasons. Length rejections carry the measured and
// required lengths and are matched by prefix.
const (
	ReasonEmpty          = "empty transcript"
	ReasonNoSignal       = "no product signal"
	ReasonTooShortPrefix = "transcript too short"
)

// Report is the result of validating one transcript. Created fresh per
// Validate call and never mutated afterwards.
type Report struct {
	IsValid      bool    `json:"is_valid"`
	Length       int     `json:"length"`
	QualityScore float64 `json:"quality_score"` // 0.0-1.0

	ProductMentionCount int `json:"product_mention_count"`
	PriceMentionCount   int `json:"price_mention_count"`
	StoreMentionCount   int `json:"store_mention_count"`

	HasNegativeReviews   bool `json:"has_negative_reviews"`
	PositiveProductCount int  `json:"positive_product_count"`
	NegativeProductCount int  `json:"negative_product_count"`

	StoreMismatchWarning bool   `json:"store_mismatch_warning"`
	RejectionReason      string `json:"rejection_reason,omitempty"` // Set iff !IsValid
}

// Logger defines the logging interface used by the gate.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Gate validates transcripts before extraction. It holds no mutable state;
// Validate is safe to call concurrently.
type Gate struct {
	logger    Logger
	minLength int
}

// NewGate creates a gate with the default minimum length.
func NewGate(logger Logger) *Gate {
	return &Gate{logger: logger, minLength: MinTranscriptLength}
}

// NewGateWithMinLength creates a gate with a custom minimum length.
// Values <= 0 fall back to the default.
func NewGateWithMinLength(logger Logger, minLength int) *Gate {
	if minLength <= 0 {
		minLength = MinTranscriptLength
	}
	return &Gate{logger: logger, minLength: minLength}
}

// Validate scores a transcript and yields an accept/reject report with
// diagnostics. storeHint may be empty; when set it should be one of the
// canonical store keys (see KnownStores).
func (g *Gate) Validate(transcript, storeHint string) *Report {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return &Report{
			IsValid:         false,
			RejectionReason: ReasonEmpty,
		}
	}

	length := utf8.RuneCountInString(transcript)
	text := strings.ToLower(transcript)

	productCount := countOccurrences(text, productIndicatorWords)
	priceCount := len(pricePattern.FindAllString(text, -1))
	positiveCount := countOccurrences(text, positiveWords)
	negativeCount := countOccurrences(text, negativeWords)

	storeCount, mismatch := g.storeSignal(text, storeHint)

	report := &Report{
		Length:               length,
		ProductMentionCount:  productCount,
		PriceMentionCount:    priceCount,
		StoreMentionCount:    storeCount,
		PositiveProductCount: positiveCount,
		NegativeProductCount: negativeCount,
		HasNegativeReviews:   negativeCount > 0,
		StoreMismatchWarning: mismatch,
	}

	if length < g.minLength {
		report.IsValid = false
		report.RejectionReason = fmt.Sprintf("%s: %d chars (minimum %d)", ReasonTooShortPrefix, length, g.minLength)
		// Partial credit is still reported so callers can see how close
		// the transcript came.
		report.QualityScore = round2(float64(length) / float64(g.minLength) * lengthRejectCredit)
		return report
	}

	if productCount == 0 && priceCount == 0 {
		report.IsValid = false
		report.RejectionReason = ReasonNoSignal
		report.QualityScore = g.score(length, productCount, priceCount, positiveCount, negativeCount, storeCount)
		return report
	}

	report.IsValid = true
	report.QualityScore = g.score(length, productCount, priceCount, positiveCount, negativeCount, storeCount)

	if g.logger != nil {
		g.logger.Debug("transcript validated",
			"length", length,
			"quality_score", report.QualityScore,
			"product_mentions", productCount,
			"price_mentions", priceCount,
			"store_mismatch", mismatch,
		)
	}

	return report
}

// score computes the weighted quality score, each term clamped to its own
// [0,1] sub-scale before weighting.
func (g *Gate) score(length, productCount, priceCount, positiveCount, negativeCount, storeCount int) float64 {
	s := saturate(float64(length), lengthSaturation) * lengthWeight
	s += saturate(float64(productCount), productSaturation) * productWeight
	s += saturate(float64(priceCount), priceSaturation) * priceWeight

	if positiveCount+negativeCount > 0 {
		ratio := float64(positiveCount) / float64(positiveCount+negativeCount)
		s += ratio * sentimentWeight
	} else {
		s += neutralSentiment
	}

	s += saturate(float64(storeCount), 1) * storeWeight

	if s > 1.0 {
		s = 1.0
	}
	return round2(s)
}

// storeSignal counts hinted-store mentions and raises the mismatch warning
// when the hinted store never appears but some other known store does.
func (g *Gate) storeSignal(text, storeHint string) (count int, mismatch bool) {
	if storeHint == "" {
		return 0, false
	}

	hint := strings.ToLower(strings.TrimSpace(storeHint))
	aliases, known := storeAliases[hint]
	if !known {
		if g.logger != nil {
			g.logger.Warn("unknown store hint", "store", storeHint)
		}
		return 0, false
	}

	count = countOccurrences(text, aliases)
	if count > 0 {
		return count, false
	}

	for store, other := range storeAliases {
		if store == hint {
			continue
		}
		if countOccurrences(text, other) > 0 {
			return 0, true
		}
	}
	return 0, false
}

func countOccurrences(text string, words []string) int {
	total := 0
	for _, w := range words {
		total += strings.Count(text, w)
	}
	return total
}

func saturate(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	v := value / max
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
