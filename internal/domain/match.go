package domain

// MatchResult represents a confidence-qualified match of a mention against
// a catalog entry. Created once per successful match attempt; never mutated.
type MatchResult struct {
	CatalogCode   string `json:"official_code"`
	OfficialName  string `json:"official_name"`
	OfficialPrice int    `json:"official_price"`

	// Score breakdown
	Score         float64 `json:"score"`
	NameScore     float64 `json:"name_score"`
	PriceScore    float64 `json:"price_score"`
	CategoryScore float64 `json:"category_score"`

	Confidence        float64 `json:"confidence"` // 0.0-1.0, distinct from the raw score
	NeedsManualReview bool    `json:"needs_manual_review"`
	MatchSource       string  `json:"match_source"` // "catalog_index" or "live_lookup"
}

// Outcome is the tagged result of a match attempt: either an accepted match
// with confidence metadata, or a rejection with a reason. A "needs review"
// flag is orthogonal metadata on the accepted variant, never a rejection.
type Outcome struct {
	Accepted bool         `json:"accepted"`
	Result   *MatchResult `json:"result,omitempty"` // Set iff Accepted
	Reason   string       `json:"reason,omitempty"` // Set iff !Accepted
}

// Accept wraps a match result in an accepted outcome.
func Accept(result *MatchResult) Outcome {
	return Outcome{Accepted: true, Result: result}
}

// Reject produces a rejected outcome with the given reason.
func Reject(reason string) Outcome {
	return Outcome{Accepted: false, Reason: reason}
}
