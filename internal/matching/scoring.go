// Package matching resolves a single loosely-specified product mention to
// its best catalog candidate using multi-factor fuzzy scoring, then
// qualifies the result with a bounded confidence estimate.
package matching

import (
	"strings"

	"github.com/storelens/matcher/internal/catalog"
	"github.com/storelens/matcher/internal/domain"
	"github.com/storelens/matcher/internal/textnorm"
)

// The original call sites used two divergent acceptance thresholds for the
// same scoring formula. Both are kept as named constants; Config selects
// which one a deployment applies.
const (
	// DefaultMatchThreshold is the high-precision acceptance threshold.
	DefaultMatchThreshold = 40.0
	// LenientMatchThreshold is the permissive variant; a price-plus-partial
	// name agreement is enough to clear it.
	LenientMatchThreshold = 20.0

	// DefaultReviewThreshold flags accepted matches below this confidence
	// for human confirmation.
	DefaultReviewThreshold = 0.7
)

// Score component magnitudes.
const (
	jaccardScale     = 50.0
	fullContainBonus = 30.0
	wordContainBonus = 15.0
	minContainRunes  = 2

	priceExactBonus = 20.0
	priceNearBonus  = 10.0
	priceTolerance  = 1000

	popularityHighTier  = 10000
	popularityHighBonus = 5.0
	popularityMidTier   = 1000
	popularityMidBonus  = 3.0

	featuredBonus = 5.0
	categoryBonus = 10.0
)

// Rejection reasons surfaced on unmatched mentions.
const (
	ReasonEmptyName      = "empty mention name"
	ReasonNoCandidates   = "no catalog candidates"
	ReasonBelowThreshold = "best score below threshold"
)

// Logger defines the logging interface used by the engine.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Config holds engine thresholds.
type Config struct {
	MatchThreshold  float64
	ReviewThreshold float64
}

// Engine performs fine-grained single-mention matching against a catalog
// snapshot. It is stateless across calls and safe for concurrent use.
type Engine struct {
	config Config
	logger Logger
}

// NewEngine creates an engine, applying the strict threshold defaults for
// zero-valued config fields.
func NewEngine(logger Logger, config Config) *Engine {
	if config.MatchThreshold <= 0 {
		config.MatchThreshold = DefaultMatchThreshold
	}
	if config.ReviewThreshold <= 0 {
		config.ReviewThreshold = DefaultReviewThreshold
	}
	return &Engine{config: config, logger: logger}
}

// componentScores is the per-candidate breakdown.
type componentScores struct {
	name     float64
	price    float64
	category float64
	bonus    float64 // popularity + featured
}

func (c componentScores) total() float64 {
	return c.name + c.price + c.category + c.bonus
}

// Match resolves one mention against a snapshot. Candidates are prefiltered
// with the snapshot's keyword index, then scored precisely; the highest
// aggregate score wins, first-encountered candidate breaking exact ties.
func (e *Engine) Match(m domain.Mention, snap *catalog.Snapshot) domain.Outcome {
	normName := strings.ToLower(textnorm.Sanitize(m.RawName, textnorm.DefaultNameMax))
	tokens := filterStopwords(m.RawName)
	if normName == "" || len(tokens) == 0 {
		return domain.Reject(ReasonEmptyName)
	}

	candidates := snap.Index().Candidates(normName)
	if len(candidates) == 0 {
		// Abbreviated mentions can miss the keyword prefilter entirely
		// (no catalog keyword occurs inside the mention). Fall back to a
		// full scan so the containment bonus still gets a chance.
		candidates = snap.Entries()
	}
	if len(candidates) == 0 {
		return domain.Reject(ReasonNoCandidates)
	}

	var (
		best       *domain.CatalogEntry
		bestScores componentScores
		bestTotal  = -1.0
	)
	for i := range candidates {
		cand := &candidates[i]
		if strings.TrimSpace(cand.Name) == "" {
			continue
		}
		scores := e.scoreCandidate(normName, tokens, m, cand)
		if total := scores.total(); total > bestTotal {
			best = cand
			bestScores = scores
			bestTotal = total
		}
	}

	if best == nil || bestTotal < e.config.MatchThreshold {
		if e.logger != nil {
			e.logger.Debug("mention unmatched",
				"mention", m.RawName,
				"best_score", bestTotal,
				"threshold", e.config.MatchThreshold,
			)
		}
		return domain.Reject(ReasonBelowThreshold)
	}

	confidence := EstimateConfidence(m.RawName, best.Name, m.Price, &best.Price)
	result := &domain.MatchResult{
		CatalogCode:       best.Code,
		OfficialName:      best.Name,
		OfficialPrice:     best.Price,
		Score:             bestTotal,
		NameScore:         bestScores.name,
		PriceScore:        bestScores.price,
		CategoryScore:     bestScores.category,
		Confidence:        confidence,
		NeedsManualReview: confidence < e.config.ReviewThreshold,
		MatchSource:       domain.MatchSourceCatalogIndex,
	}

	if e.logger != nil {
		e.logger.Debug("mention matched",
			"mention", m.RawName,
			"code", result.CatalogCode,
			"score", result.Score,
			"confidence", result.Confidence,
			"needs_review", result.NeedsManualReview,
		)
	}
	return domain.Accept(result)
}

// scoreCandidate computes the weighted component scores of one candidate.
func (e *Engine) scoreCandidate(normName string, tokens []string, m domain.Mention, cand *domain.CatalogEntry) componentScores {
	var s componentScores

	candNorm := strings.ToLower(textnorm.Sanitize(cand.Name, textnorm.DefaultNameMax))
	candTokens := textnorm.Tokenize(cand.Name)

	s.name = jaccard(tokens, candTokens) * jaccardScale
	if strings.Contains(candNorm, normName) {
		s.name += fullContainBonus
	} else if anyWordContained(tokens, candNorm) {
		s.name += wordContainBonus
	}

	if m.Price != nil {
		s.price = priceScore(*m.Price, cand.Price)
	}

	if m.Category != "" && cand.Category != "" {
		if normalizeCategory(m.Category) == normalizeCategory(cand.Category) {
			s.category = categoryBonus
		}
	}

	switch {
	case cand.Popularity > popularityHighTier:
		s.bonus += popularityHighBonus
	case cand.Popularity > popularityMidTier:
		s.bonus += popularityMidBonus
	}
	if cand.IsFeatured {
		s.bonus += featuredBonus
	}
	return s
}

func priceScore(mention, candidate int) float64 {
	diff := mention - candidate
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return priceExactBonus
	case diff <= priceTolerance:
		return priceNearBonus
	default:
		return 0
	}
}

// jaccard computes intersection over union of two token slices.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := textnorm.Set(a)
	setB := textnorm.Set(b)
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// anyWordContained reports whether any token of at least two runes occurs
// as a substring of the candidate's normalized name.
func anyWordContained(tokens []string, candNorm string) bool {
	for _, t := range tokens {
		if len([]rune(t)) < minContainRunes {
			continue
		}
		if strings.Contains(candNorm, t) {
			return true
		}
	}
	return false
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
