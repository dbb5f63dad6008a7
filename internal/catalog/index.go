// Package catalog builds a keyword index over catalog entries and performs
// the coarse bulk-retrieval pass: sweeping a whole catalog against one
// video's combined text.
// index.go uses an Aho-Corasick automaton so every entry keyword is checked
// for substring presence in a single pass through the text.
package catalog

import (
	"sort"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/storelens/matcher/internal/domain"
	"github.com/storelens/matcher/internal/textnorm"
)

const (
	// DefaultMinMatchScore is the fractional keyword-coverage floor for the
	// bulk path. Single-keyword matches are intentionally allowed; false
	// positives are filtered later by the human approval flag downstream.
	DefaultMinMatchScore = 0.25

	// DefaultMaxProductsPerVideo caps how many candidates one video yields.
	DefaultMaxProductsPerVideo = 10

	// titleBonus is added when any matched keyword also occurs in the
	// title alone. Title evidence is stronger than transcript evidence.
	titleBonus = 0.3
)

// Logger defines the logging interface used by the index.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// IndexConfig tunes the bulk retrieval thresholds.
type IndexConfig struct {
	MinMatchScore       float64
	MaxProductsPerVideo int
}

// VideoMatch is one scored catalog candidate for a video.
type VideoMatch struct {
	Score           float64            `json:"score"`
	Entry           domain.CatalogEntry `json:"entry"`
	MatchedKeywords []string           `json:"matched_keywords"`
}

// Index is an immutable keyword index over a catalog snapshot. Build it
// once per snapshot; matching holds no mutable state and is safe for
// concurrent use.
type Index struct {
	entries  []indexedEntry
	keywords []string         // deduplicated, automaton input order
	kwToIdx  map[string][]int // keyword -> indices into entries
	matcher  *ahocorasick.Matcher
	config   IndexConfig
	logger   Logger
}

type indexedEntry struct {
	entry    domain.CatalogEntry
	keywords []string
}

// BuildIndex tokenizes every usable catalog entry's name once and builds
// the substring automaton. Entries with an empty name or an empty keyword
// set are excluded: they can never match.
func BuildIndex(entries []domain.CatalogEntry, config IndexConfig, logger Logger) *Index {
	if config.MinMatchScore <= 0 {
		config.MinMatchScore = DefaultMinMatchScore
	}
	if config.MaxProductsPerVideo <= 0 {
		config.MaxProductsPerVideo = DefaultMaxProductsPerVideo
	}

	idx := &Index{
		entries: make([]indexedEntry, 0, len(entries)),
		kwToIdx: make(map[string][]int),
		config:  config,
		logger:  logger,
	}

	skipped := 0
	for _, entry := range entries {
		if strings.TrimSpace(entry.Name) == "" {
			skipped++
			continue
		}
		keywords := textnorm.Tokenize(entry.Name)
		if len(keywords) == 0 {
			skipped++
			continue
		}

		entryIdx := len(idx.entries)
		idx.entries = append(idx.entries, indexedEntry{entry: entry, keywords: keywords})
		for _, kw := range keywords {
			if _, seen := idx.kwToIdx[kw]; !seen {
				idx.keywords = append(idx.keywords, kw)
			}
			idx.kwToIdx[kw] = append(idx.kwToIdx[kw], entryIdx)
		}
	}

	if len(idx.keywords) > 0 {
		idx.matcher = ahocorasick.NewStringMatcher(idx.keywords)
	}

	if logger != nil {
		logger.Info("catalog index built",
			"entries", len(idx.entries),
			"keywords", len(idx.keywords),
			"skipped", skipped,
		)
	}
	return idx
}

// MatchVideo scores every indexed entry against a video's combined text
// (title concatenated with transcript). A keyword counts when it literally
// occurs as a substring of the combined text. Results are sorted by score
// descending; ties keep catalog insertion order, which is a documented
// policy, not an accident.
func (idx *Index) MatchVideo(combinedText, titleText string) []VideoMatch {
	if idx.matcher == nil || combinedText == "" {
		return nil
	}

	text := strings.ToLower(combinedText)
	title := strings.ToLower(titleText)

	hits := idx.matcher.Match([]byte(text))
	if len(hits) == 0 {
		return nil
	}

	// Accumulate matched keywords per entry.
	matched := make(map[int][]string)
	for _, hit := range hits {
		if hit >= len(idx.keywords) {
			continue
		}
		kw := idx.keywords[hit]
		for _, entryIdx := range idx.kwToIdx[kw] {
			matched[entryIdx] = append(matched[entryIdx], kw)
		}
	}

	results := make([]VideoMatch, 0, len(matched))
	for entryIdx := range idx.entries {
		kws, ok := matched[entryIdx]
		if !ok {
			continue
		}
		total := len(idx.entries[entryIdx].keywords)
		if total < 1 {
			total = 1
		}
		score := float64(len(kws)) / float64(total)

		for _, kw := range kws {
			if strings.Contains(title, kw) {
				score += titleBonus
				break
			}
		}

		if score < idx.config.MinMatchScore {
			continue
		}
		results = append(results, VideoMatch{
			Score:           score,
			Entry:           idx.entries[entryIdx].entry,
			MatchedKeywords: kws,
		})
	}

	// Iterating entries in index order above makes the stable sort's
	// tie-break "first inserted wins".
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > idx.config.MaxProductsPerVideo {
		results = results[:idx.config.MaxProductsPerVideo]
	}
	return results
}

// Candidates returns the entries with at least one keyword occurring as a
// substring of the given text, in catalog insertion order. The fine-grained
// scoring path uses this as its prefilter before scoring precisely.
func (idx *Index) Candidates(text string) []domain.CatalogEntry {
	if idx.matcher == nil || text == "" {
		return nil
	}

	hits := idx.matcher.Match([]byte(strings.ToLower(text)))
	seen := make(map[int]struct{})
	order := make([]int, 0, 16)
	for _, hit := range hits {
		if hit >= len(idx.keywords) {
			continue
		}
		for _, entryIdx := range idx.kwToIdx[idx.keywords[hit]] {
			if _, dup := seen[entryIdx]; dup {
				continue
			}
			seen[entryIdx] = struct{}{}
			order = append(order, entryIdx)
		}
	}
	sort.Ints(order)

	out := make([]domain.CatalogEntry, 0, len(order))
	for _, i := range order {
		out = append(out, idx.entries[i].entry)
	}
	return out
}

// EntryCount returns the number of indexed entries.
func (idx *Index) EntryCount() int { return len(idx.entries) }

// KeywordCount returns the number of distinct indexed keywords.
func (idx *Index) KeywordCount() int { return len(idx.keywords) }

// Keywords returns the indexed keyword set for a catalog code, or nil when
// the code is not indexed.
func (idx *Index) Keywords(code string) []string {
	for i := range idx.entries {
		if idx.entries[i].entry.Code == code {
			return idx.entries[i].keywords
		}
	}
	return nil
}
