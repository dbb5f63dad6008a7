package domain

import (
	"strconv"
	"strings"
)

// Mention is a free-text product reference extracted from a transcript,
// not yet tied to a catalog identity. Mentions are produced externally
// (AI extraction) and are immutable inputs to the matching core.
type Mention struct {
	RawName  string   `json:"name"`
	Price    *int     `json:"price,omitempty"`
	Category string   `json:"category,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// Provenance
	VideoID          string `json:"video_id"`
	SourceViewCount  int    `json:"source_view_count"`
	ChannelTitle     string `json:"channel_title"`
	TimestampSeconds *int   `json:"timestamp_seconds,omitempty"`
}

// ParsePrice parses a loosely formatted price string ("2,000", "2000원",
// "₩2,000") into minor-unit-free units. Unparseable values yield nil,
// letting scoring proceed with the price component contributing zero.
func ParsePrice(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return nil
	}
	return &n
}

// ParseTimestamp parses a timestamp field that may arrive as seconds
// ("754") or as "mm:ss" / "hh:mm:ss". Unparseable values yield nil.
func ParseTimestamp(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, ":") {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil
		}
		return &n
	}
	parts := strings.Split(s, ":")
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil
		}
		total = total*60 + n
	}
	return &total
}
