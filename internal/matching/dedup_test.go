package matching

import (
	"testing"

	"github.com/storelens/matcher/internal/domain"
)

func TestDeduplicator_CachesPerVideoAndMention(t *testing.T) {
	engine := NewEngine(&mockLogger{}, Config{})
	snap := testSnapshot()
	dedup := NewDeduplicator(engine)

	m := domain.Mention{VideoID: "vid-1", RawName: "실리콘 수세미", Price: intPtr(1000)}

	first := dedup.Match(m, snap)
	if !first.Accepted {
		t.Fatalf("expected match, rejected with %q", first.Reason)
	}
	if dedup.Size() != 1 {
		t.Errorf("expected 1 cached pair, got %d", dedup.Size())
	}

	second := dedup.Match(m, snap)
	if second.Result != first.Result {
		t.Error("expected cached outcome to reuse the same result")
	}
	if dedup.Size() != 1 {
		t.Errorf("expected cache size unchanged, got %d", dedup.Size())
	}
}

func TestDeduplicator_KeyNormalization(t *testing.T) {
	engine := NewEngine(&mockLogger{}, Config{})
	snap := testSnapshot()
	dedup := NewDeduplicator(engine)

	dedup.Match(domain.Mention{VideoID: "vid-1", RawName: "실리콘 수세미"}, snap)
	dedup.Match(domain.Mention{VideoID: "vid-1", RawName: "  실리콘 수세미  "}, snap)

	if dedup.Size() != 1 {
		t.Errorf("expected trimmed names to share one cache slot, got %d", dedup.Size())
	}
}

func TestDeduplicator_SeparatesVideos(t *testing.T) {
	engine := NewEngine(&mockLogger{}, Config{})
	snap := testSnapshot()
	dedup := NewDeduplicator(engine)

	dedup.Match(domain.Mention{VideoID: "vid-1", RawName: "실리콘 수세미"}, snap)
	dedup.Match(domain.Mention{VideoID: "vid-2", RawName: "실리콘 수세미"}, snap)

	if dedup.Size() != 2 {
		t.Errorf("expected per-video cache slots, got %d", dedup.Size())
	}
}

func TestDeduplicator_CachesRejections(t *testing.T) {
	engine := NewEngine(&mockLogger{}, Config{})
	snap := testSnapshot()
	dedup := NewDeduplicator(engine)

	first := dedup.Match(domain.Mention{VideoID: "vid-1", RawName: "노트북 충전기"}, snap)
	if first.Accepted {
		t.Fatal("expected rejection")
	}

	second := dedup.Match(domain.Mention{VideoID: "vid-1", RawName: "노트북 충전기"}, snap)
	if second.Accepted || second.Reason != first.Reason {
		t.Error("expected cached rejection")
	}
	if dedup.Size() != 1 {
		t.Errorf("expected 1 cached pair, got %d", dedup.Size())
	}
}
