package catalog

import (
	"fmt"
	"testing"

	"github.com/storelens/matcher/internal/domain"
)

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func testEntries() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{Code: "100001", Name: "스테인레스 배수구망", Price: 2000, Category: "주방용품"},
		{Code: "100002", Name: "실리콘 수세미", Price: 1000, Category: "주방용품"},
		{Code: "100003", Name: "다용도 정리함", Price: 3000, Category: "수납"},
		{Code: "100004", Name: "정리함 수납 바구니", Price: 5000, Category: "수납"},
	}
}

func TestBuildIndex_SkipsUnindexableEntries(t *testing.T) {
	entries := []domain.CatalogEntry{
		{Code: "1", Name: "스테인레스 배수구망"},
		{Code: "2", Name: "   "},
		{Code: "3", Name: "500ml"}, // tokenizes to nothing
	}
	idx := BuildIndex(entries, IndexConfig{}, &mockLogger{})

	if idx.EntryCount() != 1 {
		t.Errorf("expected 1 indexed entry, got %d", idx.EntryCount())
	}
	if idx.KeywordCount() != 2 {
		t.Errorf("expected 2 keywords, got %d", idx.KeywordCount())
	}
	if kws := idx.Keywords("2"); kws != nil {
		t.Errorf("expected no keywords for skipped entry, got %v", kws)
	}
}

func TestIndex_MatchVideo_TitleBonus(t *testing.T) {
	idx := BuildIndex(testEntries(), IndexConfig{}, &mockLogger{})

	title := "다이소 배수구망 꿀템"
	transcript := "오늘은 다이소에서 산 배수구망 후기를 들려드릴게요"
	matches := idx.MatchVideo(title+" "+transcript, title)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Entry.Code != "100001" {
		t.Errorf("expected entry 100001, got %s", m.Entry.Code)
	}
	// One of two keywords matched (0.5) plus the title bonus (0.3).
	if m.Score < 0.79 || m.Score > 0.81 {
		t.Errorf("expected score 0.8, got %f", m.Score)
	}
	if len(m.MatchedKeywords) != 1 || m.MatchedKeywords[0] != "배수구망" {
		t.Errorf("expected matched keywords [배수구망], got %v", m.MatchedKeywords)
	}
}

func TestIndex_MatchVideo_MinScoreFilter(t *testing.T) {
	entries := []domain.CatalogEntry{
		{Code: "1", Name: "프리미엄 스테인레스 주방 배수구망 대형"},
	}
	// 5 keywords; one matched in transcript only gives 0.2.
	idx := BuildIndex(entries, IndexConfig{MinMatchScore: 0.25}, &mockLogger{})

	matches := idx.MatchVideo("배수구망 샀어요", "")
	if len(matches) != 0 {
		t.Errorf("expected no matches below min score, got %d", len(matches))
	}

	// The same hit in the title clears the floor via the bonus.
	matches = idx.MatchVideo("배수구망 샀어요", "배수구망 샀어요")
	if len(matches) != 1 {
		t.Errorf("expected 1 match with title bonus, got %d", len(matches))
	}
}

func TestIndex_MatchVideo_SortedAndCapped(t *testing.T) {
	entries := make([]domain.CatalogEntry, 0, 12)
	for i := 0; i < 12; i++ {
		entries = append(entries, domain.CatalogEntry{
			Code: fmt.Sprintf("%d", 100+i),
			Name: fmt.Sprintf("정리함 수납 상자%d호형", i),
		})
	}
	entries = append(entries, domain.CatalogEntry{Code: "999", Name: "정리함"})

	idx := BuildIndex(entries, IndexConfig{MinMatchScore: 0.25, MaxProductsPerVideo: 10}, &mockLogger{})
	matches := idx.MatchVideo("다이소 정리함 추천 영상", "")

	if len(matches) != 10 {
		t.Fatalf("expected cap at 10 matches, got %d", len(matches))
	}
	// The single-keyword entry has full coverage and must rank first.
	if matches[0].Entry.Code != "999" {
		t.Errorf("expected full-coverage entry first, got %s", matches[0].Entry.Code)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("expected descending scores, got %f after %f at %d",
				matches[i].Score, matches[i-1].Score, i)
		}
	}
}

func TestIndex_MatchVideo_TieBreakInsertionOrder(t *testing.T) {
	entries := []domain.CatalogEntry{
		{Code: "A", Name: "실리콘 수세미"},
		{Code: "B", Name: "양면 수세미"},
	}
	idx := BuildIndex(entries, IndexConfig{}, &mockLogger{})

	matches := idx.MatchVideo("수세미 하나 샀어요", "")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Entry.Code != "A" || matches[1].Entry.Code != "B" {
		t.Errorf("expected catalog order on equal scores, got %s then %s",
			matches[0].Entry.Code, matches[1].Entry.Code)
	}
}

func TestIndex_MatchVideo_NoHits(t *testing.T) {
	idx := BuildIndex(testEntries(), IndexConfig{}, &mockLogger{})

	if matches := idx.MatchVideo("전혀 관련없는 이야기", ""); matches != nil {
		t.Errorf("expected nil on no hits, got %v", matches)
	}
	if matches := idx.MatchVideo("", ""); matches != nil {
		t.Errorf("expected nil on empty text, got %v", matches)
	}
}

func TestIndex_Candidates(t *testing.T) {
	idx := BuildIndex(testEntries(), IndexConfig{}, &mockLogger{})

	got := idx.Candidates("수납 정리함 어디서 사요")
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Code != "100003" || got[1].Code != "100004" {
		t.Errorf("expected catalog order 100003, 100004; got %s, %s", got[0].Code, got[1].Code)
	}

	if c := idx.Candidates("관련없는 내용"); len(c) != 0 {
		t.Errorf("expected no candidates, got %d", len(c))
	}
}

func TestSnapshot_CopiesEntries(t *testing.T) {
	entries := testEntries()
	snap := NewSnapshot(entries, IndexConfig{}, &mockLogger{})

	entries[0].Name = "변조된 이름"
	if snap.Entries()[0].Name != "스테인레스 배수구망" {
		t.Error("expected snapshot isolated from caller mutation")
	}
	if snap.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", snap.Len())
	}
	if snap.Index().EntryCount() != 4 {
		t.Errorf("expected 4 indexed entries, got %d", snap.Index().EntryCount())
	}
}
