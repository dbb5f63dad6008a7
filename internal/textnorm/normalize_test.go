package textnorm

import (
	"reflect"
	"strings"
	"testing"
)

func TestSanitize_StripsControlCharacters(t *testing.T) {
	got := Sanitize("스텐\x00 배수구망\x1f", 0)
	if got != "스텐 배수구망" {
		t.Errorf("expected control characters removed, got %q", got)
	}
}

func TestSanitize_FoldsFullWidth(t *testing.T) {
	got := Sanitize("ＤＡＩＳＯ　５００", 0)
	if got != "DAISO 500" {
		t.Errorf("expected full-width folded to ASCII, got %q", got)
	}
}

func TestSanitize_TruncatesByRunes(t *testing.T) {
	in := strings.Repeat("배", 300)
	got := Sanitize(in, 0)
	if n := len([]rune(got)); n != DefaultNameMax {
		t.Errorf("expected %d runes after truncation, got %d", DefaultNameMax, n)
	}

	got = Sanitize("가나다라마", 3)
	if got != "가나다" {
		t.Errorf("expected 3-rune truncation, got %q", got)
	}
}

func TestSanitize_TrimsWhitespace(t *testing.T) {
	if got := Sanitize("  주방세제  ", 0); got != "주방세제" {
		t.Errorf("expected trimmed result, got %q", got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "basic korean name",
			input:    "스테인레스 배수구망",
			expected: []string{"스테인레스", "배수구망"},
		},
		{
			name:     "lowercases latin",
			input:    "DAISO 주방세제",
			expected: []string{"daiso", "주방세제"},
		},
		{
			name:     "strips bracketed quantity noise",
			input:    "물티슈 (100매입) 캡형",
			expected: []string{"물티슈", "캡형"},
		},
		{
			name:     "keeps bracketed descriptors without digits or units",
			input:    "수세미 [오리지널]",
			expected: []string{"수세미", "오리지널"},
		},
		{
			name:     "drops digit and unit tokens",
			input:    "샴푸 500ml 3개 리필",
			expected: []string{"샴푸", "리필"},
		},
		{
			name:     "drops single-rune tokens",
			input:    "대 형 집게",
			expected: []string{"집게"},
		},
		{
			name:     "dedup keeps first occurrence order",
			input:    "정리함 수납 정리함",
			expected: []string{"정리함", "수납"},
		},
		{
			name:     "punctuation splits tokens",
			input:    "다용도/정리함-소형",
			expected: []string{"다용도", "정리함", "소형"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenize_DropsOverlongTokens(t *testing.T) {
	long := strings.Repeat("가", 51)
	got := Tokenize("집게 " + long)
	if !reflect.DeepEqual(got, []string{"집게"}) {
		t.Errorf("expected overlong token dropped, got %v", got)
	}
}

func TestSet(t *testing.T) {
	set := Set([]string{"스텐", "배수구망", "스텐"})
	if len(set) != 2 {
		t.Errorf("expected 2 distinct tokens, got %d", len(set))
	}
	if _, ok := set["배수구망"]; !ok {
		t.Error("expected 배수구망 in set")
	}
}
