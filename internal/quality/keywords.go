package quality

import "regexp"

// Keyword families the gate counts over a transcript. All matching is
// case-insensitive against the lower-cased text.

// productIndicatorWords signal recommendation/quality/purchase vocabulary.
var productIndicatorWords = []string{
	"추천", "제품", "상품", "아이템", "꿀템", "필수템", "신상",
	"가성비", "구매", "구입", "샀어요", "샀는데", "사세요", "사시면",
	"리뷰", "후기", "언박싱", "내돈내산",
}

// positiveWords mark a favorable product reference.
var positiveWords = []string{
	"좋아요", "좋은", "좋았", "최고", "만족", "대박", "유용", "편리",
	"훌륭", "짱", "강추", "인생템", "재구매",
}

// negativeWords mark an unfavorable or do-not-buy reference.
var negativeWords = []string{
	"별로", "실망", "비추", "아쉽", "후회", "불만", "최악",
	"사지마", "사지 마", "돈아깝", "돈 아깝", "고장",
}

// pricePattern covers the spoken and written price forms that appear in
// transcripts: "₩2,000", "2,000원", "3천원", "1만원", "가격은 2000".
// A single alternation keeps overlapping forms from double counting.
var pricePattern = regexp.MustCompile(`₩\s?\d{1,3}(?:,\d{3})*원?|\d{1,3}(?:,\d{3})+\s?원|\d+\s?원|\d+\s?천\s?원|\d+\s?만\s?원|가격은?\s?\d+`)

// storeAliases maps a canonical store key to the names a transcript may use
// for it. Used both for the hinted store and for mismatch detection against
// every other known store.
var storeAliases = map[string][]string{
	"daiso":      {"다이소", "daiso"},
	"oliveyoung": {"올리브영", "올영", "oliveyoung"},
	"ikea":       {"이케아", "ikea"},
	"costco":     {"코스트코", "costco"},
	"emart":      {"이마트", "emart", "노브랜드"},
	"convenience": {
		"편의점", "cu", "gs25", "세븐일레븐",
	},
}

// KnownStores returns the canonical keys the gate recognizes as store hints.
func KnownStores() []string {
	stores := make([]string, 0, len(storeAliases))
	for k := range storeAliases {
		stores = append(stores, k)
	}
	return stores
}
