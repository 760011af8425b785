package internal

import "strings"

// PassThreshold is the minimum keyword match rate for a retrieval test case
// to pass. A rate of exactly 0.5 passes; the bar is deliberately lenient to
// accommodate partial recall.
const PassThreshold = 0.5

// CheckKeywords partitions keywords into those found in the retrieved
// memories and those missing. All snippet contents are joined and
// case-folded once, then each keyword is tested by case-insensitive
// substring containment. Input order is preserved within each partition,
// and matched plus missing always re-assemble the input set.
func CheckKeywords(memories []MemorySnippet, keywords []string) (matched, missing []string) {
	contents := make([]string, 0, len(memories))
	for _, m := range memories {
		contents = append(contents, m.Content)
	}
	corpus := strings.ToLower(strings.Join(contents, " "))

	for _, kw := range keywords {
		if strings.Contains(corpus, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return matched, missing
}

// MatchRate returns matched/total in [0,1]. An empty keyword set scores 0,
// which means such a case can never pass; fixtures are expected to always
// carry keywords.
func MatchRate(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}
