package domain

import "strings"

// KeywordFilter drops alerts whose title or summary mentions an excluded
// product category. Matching is case-sensitive substring containment.
type KeywordFilter struct {
	keywords []string
}

// NewKeywordFilter builds a filter from the given substrings. Empty
// keywords are ignored since they would match everything.
func NewKeywordFilter(keywords []string) KeywordFilter {
	kept := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			kept = append(kept, k)
		}
	}
	return KeywordFilter{keywords: kept}
}

// Match returns the first excluded keyword found in title or summary.
func (f KeywordFilter) Match(title, summary string) (string, bool) {
	for _, k := range f.keywords {
		if strings.Contains(title, k) || strings.Contains(summary, k) {
			return k, true
		}
	}
	return "", false
}

// Keywords returns a copy of the configured keywords.
func (f KeywordFilter) Keywords() []string {
	return append([]string(nil), f.keywords...)
}
