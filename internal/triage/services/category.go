package services

import (
	"strings"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
)

// ClassifyCategory scores the normalized text against every category and
// picks the highest. Ties go to the earliest category in domain.CategoryTable;
// no match at all falls back to general_inquiry with zero confidence.
func ClassifyCategory(text string) domain.CategoryResult {
	normalized := Normalize(text)
	scores := domain.NewCategoryScores()

	best := domain.FallbackCategory
	bestScore := 0
	for _, def := range domain.CategoryTable {
		score := countKeywords(normalized, def.Keywords)
		scores[def.Category] = score
		if score > bestScore {
			best = def.Category
			bestScore = score
		}
	}

	return domain.CategoryResult{
		Category:   best,
		Confidence: bestScore,
		Scores:     scores,
	}
}

// ExplainCategory lists the keywords that voted for category in text.
func ExplainCategory(text string, category domain.Category) string {
	normalized := Normalize(text)
	for _, def := range domain.CategoryTable {
		if def.Category != category {
			continue
		}
		matched := matchedKeywords(normalized, def.Keywords)
		if len(matched) == 0 {
			return "No keywords matched"
		}
		return "Matched keywords: " + strings.Join(matched, ", ")
	}
	return "Unknown category"
}
