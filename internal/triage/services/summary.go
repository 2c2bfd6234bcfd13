package services

import "github.com/felixgeelhaar/triage/internal/triage/domain"

// Summary aggregates a batch of outcomes.
type Summary struct {
	Total       int                           `json:"total"`
	Analyzed    int                           `json:"analyzed"`
	Rejected    int                           `json:"rejected"`
	ByUrgency   map[domain.UrgencyLevel]int   `json:"by_urgency"`
	BySentiment map[domain.SentimentLabel]int `json:"by_sentiment"`
	ByCategory  map[domain.Category]int       `json:"by_category"`
}

// Summarize counts outcomes by urgency level, sentiment and category.
// Error outcomes only count toward Total and Rejected.
func Summarize(outcomes []domain.Outcome) Summary {
	summary := Summary{
		Total:       len(outcomes),
		ByUrgency:   make(map[domain.UrgencyLevel]int),
		BySentiment: make(map[domain.SentimentLabel]int),
		ByCategory:  make(map[domain.Category]int),
	}

	for _, outcome := range outcomes {
		analysis, ok := outcome.Analysis()
		if !ok {
			summary.Rejected++
			continue
		}
		summary.Analyzed++
		summary.ByUrgency[analysis.Urgency.Level]++
		summary.BySentiment[analysis.Sentiment.Sentiment]++
		summary.ByCategory[analysis.Category.Category]++
	}

	return summary
}

// FilterByMinimumUrgency keeps the analyses at or above level, preserving order.
func FilterByMinimumUrgency(outcomes []domain.Outcome, level domain.UrgencyLevel) []*domain.TicketAnalysis {
	var filtered []*domain.TicketAnalysis
	for _, outcome := range outcomes {
		analysis, ok := outcome.Analysis()
		if !ok {
			continue
		}
		if analysis.Urgency.Level.AtLeast(level) {
			filtered = append(filtered, analysis)
		}
	}
	return filtered
}
