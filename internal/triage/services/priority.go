package services

import "github.com/felixgeelhaar/triage/internal/triage/domain"

// Priority recommendations, most urgent first.
const (
	RecommendationEscalate  = "Immediate attention required — escalate to senior support"
	RecommendationOneHour   = "High priority — respond within 1 hour"
	RecommendationTwoHours  = "High priority — respond within 2 hours"
	RecommendationFourHours = "Medium priority — respond within 4 hours"
	RecommendationOneDay    = "Low priority — respond within 24 hours"
)

// RecommendPriority maps urgency and sentiment to a response target.
// Sentiment only matters for high urgency.
func RecommendPriority(urgency domain.UrgencyLevel, sentiment domain.SentimentLabel) string {
	switch {
	case urgency == domain.UrgencyCritical:
		return RecommendationEscalate
	case urgency == domain.UrgencyHigh && sentiment == domain.SentimentNegative:
		return RecommendationOneHour
	case urgency == domain.UrgencyHigh:
		return RecommendationTwoHours
	case urgency == domain.UrgencyMedium:
		return RecommendationFourHours
	default:
		return RecommendationOneDay
	}
}
