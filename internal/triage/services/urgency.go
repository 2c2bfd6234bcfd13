package services

import (
	"context"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
)

// DetectUrgency scores urgent keywords in the normalized text and adds a
// boost when the raw text reads as negative.
func (a *Analyzer) DetectUrgency(ctx context.Context, text string) (domain.UrgencyResult, error) {
	found := countKeywords(Normalize(text), domain.UrgentKeywords)

	sentiment, err := a.ClassifySentiment(ctx, text)
	if err != nil {
		return domain.UrgencyResult{}, err
	}

	score := UrgencyScore(found, sentiment.Sentiment)
	return domain.UrgencyResult{
		Level:         UrgencyLevelFor(score),
		Score:         score,
		KeywordsFound: found,
	}, nil
}

// UrgencyScore combines the keyword count with the sentiment boost.
func UrgencyScore(keywordsFound int, sentiment domain.SentimentLabel) int {
	score := keywordsFound * domain.UrgentKeywordWeight
	if sentiment == domain.SentimentNegative {
		score += domain.NegativeSentimentBoost
	}
	return score
}

// UrgencyLevelFor maps a score onto its band.
func UrgencyLevelFor(score int) domain.UrgencyLevel {
	switch {
	case score >= domain.CriticalScoreThreshold:
		return domain.UrgencyCritical
	case score >= domain.HighScoreThreshold:
		return domain.UrgencyHigh
	case score >= domain.MediumScoreThreshold:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}
