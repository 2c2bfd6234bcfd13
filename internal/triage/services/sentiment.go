package services

import (
	"context"
	"fmt"
	"math"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
)

// SentimentScorer computes polarity and subjectivity for raw text.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (domain.SentimentScore, error)
}

// ScorerFunc adapts a function to SentimentScorer.
type ScorerFunc func(ctx context.Context, text string) (domain.SentimentScore, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, text string) (domain.SentimentScore, error) {
	return f(ctx, text)
}

// ClassifySentiment scores the raw text and buckets the polarity.
// The text is deliberately not normalized: negation and emphasis
// punctuation matter to the scorer.
func (a *Analyzer) ClassifySentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	score, err := a.scorer.Score(ctx, text)
	if err != nil {
		return domain.SentimentResult{}, fmt.Errorf("sentiment scoring failed: %w", err)
	}

	return domain.SentimentResult{
		Sentiment:    domain.LabelForPolarity(score.Polarity),
		Polarity:     round3(score.Polarity),
		Subjectivity: round3(score.Subjectivity),
	}, nil
}

// round3 rounds to 3 decimal places, halves away from zero.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
