package services

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
)

// fixedScorer returns the same score for every text.
func fixedScorer(polarity, subjectivity float64) SentimentScorer {
	return ScorerFunc(func(_ context.Context, _ string) (domain.SentimentScore, error) {
		return domain.SentimentScore{Polarity: polarity, Subjectivity: subjectivity}, nil
	})
}

// recordingScorer remembers every text it scored.
type recordingScorer struct {
	mu    sync.Mutex
	score domain.SentimentScore
	seen  []string
}

func (r *recordingScorer) Score(_ context.Context, text string) (domain.SentimentScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, text)
	return r.score, nil
}

var (
	neutralScorer  = fixedScorer(0, 0)
	negativeScorer = fixedScorer(-0.6, 0.9)
	positiveScorer = fixedScorer(0.8, 0.75)
)
