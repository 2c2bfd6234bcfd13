package runtime

import (
	"context"

	"github.com/felixgeelhaar/triage/internal/engine/types"
	"github.com/felixgeelhaar/triage/internal/triage/domain"
)

// Scorer adapts an engine behind an Executor to services.SentimentScorer.
type Scorer struct {
	executor *Executor
	engineID string
	language string
}

// NewScorer creates a scorer that sends every text to engineID.
func NewScorer(executor *Executor, engineID string) *Scorer {
	return &Scorer{executor: executor, engineID: engineID}
}

// WithLanguage sets the language hint passed to the engine.
func (s *Scorer) WithLanguage(language string) *Scorer {
	s.language = language
	return s
}

// EngineID returns the engine the scorer calls.
func (s *Scorer) EngineID() string {
	return s.engineID
}

// Score implements services.SentimentScorer.
func (s *Scorer) Score(ctx context.Context, text string) (domain.SentimentScore, error) {
	output, err := s.executor.Score(ctx, s.engineID, types.ScoreInput{Text: text, Language: s.language})
	if err != nil {
		return domain.SentimentScore{}, err
	}
	return domain.SentimentScore{
		Polarity:     output.Polarity,
		Subjectivity: output.Subjectivity,
	}, nil
}
