package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
)

// Analyzer runs the triage pipeline. It holds no mutable state, so a single
// Analyzer may be shared by any number of goroutines as long as its scorer is.
type Analyzer struct {
	scorer SentimentScorer
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer backed by scorer.
func NewAnalyzer(scorer SentimentScorer, opts ...Option) *Analyzer {
	a := &Analyzer{
		scorer: scorer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeTicket classifies a single ticket. Blank text yields an
// *domain.EmptyInputError; scorer failures are returned wrapped.
func (a *Analyzer) AnalyzeTicket(ctx context.Context, text string) (*domain.TicketAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &domain.EmptyInputError{Length: len(text)}
	}

	sentiment, err := a.ClassifySentiment(ctx, text)
	if err != nil {
		return nil, err
	}

	urgency, err := a.DetectUrgency(ctx, text)
	if err != nil {
		return nil, err
	}

	category := ClassifyCategory(text)

	analysis := &domain.TicketAnalysis{
		TicketText:             DisplayText(text),
		Sentiment:              sentiment,
		Urgency:                urgency,
		Category:               category,
		PriorityRecommendation: RecommendPriority(urgency.Level, sentiment.Sentiment),
	}

	a.logger.Debug("ticket analyzed",
		"sentiment", sentiment.Sentiment,
		"urgency", urgency.Level,
		"urgency_score", urgency.Score,
		"category", category.Category,
		"confidence", category.Confidence,
	)

	return analysis, nil
}

// AnalyzeBatch analyzes every text in order and returns one outcome per input.
// Blank entries become error outcomes and processing continues; a scorer
// failure aborts the batch and is returned.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) ([]domain.Outcome, error) {
	outcomes := make([]domain.Outcome, 0, len(texts))
	for _, text := range texts {
		outcome, err := a.Outcome(ctx, text)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// Outcome analyzes text and folds input rejections into an error outcome.
// Any other failure is returned as err.
func (a *Analyzer) Outcome(ctx context.Context, text string) (domain.Outcome, error) {
	analysis, err := a.AnalyzeTicket(ctx, text)
	if err != nil {
		if domain.IsEmptyInput(err) {
			return domain.NewErrorOutcome(err), nil
		}
		return domain.Outcome{}, err
	}
	return domain.NewAnalysisOutcome(analysis), nil
}

// DisplayText truncates text longer than domain.MaxDisplayLength runes and
// appends the truncation marker.
func DisplayText(text string) string {
	if utf8.RuneCountInString(text) <= domain.MaxDisplayLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:domain.MaxDisplayLength]) + domain.TruncationMarker
}
