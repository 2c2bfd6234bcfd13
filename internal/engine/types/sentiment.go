package types

import (
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
)

// SentimentEngine scores the polarity and subjectivity of free text.
// Implementations must be safe for concurrent use once initialized.
type SentimentEngine interface {
	sdk.Engine

	// Score analyzes a single text. Empty text scores 0/0.
	Score(ctx *sdk.ExecutionContext, input ScoreInput) (*ScoreOutput, error)
}

// ScoreInput is the text to score. The text is passed verbatim: casing,
// punctuation and contractions are meaningful to engines.
type ScoreInput struct {
	Text string `json:"text"`

	// Language is a BCP 47 hint. Engines may ignore it.
	Language string `json:"language,omitempty"`
}

// ScoreOutput is the raw engine score.
type ScoreOutput struct {
	// Polarity is in [-1, 1].
	Polarity float64 `json:"polarity"`

	// Subjectivity is in [0, 1].
	Subjectivity float64 `json:"subjectivity"`

	// Assessments lists the terms that contributed, in text order.
	Assessments []TermAssessment `json:"assessments,omitempty"`
}

// TermAssessment is one scored term after modifiers were applied.
type TermAssessment struct {
	Term         string  `json:"term"`
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Negated      bool    `json:"negated,omitempty"`
	Intensified  bool    `json:"intensified,omitempty"`
}

// Clamp forces the output into its documented ranges.
func (o *ScoreOutput) Clamp() {
	o.Polarity = clamp(o.Polarity, -1, 1)
	o.Subjectivity = clamp(o.Subjectivity, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
