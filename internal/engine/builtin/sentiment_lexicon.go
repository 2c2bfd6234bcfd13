package builtin

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
)

// LexiconEngineID is the registry id of the built-in sentiment engine.
const LexiconEngineID = "triage.sentiment.lexicon"

// Default modifier settings.
const (
	DefaultNegationFactor   = -0.5
	DefaultIntensifierBoost = 1.3
)

// LexiconSentimentEngine scores text against a fixed word lexicon.
// Each matched word contributes its prior polarity and subjectivity,
// flipped and damped by a preceding negation and scaled by a directly
// preceding intensifier. The text score is the mean over matched words.
type LexiconSentimentEngine struct {
	mu               sync.RWMutex
	negationFactor   float64
	intensifierBoost float64
	shutdown         bool
}

// NewLexiconSentimentEngine creates the engine with default settings.
func NewLexiconSentimentEngine() *LexiconSentimentEngine {
	return &LexiconSentimentEngine{
		negationFactor:   DefaultNegationFactor,
		intensifierBoost: DefaultIntensifierBoost,
	}
}

// Metadata returns engine metadata.
func (e *LexiconSentimentEngine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:            LexiconEngineID,
		Name:          "Lexicon Sentiment Engine",
		Version:       "1.0.0",
		Author:        "Triage",
		Description:   "Built-in lexicon sentiment scorer with negation and intensifier handling",
		License:       "MIT",
		Tags:          []string{"sentiment", "builtin", "default"},
		MinAPIVersion: "1.0.0",
		Capabilities:  []string{"score_text", "negation", "intensifiers"},
	}
}

// Type returns the engine type.
func (e *LexiconSentimentEngine) Type() sdk.EngineType {
	return sdk.EngineTypeSentiment
}

// ConfigSchema returns the configuration schema.
func (e *LexiconSentimentEngine) ConfigSchema() sdk.ConfigSchema {
	schema := sdk.NewConfigSchema("Lexicon Sentiment", "Modifier tuning for the lexicon scorer")
	schema.AddProperty("negation_factor", sdk.PropertySchema{
		Type:        "number",
		Title:       "Negation Factor",
		Description: "Multiplier applied to a term's polarity when it is negated",
		Default:     DefaultNegationFactor,
		Minimum:     sdk.FloatPtr(-1),
		Maximum:     sdk.FloatPtr(0),
	})
	schema.AddProperty("intensifier_boost", sdk.PropertySchema{
		Type:        "number",
		Title:       "Intensifier Boost",
		Description: "Multiplier applied to a term preceded by an intensifier",
		Default:     DefaultIntensifierBoost,
		Minimum:     sdk.FloatPtr(1),
		Maximum:     sdk.FloatPtr(3),
	})
	return schema
}

// Initialize validates and applies the configuration.
func (e *LexiconSentimentEngine) Initialize(_ context.Context, config sdk.EngineConfig) error {
	if err := e.ConfigSchema().Validate(config.Raw); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.negationFactor = config.GetFloatOr("negation_factor", DefaultNegationFactor)
	e.intensifierBoost = config.GetFloatOr("intensifier_boost", DefaultIntensifierBoost)
	e.shutdown = false
	return nil
}

// HealthCheck returns the engine health status.
func (e *LexiconSentimentEngine) HealthCheck(_ context.Context) sdk.HealthStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.shutdown {
		return sdk.NewHealthStatus(false, "lexicon engine is shut down")
	}
	return sdk.NewHealthStatus(true, "lexicon engine is healthy").WithDetails(map[string]any{
		"lexicon_size":      len(sentimentLexicon),
		"negation_factor":   e.negationFactor,
		"intensifier_boost": e.intensifierBoost,
	})
}

// Shutdown marks the engine unusable.
func (e *LexiconSentimentEngine) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	return nil
}

// Score scores input.Text. Text without lexicon terms scores 0/0.
func (e *LexiconSentimentEngine) Score(ctx *sdk.ExecutionContext, input types.ScoreInput) (*types.ScoreOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	negationFactor, boost, shutdown := e.negationFactor, e.intensifierBoost, e.shutdown
	e.mu.RUnlock()
	if shutdown {
		return nil, sdk.ErrEngineShutdown
	}

	tokens := tokenize(input.Text)
	output := &types.ScoreOutput{}
	var polaritySum, subjectivitySum float64

	for i, token := range tokens {
		entry, ok := sentimentLexicon[token]
		if !ok {
			continue
		}

		assessment := types.TermAssessment{
			Term:         token,
			Polarity:     entry.polarity,
			Subjectivity: entry.subjectivity,
		}
		if i > 0 && intensifiers[tokens[i-1]] {
			assessment.Polarity *= boost
			assessment.Subjectivity *= boost
			assessment.Intensified = true
		}
		if negatedAt(tokens, i) {
			assessment.Polarity *= negationFactor
			assessment.Negated = true
		}
		assessment.Polarity = clampRange(assessment.Polarity, -1, 1)
		assessment.Subjectivity = clampRange(assessment.Subjectivity, 0, 1)

		polaritySum += assessment.Polarity
		subjectivitySum += assessment.Subjectivity
		output.Assessments = append(output.Assessments, assessment)
	}

	if n := float64(len(output.Assessments)); n > 0 {
		output.Polarity = polaritySum / n
		output.Subjectivity = subjectivitySum / n
	}
	output.Clamp()

	ctx.Logger.Debug("scored text",
		"tokens", len(tokens),
		"terms", len(output.Assessments),
		"polarity", output.Polarity,
	)
	ctx.Metrics.Counter("lexicon_terms_matched", int64(len(output.Assessments)))

	return output, nil
}

// tokenize lowercases text and splits it into words, keeping apostrophes
// inside contractions.
func tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	tokens := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'"); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// negatedAt reports whether a negation appears within negationWindow
// tokens before index i.
func negatedAt(tokens []string, i int) bool {
	for j := max(0, i-negationWindow); j < i; j++ {
		if negationWords[tokens[j]] || strings.HasSuffix(tokens[j], "n't") {
			return true
		}
	}
	return false
}

func clampRange(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Ensure LexiconSentimentEngine implements types.SentimentEngine
var _ types.SentimentEngine = (*LexiconSentimentEngine)(nil)
