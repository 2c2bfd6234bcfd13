package domain

// SentimentLabel is the bucketed polarity of a ticket.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentLabels lists every label in display order.
var SentimentLabels = []SentimentLabel{SentimentPositive, SentimentNeutral, SentimentNegative}

// Polarity thresholds. A polarity must be strictly beyond a threshold to leave neutral.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// String returns the label as a string.
func (l SentimentLabel) String() string {
	return string(l)
}

// IsValid reports whether the label is one of the known labels.
func (l SentimentLabel) IsValid() bool {
	switch l {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}

// LabelForPolarity buckets a polarity value.
func LabelForPolarity(polarity float64) SentimentLabel {
	switch {
	case polarity > PositiveThreshold:
		return SentimentPositive
	case polarity < NegativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentimentScore is the raw output of a sentiment scorer.
// Polarity is in [-1, 1] and Subjectivity in [0, 1].
type SentimentScore struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// SentimentResult is the classified sentiment of a ticket.
type SentimentResult struct {
	Sentiment    SentimentLabel `json:"sentiment"`
	Polarity     float64        `json:"polarity"`
	Subjectivity float64        `json:"subjectivity"`
}
