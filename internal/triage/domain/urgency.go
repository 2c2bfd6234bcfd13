package domain

// UrgencyLevel is the discrete urgency of a ticket.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// UrgencyLevels lists every level from least to most urgent.
var UrgencyLevels = []UrgencyLevel{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}

// Score contributions and band boundaries. Each band includes its lower bound.
const (
	UrgentKeywordWeight    = 10
	NegativeSentimentBoost = 20

	CriticalScoreThreshold = 30
	HighScoreThreshold     = 15
	MediumScoreThreshold   = 5
)

// UrgentKeywords are matched by substring containment against normalized text.
// "can't" never survives normalization and so never matches; it is kept for parity
// with the published keyword list.
var UrgentKeywords = []string{
	"urgent", "asap", "immediately", "critical", "emergency",
	"broken", "not working", "down", "crashed", "error",
	"cannot", "can't", "unable", "failed", "failure",
}

// String returns the level as a string.
func (l UrgencyLevel) String() string {
	return string(l)
}

// Rank orders levels: low=0, medium=1, high=2, critical=3. Unknown levels rank -1.
func (l UrgencyLevel) Rank() int {
	for i, level := range UrgencyLevels {
		if level == l {
			return i
		}
	}
	return -1
}

// IsValid reports whether the level is one of the known levels.
func (l UrgencyLevel) IsValid() bool {
	return l.Rank() >= 0
}

// AtLeast reports whether l is as urgent as other or more.
func (l UrgencyLevel) AtLeast(other UrgencyLevel) bool {
	return l.Rank() >= other.Rank()
}

// ParseUrgencyLevel converts a string into a known level.
func ParseUrgencyLevel(s string) (UrgencyLevel, bool) {
	level := UrgencyLevel(s)
	return level, level.IsValid()
}

// UrgencyResult is the urgency assessment of a ticket.
type UrgencyResult struct {
	Level         UrgencyLevel `json:"urgency_level"`
	Score         int          `json:"urgency_score"`
	KeywordsFound int          `json:"urgent_keywords_found"`
}
