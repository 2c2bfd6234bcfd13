package domain

import (
	"encoding/json"
	"errors"
)

// Display truncation of the echoed ticket text.
const (
	MaxDisplayLength = 100
	TruncationMarker = "..."
)

// TicketAnalysis is the full classification of one ticket.
type TicketAnalysis struct {
	TicketText             string          `json:"ticket_text"`
	Sentiment              SentimentResult `json:"sentiment"`
	Urgency                UrgencyResult   `json:"urgency"`
	Category               CategoryResult  `json:"category"`
	PriorityRecommendation string          `json:"priority_recommendation"`
}

// Outcome holds either a TicketAnalysis or the error that prevented one.
// Exactly one side is set.
type Outcome struct {
	analysis *TicketAnalysis
	err      error
}

// NewAnalysisOutcome wraps a successful analysis.
func NewAnalysisOutcome(analysis *TicketAnalysis) Outcome {
	if analysis == nil {
		return Outcome{err: errors.New("nil analysis")}
	}
	return Outcome{analysis: analysis}
}

// NewErrorOutcome wraps a failed analysis.
func NewErrorOutcome(err error) Outcome {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Outcome{err: err}
}

// Analysis returns the analysis and true, or nil and false for an error outcome.
func (o Outcome) Analysis() (*TicketAnalysis, bool) {
	return o.analysis, o.analysis != nil
}

// Err returns the error of an error outcome, or nil.
func (o Outcome) Err() error {
	return o.err
}

// IsError reports whether this is an error outcome.
func (o Outcome) IsError() bool {
	return o.err != nil
}

type errorBody struct {
	Error string `json:"error"`
}

// MarshalJSON encodes either the analysis object or {"error": "..."}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return json.Marshal(errorBody{Error: o.err.Error()})
	}
	return json.Marshal(o.analysis)
}
