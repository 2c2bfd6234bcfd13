package domain

// Routing keys of the events published after each triage.
const (
	RoutingKeyTicketAnalyzed = "triage.ticket.analyzed"
	RoutingKeyTicketRejected = "triage.ticket.rejected"
)

// TicketAnalyzedPayload is published when a ticket was classified.
type TicketAnalyzedPayload struct {
	Ref      string          `json:"ref,omitempty"`
	Source   string          `json:"source,omitempty"`
	Analysis *TicketAnalysis `json:"analysis"`
}

// TicketRejectedPayload is published when a ticket could not be analyzed.
type TicketRejectedPayload struct {
	Ref    string `json:"ref,omitempty"`
	Source string `json:"source,omitempty"`
	Error  string `json:"error"`
}

// RoutingKeyFor returns the routing key matching an outcome.
func RoutingKeyFor(outcome Outcome) string {
	if outcome.IsError() {
		return RoutingKeyTicketRejected
	}
	return RoutingKeyTicketAnalyzed
}
