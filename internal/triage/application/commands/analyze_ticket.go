package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/triage/internal/triage/domain"
	"github.com/felixgeelhaar/triage/internal/triage/services"
	"github.com/google/uuid"
)

// AnalyzeTicketCommand contains one ticket to triage.
type AnalyzeTicketCommand struct {
	TicketID uuid.UUID
	Ref      string
	Text     string
	Source   string
}

// AnalyzeTicketResult pairs the ticket with its outcome.
type AnalyzeTicketResult struct {
	TicketID uuid.UUID
	Ref      string
	Outcome  domain.Outcome
}

// AnalyzeTicketHandler analyzes a ticket and publishes the result.
type AnalyzeTicketHandler struct {
	analyzer  *services.Analyzer
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewAnalyzeTicketHandler builds a handler. A nil publisher publishes nothing.
func NewAnalyzeTicketHandler(analyzer *services.Analyzer, publisher eventbus.Publisher, logger *slog.Logger) *AnalyzeTicketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &AnalyzeTicketHandler{analyzer: analyzer, publisher: publisher, logger: logger}
}

// Handle analyzes the ticket. Blank text yields an error outcome, not an
// error; only a scorer failure fails the command. Publish failures are
// logged and do not affect the result.
func (h *AnalyzeTicketHandler) Handle(ctx context.Context, cmd AnalyzeTicketCommand) (*AnalyzeTicketResult, error) {
	ticketID := cmd.TicketID
	if ticketID == uuid.Nil {
		ticketID = uuid.New()
	}

	outcome, err := h.analyzer.Outcome(ctx, cmd.Text)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, ticketID, cmd, outcome)

	return &AnalyzeTicketResult{
		TicketID: ticketID,
		Ref:      cmd.Ref,
		Outcome:  outcome,
	}, nil
}

func (h *AnalyzeTicketHandler) publish(ctx context.Context, ticketID uuid.UUID, cmd AnalyzeTicketCommand, outcome domain.Outcome) {
	var payload any
	if analysis, ok := outcome.Analysis(); ok {
		payload = domain.TicketAnalyzedPayload{Ref: cmd.Ref, Source: cmd.Source, Analysis: analysis}
	} else {
		payload = domain.TicketRejectedPayload{Ref: cmd.Ref, Source: cmd.Source, Error: outcome.Err().Error()}
	}

	routingKey := domain.RoutingKeyFor(outcome)
	event, err := eventbus.NewTicketEvent(ticketID, routingKey, payload)
	if err != nil {
		h.logger.Error("failed to build ticket event", "ticket_id", ticketID, "error", err)
		return
	}
	event.WithCorrelationID(sdk.CorrelationIDFrom(ctx))

	if err := eventbus.PublishEvent(ctx, h.publisher, event); err != nil {
		h.logger.Warn("ticket event not published",
			"ticket_id", ticketID,
			"routing_key", routingKey,
			"error", err,
		)
	}
}
