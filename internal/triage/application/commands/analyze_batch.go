package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
	"github.com/felixgeelhaar/triage/internal/triage/services"
	"golang.org/x/sync/errgroup"
)

// AnalyzeBatchCommand contains the tickets of one batch. Workers <= 1
// analyzes them one after another.
type AnalyzeBatchCommand struct {
	Tickets []domain.Ticket
	Workers int
}

// AnalyzeBatchResult holds one result per ticket, in input order.
type AnalyzeBatchResult struct {
	Results []AnalyzeTicketResult
	Summary services.Summary
}

// Outcomes returns the outcomes in input order.
func (r *AnalyzeBatchResult) Outcomes() []domain.Outcome {
	outcomes := make([]domain.Outcome, len(r.Results))
	for i, result := range r.Results {
		outcomes[i] = result.Outcome
	}
	return outcomes
}

// AnalyzeBatchHandler triages many tickets through an AnalyzeTicketHandler.
type AnalyzeBatchHandler struct {
	tickets *AnalyzeTicketHandler
	logger  *slog.Logger
}

// NewAnalyzeBatchHandler builds a handler.
func NewAnalyzeBatchHandler(tickets *AnalyzeTicketHandler, logger *slog.Logger) *AnalyzeBatchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeBatchHandler{tickets: tickets, logger: logger}
}

// Handle analyzes every ticket. The first scorer failure cancels the
// remaining work and is returned.
func (h *AnalyzeBatchHandler) Handle(ctx context.Context, cmd AnalyzeBatchCommand) (*AnalyzeBatchResult, error) {
	start := time.Now()
	results := make([]AnalyzeTicketResult, len(cmd.Tickets))

	workers := cmd.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ticket := range cmd.Tickets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := h.tickets.Handle(gctx, AnalyzeTicketCommand{
				TicketID: ticket.ID,
				Ref:      ticket.Ref,
				Text:     ticket.Text,
				Source:   ticket.Source,
			})
			if err != nil {
				return fmt.Errorf("ticket %d: %w", i+1, err)
			}
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &AnalyzeBatchResult{Results: results}
	batch.Summary = services.Summarize(batch.Outcomes())

	h.logger.Info("batch analyzed",
		"tickets", batch.Summary.Total,
		"analyzed", batch.Summary.Analyzed,
		"rejected", batch.Summary.Rejected,
		"workers", workers,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return batch, nil
}
