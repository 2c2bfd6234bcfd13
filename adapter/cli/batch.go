package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/triage/internal/triage/application/commands"
	"github.com/felixgeelhaar/triage/internal/triage/domain"
	"github.com/felixgeelhaar/triage/internal/triage/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	batchFile       string
	batchWorkers    int
	batchMinUrgency string
	batchJSON       bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze a file of tickets",
	Long: `Analyze every ticket in a file and print per-ticket results followed
by summary statistics.

Supported formats:
  .yaml/.yml  a list of tickets, or {tickets: [...]}; entries are strings
              or objects with id, text and source
  .json       the same shapes as YAML
  .txt        one ticket per line, blank lines skipped

With --min-urgency only tickets at or above that level are listed. The
summary always covers the whole file.`,
	Example: `  triage batch --file tickets.yaml
  triage batch -f tickets.txt --min-urgency high --workers 8
  triage batch -f tickets.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		var minLevel domain.UrgencyLevel
		if batchMinUrgency != "" {
			level, ok := domain.ParseUrgencyLevel(strings.ToLower(strings.TrimSpace(batchMinUrgency)))
			if !ok {
				return fmt.Errorf("invalid --min-urgency %q (use low, medium, high or critical)", batchMinUrgency)
			}
			minLevel = level
		}

		tickets, err := readTicketFile(batchFile)
		if err != nil {
			return err
		}

		workers := batchWorkers
		if workers <= 0 {
			workers = a.BatchWorkers
		}

		result, err := a.AnalyzeBatchHandler.Handle(cmd.Context(), commands.AnalyzeBatchCommand{
			Tickets: tickets,
			Workers: workers,
		})
		if err != nil {
			return fmt.Errorf("batch failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if batchJSON {
			return writeJSON(out, newBatchReport(tickets, result, minLevel))
		}
		writeBatch(out, tickets, result, minLevel)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "ticket file (.yaml, .yml, .json or .txt)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "tickets analyzed concurrently (default from TRIAGE_BATCH_WORKERS)")
	batchCmd.Flags().StringVar(&batchMinUrgency, "min-urgency", "", "only list tickets at or above this urgency level")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print results as JSON")
	_ = batchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(batchCmd)
}

type batchEntry struct {
	TicketID uuid.UUID      `json:"ticket_id"`
	Ref      string         `json:"ref,omitempty"`
	Source   string         `json:"source,omitempty"`
	Result   domain.Outcome `json:"result"`
}

type batchReport struct {
	MinUrgency domain.UrgencyLevel `json:"min_urgency,omitempty"`
	Results    []batchEntry        `json:"results"`
	Summary    services.Summary    `json:"summary"`
}

func newBatchReport(tickets []domain.Ticket, result *commands.AnalyzeBatchResult, minLevel domain.UrgencyLevel) batchReport {
	report := batchReport{
		MinUrgency: minLevel,
		Results:    []batchEntry{},
		Summary:    result.Summary,
	}
	for i, r := range result.Results {
		if minLevel != "" && !meetsUrgency(r.Outcome, minLevel) {
			continue
		}
		report.Results = append(report.Results, batchEntry{
			TicketID: r.TicketID,
			Ref:      r.Ref,
			Source:   tickets[i].Source,
			Result:   r.Outcome,
		})
	}
	return report
}

func meetsUrgency(outcome domain.Outcome, level domain.UrgencyLevel) bool {
	analysis, ok := outcome.Analysis()
	return ok && analysis.Urgency.Level.AtLeast(level)
}

func writeBatch(w io.Writer, tickets []domain.Ticket, result *commands.AnalyzeBatchResult, minLevel domain.UrgencyLevel) {
	if minLevel != "" {
		matches := services.FilterByMinimumUrgency(result.Outcomes(), minLevel)
		fmt.Fprintf(w, "Found %d ticket(s) at or above %s urgency:\n", len(matches), upper(minLevel))
		for _, analysis := range matches {
			fmt.Fprintf(w, "  • [%s] %s\n", upper(analysis.Urgency.Level), analysis.TicketText)
		}
	} else {
		fmt.Fprintf(w, "Analyzed %d ticket(s):\n", len(result.Results))
		for i, r := range result.Results {
			writeOutcomeLine(w, i+1, tickets[i].Text, r.Outcome)
		}
	}

	writeSeparator(w)
	writeSummary(w, result.Summary)
}
