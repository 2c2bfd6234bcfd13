package cli

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/felixgeelhaar/triage/internal/triage/application/commands"
	"github.com/felixgeelhaar/triage/internal/triage/domain"
	"github.com/spf13/cobra"
)

//go:embed samples.yaml
var sampleTicketsYAML []byte

var samplesJSON bool

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Analyze the built-in sample tickets",
	Long: `Analyze ten representative support tickets and print the full report
for each, followed by summary statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		tickets, err := sampleTickets()
		if err != nil {
			return err
		}

		result, err := a.AnalyzeBatchHandler.Handle(cmd.Context(), commands.AnalyzeBatchCommand{
			Tickets: tickets,
			Workers: a.BatchWorkers,
		})
		if err != nil {
			return fmt.Errorf("samples failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if samplesJSON {
			return writeJSON(out, newBatchReport(tickets, result, ""))
		}
		writeSamples(out, a.SentimentEngine, tickets, result)
		return nil
	},
}

func init() {
	samplesCmd.Flags().BoolVar(&samplesJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(samplesCmd)
}

func sampleTickets() ([]domain.Ticket, error) {
	return decodeTickets(sampleTicketsYAML, ".yaml", "samples")
}

func writeSamples(w io.Writer, engineID string, tickets []domain.Ticket, result *commands.AnalyzeBatchResult) {
	writeSeparator(w)
	fmt.Fprintln(w, "CUSTOMER SUPPORT TICKET ANALYZER")
	fmt.Fprintln(w, "Powered by Natural Language Processing (NLP)")
	writeSeparator(w)

	fmt.Fprintf(w, "Sentiment engine: %s\n", engineID)
	fmt.Fprintf(w, "Analyzing %d sample tickets...\n", len(tickets))
	writeSeparator(w)

	for i, r := range result.Results {
		ref := tickets[i].Ref
		if ref == "" {
			ref = fmt.Sprint(i + 1)
		}
		writeOutcome(w, "TICKET #"+ref, r.Outcome)
	}

	writeSeparator(w)
	writeSummary(w, result.Summary)
	writeSeparator(w)
	fmt.Fprintln(w, "Analysis complete! ✓")
	writeSeparator(w)
}
