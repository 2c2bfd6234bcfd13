package cli

import (
	"fmt"

	"github.com/felixgeelhaar/triage/internal/triage/application/commands"
	"github.com/spf13/cobra"
)

var (
	analyzeJSON   bool
	analyzeSource string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze a single ticket",
	Long: `Analyze one support ticket and print its sentiment, urgency,
category and priority recommendation.

The ticket text is taken from the arguments, or from stdin when no
arguments are given. Blank text is reported as an error result.`,
	Example: `  triage analyze "URGENT: Cannot login to my account! This is critical!"
  echo "I was charged twice this month" | triage analyze --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		text, err := readTicketText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		result, err := a.AnalyzeTicketHandler.Handle(cmd.Context(), commands.AnalyzeTicketCommand{
			Text:   text,
			Source: analyzeSource,
		})
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			return writeJSON(out, result.Outcome)
		}
		writeOutcome(out, "TICKET", result.Outcome)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "cli", "source recorded on the published event")

	rootCmd.AddCommand(analyzeCmd)
}
