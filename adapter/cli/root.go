package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var logger *slog.Logger

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "triage - customer support ticket analyzer",
	Long: `triage classifies customer support tickets by sentiment, urgency
and category, and recommends how quickly each one should be answered.

Sentiment is scored by a pluggable engine: the built-in lexicon engine
or an out-of-process plugin discovered under TRIAGE_ENGINE_PATH.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx = context.WithValue(ctx, commandContextKey{}, info)
		ctx = sdk.WithCorrelationID(ctx, info.correlationID.String())
		cmd.SetContext(ctx)

		getLogger().DebugContext(ctx, "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		getLogger().DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

func getLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
