package cli

import (
	"fmt"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/spf13/cobra"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "triage %s\n", Version)
		fmt.Fprintf(out, "  commit:     %s\n", Commit)
		fmt.Fprintf(out, "  built:      %s\n", BuildDate)
		fmt.Fprintf(out, "  engine api: %s\n", sdk.SDKVersion.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
