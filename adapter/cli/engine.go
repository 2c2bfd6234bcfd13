package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/felixgeelhaar/triage/internal/engine/registry"
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/pkg/observability"
	"github.com/spf13/cobra"
)

var engineListJSON bool

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Inspect sentiment engines",
	Long: `Inspect the sentiment engines known to triage: the built-in lexicon
engine and any plugins discovered under the engine search paths.`,
}

var engineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered engines",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		infos := engineInfos(a)
		if engineListJSON {
			return writeJSON(cmd.OutOrStdout(), infos)
		}
		writeEngineTable(cmd.OutOrStdout(), infos)
		return nil
	},
}

var engineHealthCmd = &cobra.Command{
	Use:   "health [engine-id]",
	Short: "Check engine health",
	Long: `Check the health of one engine, or of every registered engine when no
ID is given. Exits non-zero when an engine is unhealthy.

Checking a plugin engine starts its process.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			result, ok := a.EngineHealth.CheckOne(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("%w: %s", sdk.ErrEngineNotFound, args[0])
			}
			writeHealthLine(out, args[0], result)
			if result.Status == observability.HealthStatusUnhealthy {
				return fmt.Errorf("engine %s is unhealthy", args[0])
			}
			return nil
		}

		overall := a.EngineHealth.GetOverallHealth(cmd.Context())
		for _, name := range a.EngineHealth.Names() {
			writeHealthLine(out, name, overall.Checks[name])
		}
		fmt.Fprintf(out, "\nOverall: %s\n", overall.Status)
		if overall.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("one or more engines are unhealthy")
		}
		return nil
	},
}

func init() {
	engineListCmd.Flags().BoolVar(&engineListJSON, "json", false, "print engines as JSON")

	engineCmd.AddCommand(engineListCmd)
	engineCmd.AddCommand(engineHealthCmd)
	rootCmd.AddCommand(engineCmd)
}

type engineInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Builtin     bool   `json:"builtin"`
	Default     bool   `json:"default"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

func engineInfos(a *App) []engineInfo {
	entries := a.EngineRegistry.List()
	infos := make([]engineInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, newEngineInfo(entry, a.SentimentEngine))
	}
	return infos
}

func newEngineInfo(entry registry.EngineEntry, defaultID string) engineInfo {
	info := engineInfo{
		ID:          entry.Manifest.ID,
		Name:        entry.Manifest.Name,
		Version:     entry.Manifest.Version,
		Type:        entry.Manifest.Type,
		Status:      string(entry.Status),
		Builtin:     entry.Builtin,
		Default:     entry.Manifest.ID == defaultID,
		Description: entry.Manifest.Description,
	}
	if entry.Error != nil {
		info.Error = entry.Error.Error()
	}
	return info
}

func writeEngineTable(out io.Writer, infos []engineInfo) {
	if len(infos) == 0 {
		fmt.Fprintln(out, "No engines registered.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tSOURCE\tSTATUS\t")
	for _, info := range infos {
		id := info.ID
		if info.Default {
			id += " *"
		}
		source := "plugin"
		if info.Builtin {
			source = "built-in"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", id, info.Name, info.Version, source, info.Status)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\nTotal: %d engine(s), * marks the active engine\n", len(infos))
}

func writeHealthLine(w io.Writer, name string, result observability.HealthCheckResult) {
	line := fmt.Sprintf("%s: %s", name, strings.ToUpper(string(result.Status)))
	if result.Message != "" {
		line += " (" + result.Message + ")"
	}
	if state, ok := result.Details["circuit_breaker"]; ok {
		line += fmt.Sprintf(" [circuit breaker: %v]", state)
	}
	fmt.Fprintln(w, line)
}
