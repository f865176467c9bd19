package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/terminalfellow/terminalfellow/internal/version"
)

// newVersionCommand creates the version command to display version information.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show Terminal Fellow version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return displayVersionInformation(cmd.OutOrStdout())
		},
	}
}

func displayVersionInformation(out io.Writer) error {
	fmt.Fprintf(out, "Terminal Fellow version %s\n", version.Version)

	if version.Commit != "" {
		fmt.Fprintf(out, "Commit: %s\n", version.Commit)
	}

	if version.BuildDate != "" {
		fmt.Fprintf(out, "Built: %s\n", version.BuildDate)
	}

	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())

	return nil
}

func (r *session) newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if r.container.DoctorService == nil {
				return fmt.Errorf("doctor service unavailable")
			}
			report, err := r.container.DoctorService.Run(cmd.Context())

			// Display report even if there were errors
			renderDoctorReport(cmd.OutOrStdout(), report)

			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			if !report.Healthy() {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}

func (r *session) newHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show what Terminal Fellow reads from your shell history",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := r.container.Settings
			items := settings.MaxHistoryItems
			if limit > 0 {
				items = limit
			}
			reader := r.container.OpenHistory(settings.HistoryFile, items)
			analysis, err := reader.Analyze(cmd.Context())
			if err != nil {
				return fmt.Errorf("analyze history: %w", err)
			}
			renderHistoryAnalysis(cmd.OutOrStdout(), settings.HistoryFile, analysis)
			if !settings.HistoryEnabled() {
				renderWarning(cmd.ErrOrStderr(), "history is not sent to the model; enable it with 'tf config --use-history'")
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of recent entries to show (default max_history_items)")
	return cmd
}
