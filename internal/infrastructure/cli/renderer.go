package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/ai"
)

var (
	boldStyle    = color.New(color.Bold)
	titleStyle   = color.New(color.FgBlue, color.Bold)
	successStyle = color.New(color.FgGreen, color.Bold)
	warnStyle    = color.New(color.FgYellow, color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
)

func renderSuccess(w io.Writer, format string, args ...interface{}) {
	successStyle.Fprintf(w, format+"\n", args...)
}

func renderWarning(w io.Writer, format string, args ...interface{}) {
	warnStyle.Fprint(w, "Warning: ")
	fmt.Fprintf(w, format+"\n", args...)
}

func renderError(w io.Writer, format string, args ...interface{}) {
	errorStyle.Fprintf(w, format+"\n", args...)
}

// PrintCancelled reports an interrupted invocation.
func PrintCancelled(w io.Writer) {
	warnStyle.Fprintln(w, "\nOperation cancelled by user.")
}

// PrintError reports a fatal error.
func PrintError(w io.Writer, err error) {
	renderError(w, "Error: %v", err)
}

func renderCredentialHint(w io.Writer) {
	renderError(w, "No OpenAI API key found.")
	fmt.Fprintln(w, "Run 'tf setup' or 'tf config --openai-api-key <key>', or export "+domain.EnvAPIKey+".")
}

// renderSettingsSummary mirrors `tf config --show`. key is the resolved
// credential, which may come from the environment rather than the file.
func renderSettingsSummary(w io.Writer, cfg domain.Settings, key string, path string) {
	historyFile := cfg.HistoryFile
	if historyFile == "" {
		historyFile = "[Not set]"
	}
	masked := ai.MaskKey(key)
	if key == "" {
		masked = "[Not set]"
	}

	titleStyle.Fprintln(w, "Current Configuration:")
	printField(w, "OpenAI API Key", masked)
	printField(w, "History File", historyFile)
	printField(w, "Use Command History", yesNo(cfg.HistoryEnabled()))
	printField(w, "Use Context", yesNo(cfg.UseContext))
	printField(w, "Prompt Type", cfg.DefaultPromptType)
	if cfg.Model != "" {
		printField(w, "Model", cfg.Model)
	}
	if cfg.OfflineMode {
		printField(w, "Offline Mode", "Yes")
	}
	printField(w, "Config File", path)
}

func renderDoctorReport(w io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		style := successStyle
		switch check.Status {
		case domain.HealthWarn:
			style = warnStyle
		case domain.HealthError:
			style = errorStyle
		}
		style.Fprintf(w, "[%s]", strings.ToUpper(string(check.Status)))
		fmt.Fprintf(w, " %s - %s\n", check.Name, check.Details)
	}
}

func renderHistoryAnalysis(w io.Writer, path string, analysis domain.HistoryAnalysis) {
	titleStyle.Fprintln(w, "Shell History:")
	printField(w, "File", path)
	printField(w, "Entries", fmt.Sprintf("%d", analysis.Count))

	if len(analysis.CommonCommands) > 0 {
		boldStyle.Fprintln(w, "\nMost used commands:")
		for i, command := range analysis.CommonCommands {
			fmt.Fprintf(w, "  %2d. %-20s %d\n", i+1, command.Name, command.Count)
		}
	}
	if len(analysis.MostRecent) > 0 {
		boldStyle.Fprintln(w, "\nMost recent:")
		for _, entry := range analysis.MostRecent {
			fmt.Fprintf(w, "  %s\n", entry)
		}
	}
}

func printField(w io.Writer, name, value string) {
	boldStyle.Fprintf(w, "%s:", name)
	fmt.Fprintf(w, " %s\n", value)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
