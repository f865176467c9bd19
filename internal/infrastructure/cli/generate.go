package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/terminalfellow/terminalfellow/internal/app"
	"github.com/terminalfellow/terminalfellow/internal/application/generator"
	"github.com/terminalfellow/terminalfellow/internal/application/query"
	"github.com/terminalfellow/terminalfellow/internal/application/setup"
	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/executor"
)

// ExitError carries the exit status of an executed command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

type generateFlags struct {
	promptType  string
	model       string
	apiKey      string
	noHistory   bool
	withContext bool
	offline     bool
	copy        bool
	execute     bool
	yes         bool
	timeout     time.Duration
}

func (f *generateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.promptType, "prompt-type", "p", "", "Prompt type: default, advanced, history_aware (default from config)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "OpenAI API key for this invocation")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Do not send shell history as context")
	cmd.Flags().BoolVar(&f.withContext, "with-context", false, "Send recent commands and frequent tools as context")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "Use the built-in keyword rules instead of the API")
	cmd.Flags().BoolVarP(&f.copy, "copy", "c", false, "Copy generated command to clipboard")
	cmd.Flags().BoolVarP(&f.execute, "execute", "x", false, "Run the generated command after confirmation")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Skip the confirmation when used with --execute")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Override request timeout (e.g. 30s)")
}

func (f *generateFlags) overrides() app.GenerateOverrides {
	return app.GenerateOverrides{
		APIKey:     f.apiKey,
		Model:      f.model,
		PromptType: f.promptType,
		Offline:    f.offline,
		Timeout:    f.timeout,
	}
}

func (r *session) runGenerate(cmd *cobra.Command, args []string, f *generateFlags) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		renderWarning(errOut, "Please provide a prompt after 'tf'")
		return nil
	}

	gen, err := r.buildGenerator(cmd, f)
	if err != nil {
		return err
	}

	svc := r.container.QueryService(gen)
	svc.Clipboard = NewClipboard()
	svc.Prompter = r.prompter(cmd)
	svc.Executor = executor.NewLocalExecutor("", cmd.InOrStdin(), out, errOut)

	spin := newActivity(errOut, "Generating command...")
	spin.Start()
	resp, err := svc.Run(ctx, query.Request{
		Query:   q,
		Context: r.container.ContextOptions(f.noHistory, f.withContext),
		Copy:    f.copy,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	for _, warning := range resp.Warnings {
		renderWarning(errOut, "%v", warning)
	}
	fmt.Fprintln(out, resp.Command())
	if resp.Copied {
		renderSuccess(errOut, "Command copied to clipboard")
	}

	if !f.execute {
		return nil
	}
	if resp.Result.Stage != generator.StageNormalized {
		renderWarning(errOut, "not executing: command generation failed")
		return nil
	}
	if !f.yes && !svc.Prompter.Enabled() {
		renderWarning(errOut, "not executing: confirmation needs a terminal, pass --yes to skip it")
		return nil
	}
	result, err := svc.Execute(ctx, resp.Result, f.yes)
	if result.Ran && result.ExitCode != 0 {
		return &ExitError{Code: exitStatus(result.ExitCode)}
	}
	return err
}

// exitStatus keeps a failed command from turning into a success or 255.
func exitStatus(code int) int {
	if code < 1 || code > 255 {
		return 1
	}
	return code
}

// buildGenerator builds the generator, offering the setup wizard when the
// credential is missing and a terminal is attached.
func (r *session) buildGenerator(cmd *cobra.Command, f *generateFlags) (*generator.Generator, error) {
	gen, _, err := r.container.NewGenerator(f.overrides())
	if err == nil {
		return gen, nil
	}
	if !errors.Is(err, domain.ErrMissingCredential) {
		return nil, err
	}

	errOut := cmd.ErrOrStderr()
	if !r.interactive() {
		renderCredentialHint(errOut)
		return nil, err
	}

	titleStyle.Fprintln(errOut, "\nWelcome to Terminal Fellow!")
	fmt.Fprintln(errOut, "Let's set up your configuration...")
	if _, err := r.runSetup(cmd, setup.Options{Shell: os.Getenv("SHELL")}); err != nil {
		return nil, err
	}
	gen, _, err = r.container.NewGenerator(f.overrides())
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			renderCredentialHint(errOut)
		}
		return nil, err
	}
	return gen, nil
}
