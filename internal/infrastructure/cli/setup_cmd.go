package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/terminalfellow/terminalfellow/internal/application/setup"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/ai"
)

func (r *session) newSetupCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Run the interactive configuration wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !r.interactive() {
				renderError(cmd.ErrOrStderr(), "setup needs an interactive terminal")
				renderCredentialHint(cmd.ErrOrStderr())
				return nil
			}
			existing, _ := ai.ResolveCredential("", r.container.Settings.OpenAIAPIKey)
			_, err := r.runSetup(cmd, setup.Options{
				ExistingCredential: existing,
				Shell:              os.Getenv("SHELL"),
				Force:              force,
			})
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Ask every question again")
	return cmd
}

// runSetup runs the wizard and reloads the container settings.
func (r *session) runSetup(cmd *cobra.Command, opts setup.Options) (setup.Result, error) {
	errOut := cmd.ErrOrStderr()

	svc := *r.container.SetupService
	svc.Prompter = r.prompter(cmd)
	res, err := svc.Run(cmd.Context(), opts)
	if err != nil {
		if errors.Is(err, setup.ErrNoAPIKey) {
			renderError(errOut, "No API key provided. Configuration cancelled.")
		}
		return res, err
	}

	if res.APIKeySaved {
		renderSuccess(errOut, "API key saved successfully!")
	}
	if res.HistoryFileMissing {
		renderWarning(errOut, "%s does not exist. Please check the path.", res.HistoryFile)
	}
	if err := r.container.Reload(cmd.Context()); err != nil {
		return res, err
	}
	renderSuccess(errOut, "\nConfiguration complete! You can now use Terminal Fellow.\n")
	return res, nil
}
