package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terminalfellow/terminalfellow/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	// ConfigPath overrides the configuration file location.
	ConfigPath string
	// Interactive reports whether prompts can be shown. Defaults to a TTY
	// check on stdin.
	Interactive func() bool
}

// session is the state shared by every command of one invocation. The
// container is built after flag parsing so that --debug reaches the logger.
type session struct {
	opts      Options
	debug     bool
	flags     *generateFlags
	container *app.Container
}

func (r *session) load(cmd *cobra.Command) error {
	if r.container != nil {
		return nil
	}
	container, err := app.BuildContainer(cmd.Context(), app.Options{
		Verbose:    r.opts.Verbose || r.debug,
		ConfigPath: r.opts.ConfigPath,
	})
	if err != nil {
		return err
	}
	r.container = container
	return nil
}

func (r *session) interactive() bool {
	if r.opts.Interactive != nil {
		return r.opts.Interactive()
	}
	return stdinIsTerminal()
}

func (r *session) prompter(cmd *cobra.Command) *Prompter {
	return NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr(), r.interactive)
}

// NewRootCmd wires the cobra root command. Arguments that do not name a
// subcommand are treated as the natural-language query.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	flags := &generateFlags{}
	r := &session{opts: opts, flags: flags}

	root := &cobra.Command{
		Use:   "tf [query]",
		Short: "Terminal Fellow - natural language to shell commands",
		Long: "Terminal Fellow turns a natural-language request into a single shell command.\n" +
			"Example: tf list all files modified in the last day\n\n" +
			"Flags go before the request; everything after the first word is part of it.\n" +
			"Use 'tf query ...' when the request starts with a subcommand name.",
		Args:             cobra.ArbitraryArgs,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if r.container != nil {
				_ = r.container.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return r.runGenerate(cmd, args, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&r.debug, "debug", false, "Enable verbose logging on stderr")
	flags.bind(root)
	root.Flags().SetInterspersed(false)

	root.AddCommand(r.newQueryCommand())
	root.AddCommand(r.newConfigCommand())
	root.AddCommand(r.withQueryFallback(r.newSetupCommand()))
	root.AddCommand(r.withQueryFallback(r.newHistoryCommand()))
	root.AddCommand(r.withQueryFallback(r.newDoctorCommand()))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func (r *session) newQueryCommand() *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "query [natural language]",
		Short: "Generate a command from natural language",
		Long:  "Generate a command even when the first word would otherwise name a subcommand.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runGenerate(cmd, args, flags)
		},
	}
	flags.bind(cmd)
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// withQueryFallback treats extra words after a subcommand as a request, so
// "tf history of ssh commands" generates a command instead of failing.
func (r *session) withQueryFallback(cmd *cobra.Command) *cobra.Command {
	run := cmd.RunE
	cmd.Args = cobra.ArbitraryArgs
	cmd.Flags().SetInterspersed(false)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return run(cmd, args)
		}
		return r.runGenerate(cmd, append([]string{cmd.Name()}, args...), r.flags)
	}
	return cmd
}
