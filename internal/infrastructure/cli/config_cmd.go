package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/ai"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/config"
	"github.com/terminalfellow/terminalfellow/internal/pkg/filesystem"
)

const msgNoDifferencesFromDefault = "No differences from default configuration."

func (r *session) newConfigCommand() *cobra.Command {
	var (
		apiKey      string
		historyFile string
		useHistory  bool
		show        bool
	)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configure Terminal Fellow settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			store := r.container.ConfigStore
			changed := false

			if apiKey != "" {
				if err := store.Set(ctx, domain.KeyOpenAIAPIKey, apiKey); err != nil {
					return err
				}
				renderSuccess(out, "OpenAI API key set successfully")
				changed = true
			}

			if historyFile != "" {
				path := filesystem.ExpandPath(historyFile)
				if !filesystem.Exists(path) {
					renderWarning(errOut, "History file %s does not exist", path)
				}
				if err := store.Set(ctx, domain.KeyHistoryFile, path); err != nil {
					return err
				}
				renderSuccess(out, "History file set to: %s", path)
				changed = true
			}

			if cmd.Flags().Changed("use-history") {
				if err := store.Set(ctx, domain.KeyUseHistory, strconv.FormatBool(useHistory)); err != nil {
					return err
				}
				if useHistory {
					renderSuccess(out, "Command history usage enabled")
				} else {
					renderSuccess(out, "Command history usage disabled")
				}
				changed = true
			}

			if show || !changed {
				cfg, err := store.Load(ctx)
				if err != nil {
					return err
				}
				key, _ := ai.ResolveCredential("", cfg.OpenAIAPIKey)
				renderSettingsSummary(out, cfg, key, store.Path())
			}
			return nil
		},
	}
	configCmd.Flags().StringVar(&apiKey, "openai-api-key", "", "Set OpenAI API key")
	configCmd.Flags().StringVar(&historyFile, "history-file", "", "Set the path to the history file")
	configCmd.Flags().BoolVar(&useHistory, "use-history", false, "Enable or disable command history usage")
	configCmd.Flags().BoolVar(&show, "show", false, "Show current configuration")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show full configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.container.ConfigStore.Load(cmd.Context())
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), redact(cfg))
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  "Get a configuration value. Keys: " + strings.Join(domain.SettingKeys(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := r.container.ConfigStore.Get(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := strings.Join(args[1:], " ")
			if err := r.container.ConfigStore.Set(cmd.Context(), key, value); err != nil {
				return err
			}
			renderSuccess(cmd.OutOrStdout(), "%s updated", key)
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := r.container.ConfigStore
			backup, err := store.Backup()
			if err != nil {
				return err
			}
			cfg, err := store.Reset()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration reset at %s\n", store.Path())
			if backup != "" {
				fmt.Fprintf(out, "Previous configuration saved to %s\n", backup)
			}
			return writeYAML(out, redact(cfg))
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "Show differences from the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := r.container.ConfigStore.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load current configuration: %w", err)
			}
			diff := cmp.Diff(redact(config.DefaultSettings()), redact(current))
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), msgNoDifferencesFromDefault)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), diff)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, getCmd, setCmd, resetCmd, diffCmd)
	return configCmd
}

// redact masks the API key before settings are printed.
func redact(cfg domain.Settings) domain.Settings {
	if cfg.OpenAIAPIKey != "" {
		cfg.OpenAIAPIKey = ai.MaskKey(cfg.OpenAIAPIKey)
	}
	return cfg
}

func writeYAML(out io.Writer, value interface{}) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
