package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/terminalfellow/terminalfellow/internal/application/doctor"
	"github.com/terminalfellow/terminalfellow/internal/application/generator"
	"github.com/terminalfellow/terminalfellow/internal/application/prompts"
	"github.com/terminalfellow/terminalfellow/internal/application/query"
	"github.com/terminalfellow/terminalfellow/internal/application/setup"
	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/ai"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/config"
	contextcollector "github.com/terminalfellow/terminalfellow/internal/infrastructure/context"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/executor"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/history"
	"github.com/terminalfellow/terminalfellow/internal/pkg/logger"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// Options configures BuildContainer.
type Options struct {
	Verbose bool
	// ConfigPath overrides TERMINALFELLOW_CONFIG and the default location.
	ConfigPath string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Settings      domain.Settings
	ConfigStore   *config.FileStore
	Logger        *logger.ZapLogger
	Factory       *ai.Factory
	Executor      *executor.LocalExecutor
	DoctorService *doctor.Service
	// SetupService has no Prompter until the front end attaches one.
	SetupService *setup.Service
}

// GenerateOverrides are the per-invocation flags that take precedence over
// stored settings.
type GenerateOverrides struct {
	APIKey     string
	Model      string
	PromptType string
	Offline    bool
	Timeout    time.Duration
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log := logger.New(opts.Verbose)
	store := config.NewFileStore(opts.ConfigPath, log)
	settings, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	c := &Container{
		Settings:    settings,
		ConfigStore: store,
		Logger:      log,
		Factory:     ai.NewFactory(),
		Executor:    executor.NewLocalExecutor("", os.Stdin, os.Stdout, os.Stderr),
	}
	c.DoctorService = &doctor.Service{
		ConfigStore: store,
		ResolveCredential: func(stored string) (string, domain.CredentialSource) {
			return ai.ResolveCredential("", stored)
		},
		OpenHistory: c.OpenHistory,
	}
	c.SetupService = &setup.Service{ConfigStore: store}
	return c, nil
}

// Reload re-reads the settings, e.g. after the setup wizard saved answers.
func (c *Container) Reload(ctx context.Context) error {
	settings, err := c.ConfigStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	c.Settings = settings
	return nil
}

// GeneratorConfig resolves the effective generator configuration. Flags win
// over settings, settings win over built-in defaults.
func (c *Container) GeneratorConfig(o GenerateOverrides) (generator.Config, domain.CredentialSource) {
	cfg := generator.DefaultConfig()
	cfg.Model = firstNonEmpty(o.Model, c.Settings.Model, domain.DefaultModel)
	cfg.PromptVariant = prompts.Kind(firstNonEmpty(o.PromptType, c.Settings.DefaultPromptType, string(prompts.KindDefault)))
	cfg.SystemPrompt = c.Settings.SystemPrompt
	cfg.BaseURL = c.Settings.BaseURL
	cfg.Offline = o.Offline || c.Settings.OfflineMode

	switch {
	case o.Timeout > 0:
		cfg.Timeout = o.Timeout
	case c.Settings.TimeoutSeconds > 0:
		cfg.Timeout = time.Duration(c.Settings.TimeoutSeconds) * time.Second
	}

	credential, source := ai.ResolveCredential(o.APIKey, c.Settings.OpenAIAPIKey)
	cfg.Credential = credential
	return cfg, source
}

// NewGenerator builds a generator for one invocation. It returns
// domain.ErrMissingCredential when no key is available and offline mode is off.
func (c *Container) NewGenerator(o GenerateOverrides) (*generator.Generator, domain.CredentialSource, error) {
	cfg, source := c.GeneratorConfig(o)
	gen, err := generator.New(cfg, c.Factory, c.Logger)
	if err != nil {
		return nil, source, err
	}
	c.Logger.Debug("generator ready", map[string]interface{}{
		"model":             cfg.Model,
		"prompt_type":       string(cfg.PromptVariant),
		"credential_source": string(source),
		"offline":           cfg.Offline,
	})
	return gen, source, nil
}

// ContextOptions combines stored preferences with the per-invocation flags.
func (c *Container) ContextOptions(noHistory, withContext bool) ports.ContextOptions {
	return ports.ContextOptions{
		UseHistory: c.Settings.HistoryEnabled() && !noHistory,
		UseContext: c.Settings.UseContext || withContext,
	}
}

// OpenHistory returns a reader for path.
func (c *Container) OpenHistory(path string, maxItems int) ports.HistoryReader {
	return history.NewReader(path, maxItems, c.Logger)
}

// HistoryReader returns the configured history reader, or nil when no
// history file is configured.
func (c *Container) HistoryReader() ports.HistoryReader {
	if strings.TrimSpace(c.Settings.HistoryFile) == "" {
		return nil
	}
	return c.OpenHistory(c.Settings.HistoryFile, c.Settings.MaxHistoryItems)
}

// QueryService assembles the orchestration service around gen.
func (c *Container) QueryService(gen query.CommandGenerator) *query.Service {
	return &query.Service{
		Collector: contextcollector.NewCollector(c.HistoryReader(), c.Logger),
		Generator: gen,
		Executor:  c.Executor,
		Logger:    c.Logger,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
