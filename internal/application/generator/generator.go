// Package generator turns a natural-language query plus optional context into
// a single shell command line.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/terminalfellow/terminalfellow/internal/application/prompts"
	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/pkg/logger"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// Stage is the progress of one generation call.
type Stage string

const (
	StageIdle             Stage = "idle"
	StageTemplateSelected Stage = "template_selected"
	StageRendered         Stage = "rendered"
	StageBackendInvoked   Stage = "backend_invoked"
	StageNormalized       Stage = "normalized"
	StageDiagnostic       Stage = "diagnostic_fallback"
)

// Config is the immutable generator configuration.
type Config struct {
	Model         string
	PromptVariant prompts.Kind
	// SystemPrompt replaces the catalog system prompt when non-empty.
	SystemPrompt string
	Temperature  float32
	Credential   string
	BaseURL      string
	Offline      bool
	Timeout      time.Duration
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Model:         domain.DefaultModel,
		PromptVariant: prompts.KindDefault,
		Temperature:   domain.DefaultTemperature,
		Timeout:       domain.DefaultHTTPClientTimeout,
	}
}

// Result describes one generation call. Command is never empty.
type Result struct {
	RequestID string
	Command   string
	Kind      prompts.Kind
	Prompt    string
	Backend   string
	Stage     Stage
	// Err is set when Command is a diagnostic.
	Err error
}

// Generator selects a prompt, calls the backend and normalizes its reply.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	cfg          Config
	systemPrompt string
	backend      ports.CompletionBackend
	logger       ports.Logger
}

// New builds a Generator. It fails with domain.ErrMissingCredential when no
// credential is configured and offline mode is off.
func New(cfg Config, factory ports.BackendFactory, log ports.Logger) (*Generator, error) {
	if factory == nil {
		return nil, errors.New("generator: backend factory is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if !cfg.Offline && strings.TrimSpace(cfg.Credential) == "" {
		return nil, domain.ErrMissingCredential
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultModel
	}
	if cfg.PromptVariant == "" {
		cfg.PromptVariant = prompts.KindDefault
	}

	backend, err := factory.ForConfig(ports.BackendConfig{
		Credential: cfg.Credential,
		BaseURL:    cfg.BaseURL,
		Offline:    cfg.Offline,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init backend: %w", err)
	}

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = prompts.SystemPrompt(cfg.PromptVariant)
	}

	return &Generator{
		cfg:          cfg,
		systemPrompt: systemPrompt,
		backend:      backend,
		logger:       log,
	}, nil
}

// Config returns the configuration the generator was built with.
func (g *Generator) Config() Config {
	return g.cfg
}

// SystemPrompt returns the system prompt sent with every request.
func (g *Generator) SystemPrompt() string {
	return g.systemPrompt
}

// SelectKind picks the command template for c. Non-empty history wins over
// the full cwd/recent_commands/frequent_tools triple, which wins over the
// configured default.
func (g *Generator) SelectKind(c domain.Context) prompts.Kind {
	if history, ok := c.History(); ok && history != "" {
		return prompts.KindWithHistory
	}
	if c.HasAll(domain.ContextCWD, domain.ContextRecentCommands, domain.ContextFrequentTools) {
		return prompts.KindWithContext
	}
	return g.cfg.PromptVariant
}

// Generate returns a command for query. Failures are reported as a
// diagnostic echo command rather than an error.
func (g *Generator) Generate(ctx context.Context, query string, c domain.Context) string {
	return g.Run(ctx, query, c).Command
}

// Run generates a command and reports how far the call progressed.
func (g *Generator) Run(ctx context.Context, query string, c domain.Context) (res Result) {
	if ctx == nil {
		ctx = context.Background()
	}
	res = Result{RequestID: uuid.NewString(), Stage: StageIdle}

	defer func() {
		if r := recover(); r != nil {
			res = g.fallback(res, &domain.BackendError{Backend: res.Backend, Err: fmt.Errorf("panic: %v", r)})
		}
		g.logResult(res)
	}()

	res.Backend = g.backend.Name()
	res.Kind = g.SelectKind(c)
	res.Stage = StageTemplateSelected

	vars := c.Variables()
	vars[prompts.SlotQuery] = query
	prompt, err := prompts.FormatCommandPrompt(res.Kind, vars)
	if err != nil {
		return g.fallback(res, err)
	}
	res.Prompt = prompt
	res.Stage = StageRendered

	resp, err := g.backend.Complete(ctx, ports.CompletionRequest{
		Model:        g.cfg.Model,
		SystemPrompt: g.systemPrompt,
		Prompt:       prompt,
		Temperature:  g.cfg.Temperature,
		Query:        query,
	})
	res.Stage = StageBackendInvoked
	if err != nil {
		if !errors.Is(err, domain.ErrBackendFailure) {
			err = &domain.BackendError{Backend: res.Backend, Err: err}
		}
		return g.fallback(res, err)
	}

	command := Normalize(resp.Text)
	if command == "" {
		return g.fallback(res, &domain.BackendError{Backend: res.Backend, Err: domain.ErrEmptyResponse})
	}
	res.Command = command
	res.Stage = StageNormalized
	return res
}

func (g *Generator) fallback(res Result, err error) Result {
	res.Err = err
	res.Command = DiagnosticCommand(err)
	res.Stage = StageDiagnostic
	return res
}

func (g *Generator) logResult(res Result) {
	fields := map[string]interface{}{
		"request_id": res.RequestID,
		"kind":       string(res.Kind),
		"backend":    res.Backend,
		"model":      g.cfg.Model,
		"stage":      string(res.Stage),
	}
	if g.cfg.Offline {
		fields["offline"] = true
	}
	if res.Err != nil {
		g.logger.Error("command generation failed", res.Err, fields)
		return
	}
	g.logger.Debug("command generated", fields)
}
