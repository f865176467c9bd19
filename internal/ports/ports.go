// Package ports defines the interfaces between the command generation core and
// its adapters.
//
// The application layer (prompt selection, generation, setup and diagnostics)
// depends only on these contracts. Concrete implementations live under
// internal/infrastructure: the JSON configuration file, shell history readers,
// the OpenAI and offline backends, and the terminal front end.
package ports

import (
	"context"
	"time"

	"github.com/terminalfellow/terminalfellow/internal/domain"
)

// ConfigStore persists user settings.
// Implementations read ~/.config/terminalfellow/config.json.
type ConfigStore interface {
	Load(context.Context) (domain.Settings, error)
	Save(context.Context, domain.Settings) error
	Get(ctx context.Context, key string, def string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Path() string
}

// HistoryReader summarizes the user's shell history file.
type HistoryReader interface {
	Analyze(context.Context) (domain.HistoryAnalysis, error)
}

// ContextOptions selects which optional Context entries are collected.
type ContextOptions struct {
	UseHistory bool
	UseContext bool
}

// ContextCollector assembles the per-invocation Context. A non-nil error is a
// warning: the returned Context is still usable.
type ContextCollector interface {
	Collect(context.Context, ContextOptions) (domain.Context, error)
}

// CompletionBackend submits a single rendered prompt to a language model.
// Each call is independent; backends keep no conversation state.
type CompletionBackend interface {
	Name() string
	Complete(context.Context, CompletionRequest) (CompletionResponse, error)
}

// CompletionRequest is one non-streaming completion.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
	Temperature  float32
	// Query is the user's original request, for backends that do not read prompts.
	Query string
}

// CompletionResponse carries the raw model text before normalization.
type CompletionResponse struct {
	Text  string
	Model string
}

// BackendConfig selects and authenticates a backend.
type BackendConfig struct {
	Credential string
	BaseURL    string
	Offline    bool
	Timeout    time.Duration
}

// BackendFactory builds completion backends. The credential is handed to the
// backend client directly; factories must not export it to the process environment.
type BackendFactory interface {
	ForConfig(BackendConfig) (CompletionBackend, error)
}

// CommandExecutor runs a generated command line through the user's shell.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// Clipboard copies generated commands for pasting.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// SetupPrompter asks the interactive setup questions.
type SetupPrompter interface {
	APIKey() (string, error)
	UseHistory(defaultValue bool) (bool, error)
	HistoryFile(defaultPath string) (string, error)
}

// ConfirmationPrompter asks before a generated command is executed.
type ConfirmationPrompter interface {
	ConfirmExecute(command string) (bool, error)
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files, no-op).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
