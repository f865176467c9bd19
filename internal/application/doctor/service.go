package doctor

import (
	"context"
	"fmt"

	"github.com/terminalfellow/terminalfellow/internal/application/prompts"
	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/pkg/filesystem"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// CredentialResolver reports which source supplies the API key.
type CredentialResolver func(stored string) (string, domain.CredentialSource)

// HistoryOpener builds a reader for the configured history file.
type HistoryOpener func(path string, maxItems int) ports.HistoryReader

// Service runs environment diagnostics.
type Service struct {
	ConfigStore       ports.ConfigStore
	ResolveCredential CredentialResolver
	OpenHistory       HistoryOpener
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigStore.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded %s", s.ConfigStore.Path())))

	if prompts.IsKnown(prompts.Kind(cfg.DefaultPromptType)) {
		checks = append(checks, ok("Prompt type", cfg.DefaultPromptType))
	} else {
		checks = append(checks, warn("Prompt type", fmt.Sprintf("unknown %q, the default prompt will be used", cfg.DefaultPromptType)))
	}

	checks = append(checks, s.credentialCheck(cfg))
	checks = append(checks, s.historyCheck(ctx, cfg))

	if cfg.BaseURL != "" {
		checks = append(checks, ok("Endpoint", cfg.BaseURL))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) credentialCheck(cfg domain.Settings) domain.HealthCheck {
	if cfg.OfflineMode {
		return warn("API key", "offline mode enabled, commands come from keyword rules")
	}
	if s.ResolveCredential == nil {
		return warn("API key", "credential resolver not initialized")
	}
	if _, source := s.ResolveCredential(cfg.OpenAIAPIKey); source != domain.CredentialNone {
		return ok("API key", fmt.Sprintf("found in %s", source))
	}
	return fail("API key", fmt.Sprintf("%s missing, run `tf setup` or set %s", domain.KeyOpenAIAPIKey, domain.EnvAPIKey))
}

func (s *Service) historyCheck(ctx context.Context, cfg domain.Settings) domain.HealthCheck {
	if !cfg.HistoryEnabled() && !cfg.UseContext {
		return ok("History", "disabled")
	}
	if !filesystem.Exists(cfg.HistoryFile) {
		return warn("History", fmt.Sprintf("%s does not exist", cfg.HistoryFile))
	}
	if s.OpenHistory == nil {
		return warn("History", "history reader not initialized")
	}
	analysis, err := s.OpenHistory(cfg.HistoryFile, cfg.MaxHistoryItems).Analyze(ctx)
	if err != nil {
		return warn("History", err.Error())
	}
	return ok("History", fmt.Sprintf("%d entries in %s", analysis.Count, cfg.HistoryFile))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
