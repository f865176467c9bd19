package ai

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

type Factory struct {
	httpClient *http.Client
}

func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
}

// ForConfig returns the offline keyword backend when requested and the
// OpenAI backend otherwise.
func (f *Factory) ForConfig(cfg ports.BackendConfig) (ports.CompletionBackend, error) {
	if cfg.Offline {
		return newHeuristicBackend(), nil
	}
	if strings.TrimSpace(cfg.Credential) == "" {
		return nil, domain.ErrMissingCredential
	}
	if cfg.BaseURL != "" {
		if err := validateBaseURL(cfg.BaseURL); err != nil {
			return nil, err
		}
	}

	client := f.httpClient
	if cfg.Timeout > 0 {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return newOpenAIBackend(cfg.Credential, strings.TrimRight(cfg.BaseURL, "/"), client), nil
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", raw)
	}
	return nil
}

var _ ports.BackendFactory = (*Factory)(nil)
