package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/terminalfellow/terminalfellow/internal/application/prompts"
	"github.com/terminalfellow/terminalfellow/internal/domain"
)

// Validate ensures settings are consistent before they are saved.
func Validate(cfg domain.Settings) error {
	if cfg.MaxHistoryItems < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", domain.KeyMaxHistoryItems, cfg.MaxHistoryItems)
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", domain.KeyTimeoutSeconds, cfg.TimeoutSeconds)
	}
	if err := validatePromptType(cfg.DefaultPromptType); err != nil {
		return err
	}
	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return err
	}
	return nil
}

func validatePromptType(kind string) error {
	if kind == "" || prompts.IsKnown(prompts.Kind(kind)) {
		return nil
	}
	names := make([]string, 0, len(prompts.Kinds()))
	for _, k := range prompts.Kinds() {
		names = append(names, string(k))
	}
	return fmt.Errorf("%s must be one of %s, got %s", domain.KeyDefaultPromptType, strings.Join(names, "|"), kind)
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s invalid: %w", domain.KeyBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", domain.KeyBaseURL, raw)
	}
	return nil
}
