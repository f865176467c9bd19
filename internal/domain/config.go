package domain

import (
	"fmt"
	"sort"
)

// Settings mirrors ~/.config/terminalfellow/config.json.
//
// The four keys written by a fresh install (openai_api_key, history_file,
// default_prompt_type, max_history_items) are always serialized; the rest are
// omitted until the user sets them so that Get falls back to the caller's default.
type Settings struct {
	OpenAIAPIKey      string `json:"openai_api_key" yaml:"openai_api_key"`
	HistoryFile       string `json:"history_file" yaml:"history_file"`
	DefaultPromptType string `json:"default_prompt_type" yaml:"default_prompt_type"`
	MaxHistoryItems   int    `json:"max_history_items" yaml:"max_history_items"`
	UseHistory        *bool  `json:"use_history,omitempty" yaml:"use_history,omitempty"`
	UseContext        bool   `json:"use_context,omitempty" yaml:"use_context,omitempty"`
	Model             string `json:"model,omitempty" yaml:"model,omitempty"`
	SystemPrompt      string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
	BaseURL           string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	OfflineMode       bool   `json:"offline_mode,omitempty" yaml:"offline_mode,omitempty"`
	TimeoutSeconds    int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// HistoryEnabled reports whether shell history should be fed into prompts.
// An unset use_history means the user never opted in.
func (s Settings) HistoryEnabled() bool {
	return s.UseHistory != nil && *s.UseHistory
}

// HistoryDecided reports whether the user has answered the use_history question.
func (s Settings) HistoryDecided() bool {
	return s.UseHistory != nil
}

// SetUseHistory stores an explicit use_history answer.
func (s *Settings) SetUseHistory(enabled bool) {
	s.UseHistory = &enabled
}

// SettingKind is the value type of a configuration key.
type SettingKind string

const (
	SettingString SettingKind = "string"
	SettingInt    SettingKind = "int"
	SettingBool   SettingKind = "bool"
)

// Configuration keys.
const (
	KeyOpenAIAPIKey      = "openai_api_key"
	KeyHistoryFile       = "history_file"
	KeyDefaultPromptType = "default_prompt_type"
	KeyMaxHistoryItems   = "max_history_items"
	KeyUseHistory        = "use_history"
	KeyUseContext        = "use_context"
	KeyModel             = "model"
	KeySystemPrompt      = "system_prompt"
	KeyBaseURL           = "base_url"
	KeyOfflineMode       = "offline_mode"
	KeyTimeoutSeconds    = "timeout_seconds"
)

var settingKinds = map[string]SettingKind{
	KeyOpenAIAPIKey:      SettingString,
	KeyHistoryFile:       SettingString,
	KeyDefaultPromptType: SettingString,
	KeyMaxHistoryItems:   SettingInt,
	KeyUseHistory:        SettingBool,
	KeyUseContext:        SettingBool,
	KeyModel:             SettingString,
	KeySystemPrompt:      SettingString,
	KeyBaseURL:           SettingString,
	KeyOfflineMode:       SettingBool,
	KeyTimeoutSeconds:    SettingInt,
}

// LookupSettingKind returns the value type for key.
func LookupSettingKind(key string) (SettingKind, error) {
	kind, ok := settingKinds[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return kind, nil
}

// SettingKeys lists every known configuration key in sorted order.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for key := range settingKinds {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
