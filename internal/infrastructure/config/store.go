package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	configapp "github.com/terminalfellow/terminalfellow/internal/application/config"
	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/pkg/filesystem"
	"github.com/terminalfellow/terminalfellow/internal/pkg/logger"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

// FileStore keeps settings in ~/.config/terminalfellow/config.json
// (overridable via TERMINALFELLOW_CONFIG).
type FileStore struct {
	overridePath string
	logger       ports.Logger
}

// NewFileStore builds a new store. An empty path uses the default location.
func NewFileStore(path string, log ports.Logger) *FileStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &FileStore{overridePath: path, logger: log}
}

// Path returns the resolved config file location.
func (s *FileStore) Path() string {
	if s.overridePath != "" {
		return filesystem.ExpandPath(s.overridePath)
	}
	if custom := os.Getenv(domain.EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".config", "terminalfellow", "config.json")
}

// Load implements ports.ConfigStore. A missing file is created with defaults;
// an unreadable one yields defaults without touching the file.
func (s *FileStore) Load(context.Context) (domain.Settings, error) {
	path := s.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultSettings()
			if err := writeSettings(path, cfg); err != nil {
				return domain.Settings{}, err
			}
			return cfg, nil
		}
		return domain.Settings{}, fmt.Errorf("read config: %w", err)
	}

	var cfg domain.Settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("config file is corrupt, using defaults", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return DefaultSettings(), nil
	}
	return hydrateDefaults(cfg), nil
}

// Save implements ports.ConfigStore.
func (s *FileStore) Save(_ context.Context, cfg domain.Settings) error {
	return writeSettings(s.Path(), cfg)
}

// Get returns the value stored under key, or def when the key is absent.
func (s *FileStore) Get(ctx context.Context, key string, def string) (string, error) {
	if _, err := domain.LookupSettingKind(key); err != nil {
		return "", err
	}
	cfg, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	values, err := toMap(cfg)
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok || value == nil {
		return def, nil
	}
	return formatValue(value), nil
}

// Set parses value for key's type, validates the result and saves it. The
// previous file is kept as config.json.bak.
func (s *FileStore) Set(ctx context.Context, key string, value string) error {
	kind, err := domain.LookupSettingKind(key)
	if err != nil {
		return err
	}
	parsed, err := parseValue(kind, value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}
	values, err := toMap(cfg)
	if err != nil {
		return err
	}
	values[key] = parsed

	updated, err := fromMap(values)
	if err != nil {
		return err
	}
	if err := configapp.Validate(updated); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := s.Backup(); err != nil {
		return err
	}
	return s.Save(ctx, updated)
}

// Reset overwrites the file with defaults.
func (s *FileStore) Reset() (domain.Settings, error) {
	cfg := DefaultSettings()
	if err := writeSettings(s.Path(), cfg); err != nil {
		return domain.Settings{}, err
	}
	return cfg, nil
}

// Backup copies the current file next to itself. It returns "" when there is
// nothing to back up.
func (s *FileStore) Backup() (string, error) {
	path := s.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("backup config: %w", err)
	}
	backup := path + ".bak"
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", fmt.Errorf("backup config: %w", err)
	}
	return backup, nil
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		OpenAIAPIKey:      "",
		HistoryFile:       filesystem.ExpandPath(domain.ShellBash.DefaultHistoryFile()),
		DefaultPromptType: "default",
		MaxHistoryItems:   domain.DefaultMaxHistoryItems,
	}
}

func hydrateDefaults(cfg domain.Settings) domain.Settings {
	defaults := DefaultSettings()
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = defaults.HistoryFile
	}
	if cfg.DefaultPromptType == "" {
		cfg.DefaultPromptType = defaults.DefaultPromptType
	}
	if cfg.MaxHistoryItems <= 0 {
		cfg.MaxHistoryItems = defaults.MaxHistoryItems
	}
	return cfg
}

func writeSettings(path string, cfg domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, domain.SecureFilePermissions)
}

func parseValue(kind domain.SettingKind, raw string) (interface{}, error) {
	switch kind {
	case domain.SettingInt:
		var n int
		if err := yaml.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", raw)
		}
		return n, nil
	case domain.SettingBool:
		var b bool
		if err := yaml.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func toMap(cfg domain.Settings) (map[string]interface{}, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return values, nil
}

func fromMap(values map[string]interface{}) (domain.Settings, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}
	var cfg domain.Settings
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to unmarshal to settings: %w", err)
	}
	return cfg, nil
}

var _ ports.ConfigStore = (*FileStore)(nil)
