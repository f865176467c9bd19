package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for the config file, which may hold an API key (rw-------)
	SecureFilePermissions = 0o600
)

// Environment variables
const (
	// EnvAPIKey is read before the configuration file when resolving the credential
	EnvAPIKey = "OPENAI_API_KEY"
	// EnvConfigPath overrides the configuration file location
	EnvConfigPath = "TERMINALFELLOW_CONFIG"
	// EnvDebug enables verbose logging when set to 1 or true
	EnvDebug = "TF_DEBUG"
)

// Generation defaults
const (
	// DefaultModel is used when neither the flag nor the config names a model
	DefaultModel = "gpt-3.5-turbo"
	// DefaultTemperature keeps command output close to deterministic
	DefaultTemperature float32 = 0.1
	// DefaultHTTPClientTimeout is the timeout for model backend requests
	DefaultHTTPClientTimeout = 60 * time.Second
)

// History constants
const (
	// DefaultMaxHistoryItems is how many recent history lines are kept for prompts
	DefaultMaxHistoryItems = 10
	// CommonCommandsLimit is how many ranked command names an analysis reports
	CommonCommandsLimit = 10
	// ContextRecentLimit is how many recent commands go into the with_context prompt
	ContextRecentLimit = 5
	// ContextToolsLimit is how many frequent tools go into the with_context prompt
	ContextToolsLimit = 5
)
