package ai

import (
	"os"
	"strings"

	"github.com/terminalfellow/terminalfellow/internal/domain"
)

// ResolveCredential picks the API key from the explicit override, then
// OPENAI_API_KEY, then the stored configuration value.
func ResolveCredential(override, stored string) (string, domain.CredentialSource) {
	if key := strings.TrimSpace(override); key != "" {
		return key, domain.CredentialFlag
	}
	if key := strings.TrimSpace(os.Getenv(domain.EnvAPIKey)); key != "" {
		return key, domain.CredentialEnvironment
	}
	if key := strings.TrimSpace(stored); key != "" {
		return key, domain.CredentialConfig
	}
	return "", domain.CredentialNone
}

// MaskKey shortens a key to its first and last four characters.
func MaskKey(key string) string {
	if key == "" {
		return "Not set"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}
