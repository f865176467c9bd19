package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

type stubStore struct {
	cfg domain.Settings
	err error
}

func (s *stubStore) Load(context.Context) (domain.Settings, error) { return s.cfg, s.err }
func (s *stubStore) Save(context.Context, domain.Settings) error { return nil }
func (s *stubStore) Get(context.Context, string, string) (string, error) { return "", nil }
func (s *stubStore) Set(context.Context, string, string) error { return nil }
func (s *stubStore) Path() string { return "/tmp/config.json" }

type stubHistory struct {
	count int
	err   error
}

func (h stubHistory) Analyze(context.Context) (domain.HistoryAnalysis, error) {
	return domain.HistoryAnalysis{Count: h.count}, h.err
}

func resolver(source domain.CredentialSource) CredentialResolver {
	return func(string) (string, domain.CredentialSource) {
		if source == domain.CredentialNone {
			return "", source
		}
		return "sk", source
	}
}

func findCheck(t *testing.T, report domain.HealthReport, name string) domain.HealthCheck {
	t.Helper()
	for _, check := range report.Checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("check %q not found in %+v", name, report.Checks)
	return domain.HealthCheck{}
}

func TestDoctorHealthySetup(t *testing.T) {
	historyFile := filepath.Join(t.TempDir(), ".bash_history")
	require.NoError(t, os.WriteFile(historyFile, []byte("ls\n"), 0o600))

	cfg := domain.Settings{DefaultPromptType: "default", HistoryFile: historyFile, MaxHistoryItems: 10}
	cfg.SetUseHistory(true)

	svc := &Service{
		ConfigStore:       &stubStore{cfg: cfg},
		ResolveCredential: resolver(domain.CredentialEnvironment),
		OpenHistory: func(path string, maxItems int) ports.HistoryReader {
			assert.Equal(t, historyFile, path)
			return stubHistory{count: 42}
		},
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Healthy())

	assert.Equal(t, domain.HealthOK, findCheck(t, report, "Config file").Status)
	apiKey := findCheck(t, report, "API key")
	assert.Equal(t, domain.HealthOK, apiKey.Status)
	assert.Contains(t, apiKey.Details, "environment")
	assert.Contains(t, findCheck(t, report, "History").Details, "42 entries")
}

func TestDoctorMissingCredentialFails(t *testing.T) {
	svc := &Service{
		ConfigStore:       &stubStore{cfg: domain.Settings{DefaultPromptType: "default"}},
		ResolveCredential: resolver(domain.CredentialNone),
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Healthy())
	assert.Equal(t, domain.HealthError, findCheck(t, report, "API key").Status)
	assert.Equal(t, "disabled", findCheck(t, report, "History").Details)
}

func TestDoctorWarnings(t *testing.T) {
	cfg := domain.Settings{
		DefaultPromptType: "fancy",
		HistoryFile:       filepath.Join(t.TempDir(), "missing"),
		OfflineMode:       true,
	}
	cfg.SetUseHistory(true)

	svc := &Service{ConfigStore: &stubStore{cfg: cfg}, ResolveCredential: resolver(domain.CredentialNone)}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Healthy(), "warnings do not fail the report")
	assert.Equal(t, domain.HealthWarn, findCheck(t, report, "Prompt type").Status)
	assert.Equal(t, domain.HealthWarn, findCheck(t, report, "API key").Status)
	assert.Contains(t, findCheck(t, report, "History").Details, "does not exist")
}

func TestDoctorConfigLoadFailure(t *testing.T) {
	svc := &Service{ConfigStore: &stubStore{err: errors.New("permission denied")}}

	report, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, domain.HealthError, report.Checks[0].Status)
}
