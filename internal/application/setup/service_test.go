package setup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminalfellow/terminalfellow/internal/domain"
)

type memoryStore struct {
	cfg   domain.Settings
	saves int
}

func (m *memoryStore) Load(context.Context) (domain.Settings, error) { return m.cfg, nil }
func (m *memoryStore) Save(_ context.Context, cfg domain.Settings) error {
	m.cfg = cfg
	m.saves++
	return nil
}
func (m *memoryStore) Get(context.Context, string, string) (string, error) { return "", nil }
func (m *memoryStore) Set(context.Context, string, string) error { return nil }
func (m *memoryStore) Path() string { return "" }

type scriptedPrompter struct {
	key         string
	useHistory  bool
	historyFile string

	askedKey      bool
	askedHistory  bool
	suggestedPath string
}

func (p *scriptedPrompter) APIKey() (string, error) {
	p.askedKey = true
	return p.key, nil
}

func (p *scriptedPrompter) UseHistory(bool) (bool, error) {
	p.askedHistory = true
	return p.useHistory, nil
}

func (p *scriptedPrompter) HistoryFile(defaultPath string) (string, error) {
	p.suggestedPath = defaultPath
	return p.historyFile, nil
}

func TestSetupFirstRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".zsh_history"), []byte("ls\n"), 0o600))

	store := &memoryStore{cfg: domain.Settings{HistoryFile: filepath.Join(home, ".bash_history")}}
	prompter := &scriptedPrompter{key: " sk-new ", useHistory: true}

	res, err := (&Service{ConfigStore: store, Prompter: prompter}).Run(context.Background(), Options{Shell: "/bin/zsh"})
	require.NoError(t, err)

	assert.True(t, res.APIKeySaved)
	assert.True(t, res.UseHistory)
	assert.Equal(t, "~/.zsh_history", prompter.suggestedPath)
	assert.Equal(t, filepath.Join(home, ".zsh_history"), res.HistoryFile)
	assert.False(t, res.HistoryFileMissing)

	assert.Equal(t, "sk-new", store.cfg.OpenAIAPIKey)
	assert.True(t, store.cfg.HistoryEnabled())
	assert.Equal(t, filepath.Join(home, ".zsh_history"), store.cfg.HistoryFile)
}

func TestSetupSkipsAnsweredQuestions(t *testing.T) {
	cfg := domain.Settings{OpenAIAPIKey: "sk-old"}
	cfg.SetUseHistory(false)
	store := &memoryStore{cfg: cfg}
	prompter := &scriptedPrompter{}

	res, err := (&Service{ConfigStore: store, Prompter: prompter}).Run(context.Background(), Options{ExistingCredential: "sk-old"})
	require.NoError(t, err)

	assert.False(t, prompter.askedKey)
	assert.False(t, prompter.askedHistory)
	assert.False(t, res.APIKeySaved)
	assert.Zero(t, store.saves)
}

func TestSetupEmptyKeyCancels(t *testing.T) {
	store := &memoryStore{}
	_, err := (&Service{ConfigStore: store, Prompter: &scriptedPrompter{key: "   "}}).Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.Zero(t, store.saves)
}

func TestSetupDeclinedHistory(t *testing.T) {
	store := &memoryStore{}
	prompter := &scriptedPrompter{key: "sk", useHistory: false}

	res, err := (&Service{ConfigStore: store, Prompter: prompter}).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.False(t, res.UseHistory)
	assert.True(t, store.cfg.HistoryDecided())
	assert.False(t, store.cfg.HistoryEnabled())
	assert.Empty(t, prompter.suggestedPath, "history path is only asked when history is enabled")
}

func TestSetupWarnsAboutMissingHistoryFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	prompter := &scriptedPrompter{key: "sk", useHistory: true, historyFile: "~/nope_history"}

	res, err := (&Service{ConfigStore: &memoryStore{}, Prompter: prompter}).Run(context.Background(), Options{Shell: "/usr/bin/fish"})
	require.NoError(t, err)

	assert.Equal(t, "~/.local/share/fish/fish_history", prompter.suggestedPath)
	assert.Equal(t, filepath.Join(home, "nope_history"), res.HistoryFile)
	assert.True(t, res.HistoryFileMissing)
}

func TestDefaultHistoryPath(t *testing.T) {
	assert.Equal(t, "~/.zsh_history", DefaultHistoryPath("/bin/zsh"))
	assert.Equal(t, "~/.local/share/fish/fish_history", DefaultHistoryPath("/opt/homebrew/bin/fish"))
	assert.Equal(t, "~/.bash_history", DefaultHistoryPath("/bin/sh"))
}
