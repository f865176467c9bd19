package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminalfellow/terminalfellow/internal/domain"
)

func writeHistory(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadMissingFile(t *testing.T) {
	reader := NewReader(filepath.Join(t.TempDir(), "nope"), 10, nil)

	entries, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	analysis, err := reader.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, analysis.Count)
	assert.Empty(t, analysis.MostRecent)
	assert.Empty(t, analysis.CommonCommands)
}

func TestReadAndAnalyzePlainHistory(t *testing.T) {
	path := writeHistory(t, ".bash_history",
		"ls -la\ncd /home\npwd\n\n   \ngit status\ngit add .\ngit commit -m 'update'\n"+
			"python script.py\npython script.py\npython script.py\n")
	reader := NewReader(path, 10, nil)

	entries, err := reader.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 9)
	assert.Equal(t, "ls -la", entries[0])

	analysis, err := reader.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, analysis.Count)
	assert.Contains(t, analysis.MostRecent, "git commit -m 'update'")
	assert.Equal(t, []domain.CommandCount{
		{Name: "git", Count: 3},
		{Name: "python", Count: 3},
		{Name: "ls", Count: 1},
		{Name: "cd", Count: 1},
		{Name: "pwd", Count: 1},
	}, analysis.CommonCommands)
}

func TestAnalyzeKeepsNewestEntries(t *testing.T) {
	path := writeHistory(t, "history", "cmd1\ncmd2\ncmd3\ncmd4\ncmd5\ncmd6\ncmd7\ncmd8\ncmd9\ncmd10\n")

	analysis, err := NewReader(path, 5, nil).Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd6", "cmd7", "cmd8", "cmd9", "cmd10"}, analysis.MostRecent)
	assert.Equal(t, 10, analysis.Count)
}

func TestRankCommandsLimit(t *testing.T) {
	var entries []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		entries = append(entries, name+" --flag")
	}
	entries = append(entries, "l", "l")

	ranked := rankCommands(entries, domain.CommonCommandsLimit)
	require.Len(t, ranked, 10)
	assert.Equal(t, domain.CommandCount{Name: "l", Count: 3}, ranked[0])
	assert.Equal(t, "a", ranked[1].Name)
}

func TestReadZshExtendedHistory(t *testing.T) {
	path := writeHistory(t, ".zsh_history", ": 1700000000:0;git status\n: 1700000005:2;make test\nplain line\n")
	reader := NewReader(path, 10, nil)
	assert.Equal(t, FormatZsh, reader.Format())

	entries, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"git status", "make test", "plain line"}, entries)
}

func TestDetectZshFromContent(t *testing.T) {
	path := writeHistory(t, "histfile", ": 1700000000:0;ls\n")
	assert.Equal(t, FormatZsh, detectFormat(path))
}

func TestReadFishHistory(t *testing.T) {
	path := writeHistory(t, "fish_history",
		"- cmd: git status\n  when: 1700000000\n- cmd: cargo build --release\n  when: 1700000010\n  paths:\n    - src\n")
	reader := NewReader(path, 10, nil)
	assert.Equal(t, FormatFish, reader.Format())

	entries, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"git status", "cargo build --release"}, entries)
}

func TestReadFishHistoryFallsBackToLineScan(t *testing.T) {
	path := writeHistory(t, "fish_history",
		"- cmd: echo a: b\n  when: 1700000000\n- cmd: ls\n  when: 1700000001\n")

	entries, err := NewReader(path, 10, nil).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"echo a: b", "ls"}, entries)
}

func TestReadAtuinHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE history (id TEXT PRIMARY KEY, timestamp INTEGER NOT NULL, command TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO history (id, timestamp, command) VALUES
		('b', 200, 'kubectl get pods'),
		('a', 100, 'git pull'),
		('c', 300, '   ')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reader := NewReader(path, 10, nil)
	assert.Equal(t, FormatAtuin, reader.Format())

	entries, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"git pull", "kubectl get pods"}, entries)
}

func TestReadAtuinWithoutHistoryTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE unrelated (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewReader(path, 10, nil).Read(context.Background())
	assert.Error(t, err)
}

func TestNewReaderExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	reader := NewReader("~/.bash_history", 0, nil)
	assert.Equal(t, filepath.Join(home, ".bash_history"), reader.Path())
	assert.Equal(t, domain.DefaultMaxHistoryItems, reader.maxItems)
}
