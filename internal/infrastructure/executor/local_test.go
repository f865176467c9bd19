package executor

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalExecutorRunsThroughShell(t *testing.T) {
	var stdout, stderr bytes.Buffer
	exec := NewLocalExecutor("/bin/sh", nil, &stdout, &stderr)

	result, err := exec.Execute(context.Background(), "echo hello && echo oops 1>&2")
	require.NoError(t, err)

	assert.True(t, result.Ran)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestLocalExecutorReportsExitCode(t *testing.T) {
	exec := NewLocalExecutor("/bin/sh", nil, &bytes.Buffer{}, &bytes.Buffer{})

	result, err := exec.Execute(context.Background(), "exit 3")
	require.Error(t, err)
	assert.True(t, result.Ran)
	assert.Equal(t, 3, result.ExitCode)
}

func TestLocalExecutorReportsSignalAsShellStatus(t *testing.T) {
	exec := NewLocalExecutor("/bin/sh", nil, &bytes.Buffer{}, &bytes.Buffer{})

	result, err := exec.Execute(context.Background(), "kill -9 $$")
	require.Error(t, err)
	assert.True(t, result.Ran)
	assert.Equal(t, 128+9, result.ExitCode)
}

func TestLocalExecutorMissingShell(t *testing.T) {
	exec := NewLocalExecutor("/definitely/not/a/shell", nil, &bytes.Buffer{}, &bytes.Buffer{})

	result, err := exec.Execute(context.Background(), "true")
	require.Error(t, err)
	assert.False(t, result.Ran)
}

func TestNewLocalExecutorDefaultsShell(t *testing.T) {
	t.Setenv("SHELL", "")
	assert.Equal(t, "/bin/sh", NewLocalExecutor("", nil, nil, nil).Shell())

	t.Setenv("SHELL", "/bin/zsh")
	assert.Equal(t, "/bin/zsh", NewLocalExecutor("", nil, nil, nil).Shell())
}
