package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Wrap(zap.New(core))

	log.Debug("selected template", map[string]interface{}{"kind": "with_history"})
	log.Warn("history unavailable", nil)
	log.Error("backend failed", errors.New("boom"), map[string]interface{}{"backend": "openai"})

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "selected template", entries[0].Message)
	assert.Equal(t, "with_history", entries[0].ContextMap()["kind"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Empty(t, entries[1].Context)

	ctx := entries[2].ContextMap()
	assert.Equal(t, "openai", ctx["backend"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNewQuietLoggerDropsEntries(t *testing.T) {
	log := New(false)
	log.Info("ignored", map[string]interface{}{"k": "v"})
	assert.NoError(t, log.Sync())
}

func TestWrapNil(t *testing.T) {
	assert.NotNil(t, Wrap(nil).base)
}
