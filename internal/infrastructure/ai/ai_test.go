package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

func newChatServer(t *testing.T, status int, body string, seen *openai.ChatCompletionRequest, auth *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIBackendComplete(t *testing.T) {
	var (
		seen openai.ChatCompletionRequest
		auth string
	)
	server := newChatServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-3.5-turbo-0125",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "ls -la"}, "finish_reason": "stop"}]
	}`, &seen, &auth)

	backend, err := NewFactory().ForConfig(ports.BackendConfig{Credential: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	assert.Equal(t, "openai", backend.Name())

	resp, err := backend.Complete(context.Background(), ports.CompletionRequest{
		Model:        "gpt-3.5-turbo",
		SystemPrompt: "system text",
		Prompt:       "user text",
		Temperature:  0.1,
	})
	require.NoError(t, err)

	assert.Equal(t, "ls -la", resp.Text)
	assert.Equal(t, "gpt-3.5-turbo-0125", resp.Model)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-3.5-turbo", seen.Model)
	assert.InDelta(t, 0.1, seen.Temperature, 0.0001)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, seen.Messages[0].Role)
	assert.Equal(t, "system text", seen.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, seen.Messages[1].Role)
	assert.Equal(t, "user text", seen.Messages[1].Content)
}

func TestOpenAIBackendServerError(t *testing.T) {
	server := newChatServer(t, http.StatusInternalServerError,
		`{"error": {"message": "upstream exploded", "type": "server_error"}}`, nil, nil)

	backend, err := NewFactory().ForConfig(ports.BackendConfig{Credential: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = backend.Complete(context.Background(), ports.CompletionRequest{Prompt: "x"})
	assert.ErrorContains(t, err, "upstream exploded")
}

func TestOpenAIBackendNoChoices(t *testing.T) {
	server := newChatServer(t, http.StatusOK, `{"id": "1", "object": "chat.completion", "choices": []}`, nil, nil)

	backend, err := NewFactory().ForConfig(ports.BackendConfig{Credential: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = backend.Complete(context.Background(), ports.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

func TestOpenAIBackendHonoursContext(t *testing.T) {
	server := newChatServer(t, http.StatusOK, `{"choices": []}`, nil, nil)
	backend, err := NewFactory().ForConfig(ports.BackendConfig{
		Credential: "sk-test",
		BaseURL:    server.URL + "/v1",
		Timeout:    time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = backend.Complete(ctx, ports.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFactoryForConfig(t *testing.T) {
	factory := NewFactory()

	offline, err := factory.ForConfig(ports.BackendConfig{Offline: true})
	require.NoError(t, err)
	assert.Equal(t, "offline", offline.Name())

	_, err = factory.ForConfig(ports.BackendConfig{})
	assert.ErrorIs(t, err, domain.ErrMissingCredential)

	_, err = factory.ForConfig(ports.BackendConfig{Credential: "sk", BaseURL: "ftp://example.com"})
	assert.ErrorContains(t, err, "scheme must be http or https")

	_, err = factory.ForConfig(ports.BackendConfig{Credential: "sk", BaseURL: "https://"})
	assert.ErrorContains(t, err, "missing host")
}

func TestHeuristicBackend(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{query: "show running Docker containers", want: "docker ps"},
		{query: "what is the git status", want: "git status"},
		{query: "list all files here", want: "ls -la"},
		{query: "how much disk is free", want: "df -h"},
		{query: "print the current directory", want: "pwd"},
		{query: "which ports are listening", want: "lsof -i -P -n"},
	}

	backend := newHeuristicBackend()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := backend.Complete(context.Background(), ports.CompletionRequest{Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Text)
		})
	}

	_, err := backend.Complete(context.Background(), ports.CompletionRequest{Query: "compose a haiku"})
	assert.ErrorIs(t, err, errNoOfflineRule)
}

func TestResolveCredential(t *testing.T) {
	tests := []struct {
		name       string
		override   string
		env        string
		stored     string
		wantKey    string
		wantSource domain.CredentialSource
	}{
		{name: "override wins", override: "sk-flag", env: "sk-env", stored: "sk-file", wantKey: "sk-flag", wantSource: domain.CredentialFlag},
		{name: "environment beats file", env: "sk-env", stored: "sk-file", wantKey: "sk-env", wantSource: domain.CredentialEnvironment},
		{name: "file last", stored: "sk-file", wantKey: "sk-file", wantSource: domain.CredentialConfig},
		{name: "blank values ignored", override: "  ", env: " ", stored: "", wantKey: "", wantSource: domain.CredentialNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(domain.EnvAPIKey, tt.env)
			key, source := ResolveCredential(tt.override, tt.stored)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "Not set", MaskKey(""))
	assert.Equal(t, "*****", MaskKey("short"))
	assert.Equal(t, "sk-a...wxyz", MaskKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
